package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer parses and executes text/template files with a shared helper
// function map. Parsed templates are cached, so rendering the same catalog
// template for many units only parses it once. Safe for concurrent use.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders an inline template. The name keys the cache and
// appears in error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	if tmpl, ok := r.cached("string:" + name); ok {
		return r.execute(tmpl, data)
	}

	tmpl, err := template.New(name).Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}
	r.store("string:"+name, tmpl)

	return r.execute(tmpl, data)
}

// RenderFile renders a template loaded from disk, used for catalog template
// files.
func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	if tmpl, ok := r.cached("file:" + path); ok {
		return r.execute(tmpl, data)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %q: %w", path, err)
	}

	tmpl, err := template.New(path).Funcs(r.funcMap).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", path, err)
	}
	r.store("file:"+path, tmpl)

	return r.execute(tmpl, data)
}

// ClearCache drops all cached templates.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) cached(key string) (*template.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.cache[key]
	return tmpl, ok
}

func (r *Renderer) store(key string, tmpl *template.Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = tmpl
}

func (r *Renderer) execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %q: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase,
		"camelCase":  CamelCase,
		"snakeCase":  SnakeCase,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"join":       strings.Join,
		"replace":    strings.ReplaceAll,
		"quote":      Quote,
		"default":    Default,
	}
}

// PascalCase converts snake_case or camelCase to PascalCase.
// Examples: main_page → MainPage, mainPage → MainPage.
func PascalCase(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "_") {
		parts := strings.Split(s, "_")
		for i, part := range parts {
			if part != "" {
				parts[i] = strings.ToUpper(string(part[0])) + part[1:]
			}
		}
		return strings.Join(parts, "")
	}

	if unicode.IsLower(rune(s[0])) {
		return strings.ToUpper(string(s[0])) + s[1:]
	}
	return s
}

// CamelCase converts snake_case or PascalCase to camelCase.
func CamelCase(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "_") {
		parts := strings.Split(s, "_")
		for i, part := range parts {
			if part == "" {
				continue
			}
			if i == 0 {
				parts[i] = strings.ToLower(part)
			} else {
				parts[i] = strings.ToUpper(string(part[0])) + strings.ToLower(part[1:])
			}
		}
		return strings.Join(parts, "")
	}

	if unicode.IsUpper(rune(s[0])) {
		return strings.ToLower(string(s[0])) + s[1:]
	}
	return s
}

// SnakeCase converts PascalCase or camelCase to snake_case.
// Example: MainPage → main_page.
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					b.WriteRune('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Default returns defaultVal when val is nil or an empty string.
func Default(defaultVal, val any) any {
	if val == nil {
		return defaultVal
	}
	if s, ok := val.(string); ok && s == "" {
		return defaultVal
	}
	return val
}

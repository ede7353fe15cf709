// Package project inspects and initializes Go module metadata in generated
// output trees.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModuleInfo holds the parts of go.mod the wizard cares about.
type ModuleInfo struct {
	Path      string // module path, e.g. "github.com/user/myapp"
	GoVersion string // go directive, e.g. "1.25"
}

// DetectModule reads go.mod under rootPath and returns module information.
func DetectModule(rootPath string) (*ModuleInfo, error) {
	modPath := filepath.Join(rootPath, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("go.mod not found in %s", rootPath)
		}
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}

	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return nil, fmt.Errorf("go.mod in %s has no module directive", rootPath)
	}

	info := &ModuleInfo{Path: f.Module.Mod.Path}
	if f.Go != nil {
		info.GoVersion = f.Go.Version
	}
	return info, nil
}

// InitModule writes a minimal go.mod under rootPath. It refuses to overwrite
// an existing module file.
func InitModule(rootPath, modulePath, goVersion string) error {
	modPath := filepath.Join(rootPath, "go.mod")
	if _, err := os.Stat(modPath); err == nil {
		return fmt.Errorf("go.mod already exists in %s", rootPath)
	}

	f := new(modfile.File)
	if err := f.AddModuleStmt(modulePath); err != nil {
		return fmt.Errorf("setting module path: %w", err)
	}
	if err := f.AddGoStmt(goVersion); err != nil {
		return fmt.Errorf("setting go version: %w", err)
	}

	data, err := f.Format()
	if err != nil {
		return fmt.Errorf("formatting go.mod: %w", err)
	}
	return os.WriteFile(modPath, data, 0644)
}

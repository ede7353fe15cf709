package output

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)
	fn()
	return buf.String()
}

func TestMessageMarkers(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string)
		marker string
	}{
		{"Success", Success, "✔"},
		{"Error", Error, "✖"},
		{"Warn", Warn, "⚠"},
		{"Info", Info, "•"},
		{"Progress", Progress, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(t, func() { tt.fn("message") })
			if !strings.Contains(got, tt.marker) || !strings.Contains(got, "message") {
				t.Errorf("%s output = %q, want marker %q and text", tt.name, got, tt.marker)
			}
		})
	}
}

func TestVerbose(t *testing.T) {
	SetVerbose(false)
	if got := capture(t, func() { Verbose("debug detail") }); got != "" {
		t.Errorf("verbose off should print nothing, got %q", got)
	}

	SetVerbose(true)
	defer SetVerbose(false)
	if got := capture(t, func() { Verbose("debug detail") }); !strings.Contains(got, "debug detail") {
		t.Errorf("verbose on should print the message, got %q", got)
	}
}

func TestStepIndents(t *testing.T) {
	got := capture(t, func() { Step("go mod tidy") })
	if !strings.Contains(got, "go mod tidy") {
		t.Errorf("Step output = %q", got)
	}
}

package output

import (
	"bytes"
	"strings"
	"testing"
)

// capture redirects output into a buffer for the duration of f
func capture(f func()) string {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)

	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		print  func(string)
		marker string
	}{
		{"success", Success, "✔"},
		{"error", Error, "✖"},
		{"warn", Warn, "!"},
		{"info", Info, ""},
		{"header", Header, ""},
		{"step", Step, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(func() { tt.print("PROJECT_1.WEBSITE.BACKEND") })

			if !strings.Contains(got, "PROJECT_1.WEBSITE.BACKEND") {
				t.Errorf("output should contain the message, got %q", got)
			}
			if tt.marker != "" && !strings.Contains(got, tt.marker) {
				t.Errorf("output should contain %q, got %q", tt.marker, got)
			}
		})
	}
}

func TestVerbose(t *testing.T) {
	got := capture(func() { Verbose("hidden") })
	if got != "" {
		t.Errorf("Verbose should print nothing when disabled, got %q", got)
	}

	SetVerbose(true)
	defer SetVerbose(false)

	got = capture(func() { Verbose("shown") })
	if !strings.Contains(got, "shown") {
		t.Errorf("Verbose should print when enabled, got %q", got)
	}
}

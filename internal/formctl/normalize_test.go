package formctl_test

import (
	"errors"
	"testing"

	"github.com/raysh454/urlanalyzer/internal/formctl"
)

func TestNormalizeInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "example.com", "http://example.com"},
		{"host with path", "www.example.com/path?q=1", "http://www.example.com/path?q=1"},
		{"trims whitespace", "  example.com \t", "http://example.com"},
		{"http kept", "http://example.com", "http://example.com"},
		{"https kept", "https://example.com", "https://example.com"},
		{"uppercase scheme kept", "HTTPS://Example.com", "HTTPS://Example.com"},
		{"mixed case scheme kept", "HtTp://example.com", "HtTp://example.com"},
		{"other scheme prefixed", "ftp://example.com", "http://ftp://example.com"},
		{"scheme without slashes prefixed", "http:example.com", "http://http:example.com"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := formctl.NormalizeInput(tt.in)
			if err != nil {
				t.Fatalf("NormalizeInput(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeInput_Empty(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", " ", "\t\n  "} {
		if _, err := formctl.NormalizeInput(in); !errors.Is(err, formctl.ErrEmptyInput) {
			t.Errorf("NormalizeInput(%q) err = %v, want ErrEmptyInput", in, err)
		}
	}
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with rule",
			err:      NewConfig("heading", "no section for any direction"),
			wantMsg:  "rule heading: no section for any direction",
			wantBase: ErrConfig,
		},
		{
			name:     "without rule",
			err:      &ConfigError{Message: "empty rule list"},
			wantMsg:  "rule configuration: empty rule list",
			wantBase: ErrConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantBase)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	underlying := fmt.Errorf("unexpected EOF")

	t.Run("with path", func(t *testing.T) {
		err := NewParse("richtext", "doc.xml", underlying)
		want := "failed to parse richtext at doc.xml: unexpected EOF"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if got := err.Unwrap(); got != underlying {
			t.Errorf("Unwrap() = %v, want %v", got, underlying)
		}
		if !Is(err, ErrInvalidInput) {
			t.Error("ParseError with underlying error should match ErrInvalidInput")
		}
	})

	t.Run("without underlying error", func(t *testing.T) {
		err := &ParseError{Format: "html", Message: "empty input"}
		if got := err.Error(); got != "failed to parse html: empty input" {
			t.Errorf("Error() = %q", got)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("ParseError should unwrap to ErrInvalidInput")
		}
	})
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("direction", "bijective is not a conversion target")
	if got := err.Error(); got != "unsupported direction: bijective is not a conversion target" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should unwrap to ErrUnsupported")
	}

	bare := &UnsupportedError{Feature: "dialect"}
	if got := bare.Error(); got != "unsupported dialect" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}

	base := NewConfig("table", "bad")
	wrapped := Wrapf(Wrap(base, "building rules"), "engine %s", "default")
	if got := wrapped.Error(); got != "engine default: building rules: rule table: bad" {
		t.Errorf("Error() = %q", got)
	}

	var ce *ConfigError
	if !As(wrapped, &ce) {
		t.Fatal("As should find the ConfigError")
	}
	if ce.Rule != "table" {
		t.Errorf("Rule = %q, want table", ce.Rule)
	}
}

package domain

import (
	"errors"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with section",
			err:  ConfigError{Op: "content", Section: SectionHero, Message: "no text"},
			want: "config content [hero]: no text",
		},
		{
			name: "with section and underlying error",
			err:  ConfigError{Op: "content", Section: SectionHero, Message: "no text", Err: ErrMissingContent},
			want: "config content [hero]: no text: missing content",
		},
		{
			name: "with message only",
			err:  ConfigError{Op: "sequence", Message: "empty"},
			want: "config sequence: empty",
		},
		{
			name: "with message and underlying error",
			err:  ConfigError{Op: "cascade", Message: "bad cascadeOrder", Err: ErrUnknownSection},
			want: "config cascade: bad cascadeOrder: unknown section",
		},
		{
			name: "with underlying error",
			err:  ConfigError{Op: "cascade", Err: errors.New("boom")},
			want: "config cascade: boom",
		},
		{
			name: "minimal",
			err:  ConfigError{Op: "load"},
			want: "config load failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ConfigError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	err := &ConfigError{Op: "content", Section: SectionContact, Err: ErrMissingContent}

	if !errors.Is(err, ErrMissingContent) {
		t.Errorf("errors.Is(err, ErrMissingContent) = false, want true")
	}

	var cfgErr *ConfigError
	if !errors.As(error(err), &cfgErr) {
		t.Fatal("errors.As should find *ConfigError")
	}
	if cfgErr.Section != SectionContact {
		t.Errorf("Section = %v, want %v", cfgErr.Section, SectionContact)
	}
}

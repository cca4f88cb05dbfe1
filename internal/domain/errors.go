package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnknownSection  = errors.New("unknown section")
	ErrMissingContent  = errors.New("missing content")
	ErrInvalidSequence = errors.New("invalid sequence")
)

// ConfigError reports a configuration problem found while wiring the desktop
type ConfigError struct {
	Op      string    // Stage: "content", "cascade", "sequence", ...
	Section SectionID // Optional: section the problem refers to
	Message string    // Human-readable context
	Err     error     // Underlying error
}

func (e *ConfigError) Error() string {
	if e.Section != "" {
		if e.Err != nil {
			return fmt.Sprintf("config %s [%s]: %s: %v", e.Op, e.Section, e.Message, e.Err)
		}
		return fmt.Sprintf("config %s [%s]: %s", e.Op, e.Section, e.Message)
	}
	if e.Message != "" {
		if e.Err != nil {
			return fmt.Sprintf("config %s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("config %s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("config %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("config %s failed", e.Op)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

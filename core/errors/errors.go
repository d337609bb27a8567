// Package errors provides the error types shared by the converter packages.
//
// Only configuration and input parsing fail. Conversion itself never returns
// an error: unknown shapes pass through and invalid content is dropped and
// recorded in the loss report.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrInvalidInput indicates malformed input markup
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported feature or dialect
	ErrUnsupported = errors.New("unsupported")
	// ErrConfig indicates a rule configuration that cannot be used
	ErrConfig = errors.New("invalid rule configuration")
)

// ConfigError represents a rule configuration error detected at
// construction time.
type ConfigError struct {
	Rule    string // Rule ID, if known
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ConfigError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("rule %s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("rule configuration: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConfig
}

// ParseError represents a parsing error of input markup
type ParseError struct {
	Format  string // Format being parsed (e.g., "richtext", "html", "content reference")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Is reports ErrInvalidInput as matching, whatever the underlying error.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or dialect
type UnsupportedError struct {
	Feature string // Feature that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// NewConfig creates a ConfigError
func NewConfig(rule, message string) *ConfigError {
	return &ConfigError{
		Rule:    rule,
		Message: message,
	}
}

// NewParse creates a ParseError wrapping err
func NewParse(format, path string, err error) *ParseError {
	pe := &ParseError{
		Format: format,
		Path:   path,
		Err:    err,
	}
	if err != nil {
		pe.Message = err.Error()
	}
	return pe
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

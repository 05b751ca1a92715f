package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Wrap them with fmt.Errorf("%w: ...") to add detail;
// MapError and the HTTP layer match them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
)

// Specific forms of the sentinels above; errors.Is(ErrUserNotFound,
// ErrNotFound) holds. ErrLocationMismatch travels inside ValidationErrors.
var (
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrCenterNotFound        = fmt.Errorf("center %w", ErrNotFound)
	ErrInspectionNotFound    = fmt.Errorf("inspection %w", ErrNotFound)
	ErrUnknownReport         = fmt.Errorf("report %w", ErrNotFound)
	ErrUsernameTaken         = fmt.Errorf("username %w", ErrDuplicate)
	ErrUnknownInspectionType = fmt.Errorf("%w: unknown inspection type", ErrValidation)
	ErrInvalidDate           = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrLocationMismatch      = errors.New("location does not match any inventory box")
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`

	// Err optionally classifies the problem, e.g. ErrLocationMismatch.
	Err error `json:"-"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects every problem found in one input.
// It unwraps to ErrValidation and to each entry's Err.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (es ValidationErrors) Unwrap() []error {
	out := []error{ErrValidation}
	for _, e := range es {
		if e.Err != nil {
			out = append(out, e.Err)
		}
	}
	return out
}

// Fields returns a field -> message map for API responses.
func (es ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(es))
	for _, e := range es {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// OrNil returns nil when there are no errors.
func (es ValidationErrors) OrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

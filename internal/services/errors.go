package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfiguration = errors.New("invalid label configuration")
	ErrMalformedDocument    = errors.New("malformed annotation document")
	ErrSourceNotFound       = errors.New("source not found")
	ErrSessionDone          = errors.New("annotation session done")
	ErrNotStarted           = errors.New("annotation session not started")
	ErrSkipDisabled         = errors.New("skip disabled")
	ErrValidation           = errors.New("validation error")
	ErrConfiguration        = errors.New("configuration error")
	ErrLocked               = errors.New("resource locked")
	ErrTransient            = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUserError reports whether err stems from caller input rather than the
// environment. The CLI uses it to decide whether to print usage hints.
func IsUserError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidConfiguration),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrMalformedDocument):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "labeler failure"
	}
	return strings.Join(parts, ": ")
}

package chat

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidModel       = errors.New("invalid model")
	ErrNoModelSelected    = errors.New("no model selected")
	ErrRuntimeUnavailable = errors.New("model runtime unavailable")
	ErrSessionNotFound    = errors.New("session not found")
)

// InvalidModelError names a model that is not in the listed catalog.
type InvalidModelError struct {
	Name string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("model %s is not available", e.Name)
}

func (e *InvalidModelError) Is(target error) bool { return target == ErrInvalidModel }

package layouts

import (
	"errors"
	"fmt"
)

var (
	ErrProjectIDRequired  = errors.New("layouts: project id required")
	ErrPageNameRequired   = errors.New("layouts: page name required")
	ErrInstanceIDRequired = errors.New("layouts: instance id required")
	ErrBlockTypeRequired  = errors.New("layouts: block type required")
	ErrDuplicateInstance  = errors.New("layouts: duplicate instance id")
	ErrInstanceNotFound   = errors.New("layouts: block instance not found")
	ErrIndexOutOfRange    = errors.New("layouts: index out of range")
	ErrPersistUnavailable = errors.New("layouts: editor has no persist hook")
	ErrInvalidProperties  = errors.New("layouts: invalid block properties")
)

// NotFoundError is returned when a layout record does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NotFound marks the error as a missing resource.
func (e *NotFoundError) NotFound() bool { return true }

// IsNotFound reports whether err is a layout *NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

package domain

import "errors"

// Error kinds returned by the core. Callers add detail with fmt.Errorf("%w: ...")
// and match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
)

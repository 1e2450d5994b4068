package ingest

import (
	"errors"
	"fmt"
)

// ErrValidation marks a user-correctable problem in an uploaded file.
// Handlers map it to a 400 response; the message names the exact row.
var ErrValidation = errors.New("invalid upload")

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

package capture

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("capture: aborted")
	// ErrInputClosed is returned when the input stream ends mid-sequence.
	ErrInputClosed = errors.New("capture: input closed")
)

// ErrCodeCapture tags every validation failure raised while collecting.
const ErrCodeCapture = "RENDERCLI_CAPTURE"

const (
	ErrMsgRequired     = "a value is required"
	ErrMsgInvalidFrame = "frame must be an integer"
)

// Metadata keys attached to capture errors.
const (
	MetaKeyField    = "field"
	MetaKeyInput    = "input"
	MetaKeyAttempts = "attempts"
)

func newRequiredError(field string, attempts int) error {
	return cuserr.NewValidationError(ErrCodeCapture, ErrMsgRequired).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyAttempts, strconv.Itoa(attempts))
}

func newInvalidFrameError(field, input string, attempts int, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeCapture, ErrMsgInvalidFrame)
	} else {
		err = cuserr.NewValidationError(ErrCodeCapture, ErrMsgInvalidFrame)
	}
	return err.
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyInput, input).
		WithMetadata(MetaKeyAttempts, strconv.Itoa(attempts))
}

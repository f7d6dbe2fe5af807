package launch

import (
	"os/exec"

	"github.com/itsatony/go-cuserr"
)

// ErrCodeLaunch tags failures to start the render tool.
const ErrCodeLaunch = "RENDERCLI_LAUNCH"

const (
	ErrMsgSplit  = "command could not be split into arguments"
	ErrMsgStart  = "render tool could not be started"
	ErrMsgSignal = "render tool was terminated by a signal"
)

const (
	// MetaKeyCommand holds the offending command string.
	MetaKeyCommand = "command"
	// MetaKeyState holds the child's final process state, e.g. "signal: killed".
	MetaKeyState = "state"
)

func newSplitError(command string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeLaunch, ErrMsgSplit)
	} else {
		err = cuserr.NewValidationError(ErrCodeLaunch, ErrMsgSplit)
	}
	return err.WithMetadata(MetaKeyCommand, command)
}

func newStartError(command string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeLaunch, ErrMsgStart).
		WithMetadata(MetaKeyCommand, command)
}

func newSignalError(command string, exitErr *exec.ExitError) error {
	return cuserr.WrapStdError(exitErr, ErrCodeLaunch, ErrMsgSignal).
		WithMetadata(MetaKeyCommand, command).
		WithMetadata(MetaKeyState, exitErr.String())
}

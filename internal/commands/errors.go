package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors.
const (
	CodeInvalidMessage = "AGENCY_COMMAND_INVALID"
	CodeCanceled       = "AGENCY_COMMAND_CANCELED"
	CodeTimeout        = "AGENCY_COMMAND_TIMEOUT"
	CodeFailed         = "AGENCY_COMMAND_FAILED"
)

// IsValidation reports whether err came from a message that failed
// validation, as opposed to a failure while running it.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeInvalidMessage)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(CodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command canceled").
		WithTextCode(CodeCanceled)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(CodeFailed)
}

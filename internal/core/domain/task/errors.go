package task

import "errors"

var (
	ErrFormatInvalid    = errors.New("message format is invalid")
	ErrDateTimeInPast   = errors.New("reminder time is in the past")
	ErrTaskDoesNotExist = errors.New("task does not exist")
)

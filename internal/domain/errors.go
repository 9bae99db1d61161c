package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// InvalidTransitionError is raised when a state machine rejects a transition
// before any write is attempted.
type InvalidTransitionError struct {
	Reference string
	From      string
	To        string
	Msg       string
}

func (e InvalidTransitionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid transition for %s: %s -> %s", e.Reference, e.From, e.To)
}

type RemoteWriteError struct {
	Op  string
	Err error
}

func (e RemoteWriteError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("store write failed (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store write failed: %v", e.Err)
}

func (e RemoteWriteError) Unwrap() error { return e.Err }

type SubscriptionError struct {
	Subject string
	Err     error
}

func (e SubscriptionError) Error() string {
	return fmt.Sprintf("change feed subscription failed (%s): %v", e.Subject, e.Err)
}

func (e SubscriptionError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsRemoteWrite(err error) bool {
	var target RemoteWriteError
	return errors.As(err, &target)
}

func IsSubscription(err error) bool {
	var target SubscriptionError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

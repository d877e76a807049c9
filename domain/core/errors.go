package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrJobNotFound = fmt.Errorf("%w: batch job", ErrNotFound)

	// Input rejection errors
	ErrEmptyInput       = errors.New("input is empty")
	ErrTooFewLines      = errors.New("input must contain a header row and at least one data row")
	ErrInputTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrUnknownOperation = errors.New("unknown cleaning operation")

	// Job lifecycle errors
	ErrInvalidTransition = errors.New("invalid job state transition")
	ErrJobTerminal       = errors.New("job is already in a terminal state")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewUnknownOperationError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

func NewInputTooLargeError(sizeBytes, maxBytes int) error {
	return fmt.Errorf("%w: %.1fMB exceeds %.1fMB limit",
		ErrInputTooLarge, float64(sizeBytes)/1024/1024, float64(maxBytes)/1024/1024)
}

func NewInvalidTransitionError(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnknownOperation(err error) bool {
	return errors.Is(err, ErrUnknownOperation)
}

func IsInputTooLarge(err error) bool {
	return errors.Is(err, ErrInputTooLarge)
}

func IsInputRejection(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrTooFewLines) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrUnknownOperation)
}

func IsJobStateError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrJobTerminal)
}

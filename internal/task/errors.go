package task

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrValidation indicates rejected user input, such as an empty description.
	ErrValidation = errors.New("invalid task")

	// ErrSelection indicates an operation that needs a task did not get a usable one.
	ErrSelection = errors.New("invalid selection")

	// ErrNoSelection indicates no task was selected.
	ErrNoSelection = fmt.Errorf("%w: no task selected", ErrSelection)

	// ErrNotFound indicates the selected task no longer exists.
	ErrNotFound = fmt.Errorf("%w: task not found", ErrSelection)

	// ErrDeclined indicates the user declined a destructive operation.
	// Nothing was changed; callers normally ignore it.
	ErrDeclined = errors.New("confirmation declined")
)

package habit

import "errors"

// Failure kinds reported by the registry, the ledger and the persistence
// layer. Callers wrap them with context and match with errors.Is.
var (
	// ErrInvalidName is returned when a habit name is empty after trimming.
	ErrInvalidName = errors.New("habit name cannot be empty")

	// ErrDuplicateName is returned when a habit name is already registered.
	ErrDuplicateName = errors.New("habit already exists")

	// ErrNotFound is returned when an operation targets an unknown habit,
	// or a date-scoped undo targets a date that is not marked.
	ErrNotFound = errors.New("not found")

	// ErrCorruptState is returned when the persisted document cannot be
	// parsed or holds malformed values.
	ErrCorruptState = errors.New("corrupt persisted state")
)

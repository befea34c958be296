package kindstore

import "github.com/rotisserie/eris"

var (
	// ErrUnknownKind is returned when a numeric kind id was never registered.
	ErrUnknownKind = eris.New("unknown component kind")

	// ErrKindMismatch is raised when a kind is used with a world that registered
	// a different kind under the same id, or with an operation its strategy does not support.
	ErrKindMismatch = eris.New("component kind mismatch")

	// ErrNotVersioned is raised when asking a non versioned kind for its commit history.
	ErrNotVersioned = eris.New("component kind is not versioned")

	// ErrDuplicateKind is raised when registering two kinds under the same id.
	ErrDuplicateKind = eris.New("component kind registered twice")

	// ErrInitialization wraps failures of a kind initializer.
	ErrInitialization = eris.New("component initialization failed")

	// ErrWriterConflict is returned when two systems claim to write the same kind.
	ErrWriterConflict = eris.New("component kind has more than one writer")
)

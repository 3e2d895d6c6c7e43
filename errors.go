package plotgg

import "errors"

// Sentinel errors returned by the renderer. Errors are wrapped with
// context; test for them with errors.Is.
var (
	// ErrInvalidArgument reports a caller contract violation, such as
	// mismatched mesh array lengths or a negative line width. It is
	// returned before anything is drawn.
	ErrInvalidArgument = errors.New("plotgg: invalid argument")

	// ErrNativeFailure reports a drawing-library failure such as a surface
	// or pattern allocation error. The draw call that hit it is aborted.
	ErrNativeFailure = errors.New("plotgg: drawing failure")

	// ErrNoSurface is returned when binding a nil surface.
	ErrNoSurface = errors.New("plotgg: no surface")

	// ErrUnknownBackend is returned by backend selection for unregistered
	// names.
	ErrUnknownBackend = errors.New("plotgg: unknown backend")
)

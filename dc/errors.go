package dc

import "errors"

var (
	// ErrBadConfig is returned by Render when Config fails validation.
	ErrBadConfig = errors.New("dc: invalid configuration")
	// ErrAborted is returned when a render was cancelled via context;
	// per §5, no partial mesh is ever returned alongside it.
	ErrAborted = errors.New("dc: render aborted")
	// ErrPoolExhausted names an out-of-memory condition at the object
	// pool layer. The sync.Pool-backed pools never report exhaustion, so
	// no function in this package returns it.
	ErrPoolExhausted = errors.New("dc: object pool exhausted")
)

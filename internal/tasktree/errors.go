package tasktree

import (
	"errors"
	"fmt"
)

// ErrRejected is wrapped by every structural rejection. A rejected mutation
// leaves the tree unchanged and must not reach the server.
var ErrRejected = errors.New("mutation rejected")

var (
	ErrTaskNotFound   = fmt.Errorf("%w: task not found", ErrRejected)
	ErrSelfDrop       = fmt.Errorf("%w: task cannot be placed relative to itself", ErrRejected)
	ErrDepthExceeded  = fmt.Errorf("%w: maximum nesting depth exceeded", ErrRejected)
	ErrCycle          = fmt.Errorf("%w: task cannot become a child of its own descendant", ErrRejected)
	ErrStaleReference = fmt.Errorf("%w: referenced parent or group no longer exists", ErrRejected)
)

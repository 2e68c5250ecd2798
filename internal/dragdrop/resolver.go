package dragdrop

import (
	"errors"

	"github.com/yukikurage/project-board/internal/dto"
)

// State of a drag gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// ErrNotDragging is returned by operations that need a picked-up task.
var ErrNotDragging = errors.New("no drag in progress")

// Resolver tracks one drag gesture at a time. It is not safe for concurrent
// use; the board session serializes access.
type Resolver struct {
	state    State
	active   string
	over     Target
	position Position
}

// NewResolver returns an idle resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// State returns the current gesture state.
func (r *Resolver) State() State {
	return r.state
}

// Active returns the dragged task id, empty when idle.
func (r *Resolver) Active() string {
	return r.active
}

// Over returns the hovered target.
func (r *Resolver) Over() Target {
	return r.over
}

// Position returns the current drop zone indicator.
func (r *Resolver) Position() Position {
	return r.position
}

// PickUp starts dragging taskID. A gesture already in progress is replaced.
func (r *Resolver) PickUp(taskID string) {
	r.state = StateDragging
	r.active = taskID
	r.over = Target{}
	r.position = PositionNone
}

// Hover records the target under the cursor. Group targets never carry a
// position.
func (r *Resolver) Hover(over Target, pos Position) error {
	if r.state != StateDragging {
		return ErrNotDragging
	}
	if over.Kind != TargetTask {
		pos = PositionNone
	}
	r.over = over
	r.position = pos
	return nil
}

// HoverTask records a task under the cursor and derives the zone from the
// cursor's vertical position inside rect.
func (r *Resolver) HoverTask(taskID string, cursorY float64, rect Rect) error {
	return r.Hover(OverTask(taskID), PositionFor(cursorY, rect))
}

// HoverGroup records a group header or body under the cursor.
func (r *Resolver) HoverGroup(groupID *string) error {
	return r.Hover(OverGroup(groupID), PositionNone)
}

// Leave clears the hovered target, as when the cursor leaves every drop zone.
func (r *Resolver) Leave() error {
	return r.Hover(Target{}, PositionNone)
}

// Drop ends the gesture and resolves it against tasks. The resolver is idle
// afterwards, whatever the outcome.
func (r *Resolver) Drop(tasks []dto.TaskDTO) (Intent, error) {
	if r.state != StateDragging {
		return Intent{Kind: IntentNone}, ErrNotDragging
	}
	active, over, pos := r.active, r.over, r.position
	r.reset()
	return Resolve(tasks, active, over, pos)
}

// Cancel abandons the gesture.
func (r *Resolver) Cancel() {
	r.reset()
}

func (r *Resolver) reset() {
	*r = Resolver{}
}

// Package dragdrop turns a drag gesture over the task board into a single
// mutation intent. It never touches the network; the board session applies
// the resolved intent.
package dragdrop

// Position is the zone of the hovered task the cursor is in.
type Position string

const (
	PositionNone   Position = ""
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// EdgeZoneRatio is the share of a task's height, at the top and at the bottom,
// that places the dragged task as a sibling. The middle is the nesting zone.
const EdgeZoneRatio = 0.2

// Rect is the vertical extent of a hovered element, in the same coordinate
// space as the cursor.
type Rect struct {
	Top    float64
	Height float64
}

// PositionFor computes the drop zone of cursorY inside rect. An empty rect
// gives PositionNone.
func PositionFor(cursorY float64, rect Rect) Position {
	if rect.Height <= 0 {
		return PositionNone
	}

	relative := cursorY - rect.Top
	threshold := rect.Height * EdgeZoneRatio
	switch {
	case relative < threshold:
		return PositionTop
	case relative > rect.Height-threshold:
		return PositionBottom
	default:
		return PositionCenter
	}
}

// ParsePosition maps the wire names back to a Position.
func ParsePosition(s string) (Position, bool) {
	switch p := Position(s); p {
	case PositionTop, PositionCenter, PositionBottom:
		return p, true
	}
	return PositionNone, false
}

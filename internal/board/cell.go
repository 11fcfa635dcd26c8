package board

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Cell is a 1-indexed board coordinate. X is the column, Y the row.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell { return Cell{X: x, Y: y} }

// String renders the cell as "x-y", the key format used by clients.
func (c Cell) String() string { return fmt.Sprintf("%d-%d", c.X, c.Y) }

// Add returns the cell translated by o.
func (c Cell) Add(o Offset) Cell { return Cell{X: c.X + o.X, Y: c.Y + o.Y} }

// Sub returns the offset that takes origin to c.
func (c Cell) Sub(origin Cell) Offset { return Offset{X: c.X - origin.X, Y: c.Y - origin.Y} }

// OnBoard reports whether both coordinates are >= 1.
func (c Cell) OnBoard() bool { return c.X >= 1 && c.Y >= 1 }

// ParseCell parses the "x-y" form.
func ParseCell(s string) (Cell, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Cell{}, fmt.Errorf("parse cell %q: want x-y", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return Cell{}, fmt.Errorf("parse cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return Cell{}, fmt.Errorf("parse cell %q: %w", s, err)
	}
	return Cell{X: x, Y: y}, nil
}

// Offset is a position relative to an attack origin. The zero value is the origin itself.
type Offset struct {
	X int `json:"oX,omitempty"`
	Y int `json:"oY,omitempty"`
}

// IsZero reports whether o points at the origin.
func (o Offset) IsZero() bool { return o.X == 0 && o.Y == 0 }

// Direction of a directional weapon's footprint.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directionNames = [...]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if d < Up || d > Left {
		return "unknown"
	}
	return directionNames[d]
}

// Next cycles up -> right -> down -> left -> up.
func (d Direction) Next() Direction { return (d + 1) % 4 }

// Step is the unit offset one cell along d. Y grows downwards.
func (d Direction) Step() Offset {
	switch d {
	case Up:
		return Offset{Y: -1}
	case Right:
		return Offset{X: 1}
	case Down:
		return Offset{Y: 1}
	case Left:
		return Offset{X: -1}
	default:
		return Offset{}
	}
}

// ParseDirection accepts the lowercase names. Empty input means right.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Right, nil
	}
	for i, n := range directionNames {
		if n == s {
			return Direction(i), nil
		}
	}
	return Right, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

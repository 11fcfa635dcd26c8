package game

import (
	"fmt"

	"github.com/pefman/broadside/internal/board"
)

// FootprintInput is everything the resolver looks at.
type FootprintInput struct {
	Origin    board.Cell
	Direction board.Direction
	Weapon    string // primary weapon type
	Bomb      Item   // directional bomb descriptor
	Roster    board.Roster
	Segments  board.SegmentsMap
	Attacks   board.AttacksSet
}

// FootprintResult captures the struck cells, the hits they produce and a log trail.
type FootprintResult struct {
	Cells []board.Cell `json:"cells"`
	Hits  []board.Hit  `json:"hits"`
	Logs  []string     `json:"logs"`
}

// ResolveFootprint computes the cells a weapon affects and the initial hits on occupied cells.
// Hits never carry a sunk flag; that is only set by the operator.
func ResolveFootprint(in FootprintInput) FootprintResult {
	logs := []string{}
	hits := []board.Hit{}

	if in.Weapon != board.WeaponDirectional {
		cells := []board.Cell{in.Origin}
		if s, ok := in.Segments[in.Origin]; ok {
			owner := s.OwnerID(in.Roster)
			hits = append(hits, board.Hit{UserID: owner})
			logs = append(logs, fmt.Sprintf("%s at %s: HIT ship %d (user %d)", in.Weapon, in.Origin, s.ID, owner))
		} else {
			logs = append(logs, fmt.Sprintf("%s at %s: no known ship", in.Weapon, in.Origin))
		}
		return FootprintResult{Cells: cells, Hits: hits, Logs: logs}
	}

	length := in.Bomb.Segments
	if length <= 0 {
		length = DefaultDirectionalLength
	}
	logs = append(logs, fmt.Sprintf("directional at %s heading %s, length %d", in.Origin, in.Direction, length))

	step := in.Direction.Step()
	cells := make([]board.Cell, 0, length)
	cur := in.Origin
	var off board.Offset
	for i := 0; i < length; i++ {
		if cur.OnBoard() {
			cells = append(cells, cur)
		}
		switch {
		case in.Attacks.Has(cur):
			logs = append(logs, fmt.Sprintf("cell %s already attacked, skipped", cur))
		case in.Segments[cur] != nil:
			s := in.Segments[cur]
			owner := s.OwnerID(in.Roster)
			hits = append(hits, board.Hit{UserID: owner, Offset: off})
			logs = append(logs, fmt.Sprintf("cell %s: HIT ship %d (user %d)", cur, s.ID, owner))
		}
		cur = cur.Add(step)
		off = board.Offset{X: off.X + step.X, Y: off.Y + step.Y}
	}
	return FootprintResult{Cells: cells, Hits: hits, Logs: logs}
}

// InitialHits is ResolveFootprint reduced to its hit list.
func InitialHits(in FootprintInput) []board.Hit {
	return ResolveFootprint(in).Hits
}

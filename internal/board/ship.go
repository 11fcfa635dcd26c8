package board

import "sort"

// Ship is an ordered run of segments. Segments are collinear and contiguous in a real game;
// nothing here re-validates that.
type Ship struct {
	ID       int    `json:"id"`
	Owner    *int   `json:"owner,omitempty"` // nil: the roster's self player
	Segments []Cell `json:"segments"`
}

// OwnerID resolves the controlling player, defaulting to self.
func (s Ship) OwnerID(r Roster) int {
	if s.Owner != nil {
		return *s.Owner
	}
	return r.Self.ID
}

// Sorted returns the segments ordered along the ship's long axis.
// When the first two segments share x the ship is vertical and sorts by y; otherwise by x.
func (s Ship) Sorted() []Cell {
	out := append([]Cell(nil), s.Segments...)
	if len(out) < 2 {
		return out
	}
	vertical := out[0].X == out[1].X
	sort.SliceStable(out, func(i, j int) bool {
		if vertical {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// AttacksSet is every cell already struck by a recorded attack.
type AttacksSet map[Cell]struct{}

// Has reports membership.
func (s AttacksSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Attacks projects the recorded attacks onto the cells they struck (origin plus every offset).
func Attacks(actions []BoardAction) AttacksSet {
	set := AttacksSet{}
	for _, a := range actions {
		if !a.IsAttack() {
			continue
		}
		for _, c := range a.Cells() {
			set[c] = struct{}{}
		}
	}
	return set
}

// AttacksExcluding is Attacks without the action with the given id, so an attack under edit
// does not block its own cells.
func AttacksExcluding(actions []BoardAction, id int64) AttacksSet {
	filtered := make([]BoardAction, 0, len(actions))
	for _, a := range actions {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	return Attacks(filtered)
}

// SegmentsMap maps each occupied cell to its ship.
type SegmentsMap map[Cell]*Ship

// Segments projects ships onto the cells they occupy. Later ships win on overlap.
func Segments(ships []Ship) SegmentsMap {
	m := SegmentsMap{}
	for i := range ships {
		s := &ships[i]
		for _, c := range s.Segments {
			m[c] = s
		}
	}
	return m
}

// Owned returns the occupied cells whose ship belongs to user.
func (m SegmentsMap) Owned(r Roster, user int) []Cell {
	out := make([]Cell, 0, len(m))
	for c, s := range m {
		if s.OwnerID(r) == user {
			out = append(out, c)
		}
	}
	return out
}

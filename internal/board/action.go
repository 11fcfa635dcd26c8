package board

// NoAttacker marks an attack whose attacker has not been chosen yet.
const NoAttacker = -1

// ActionType tags board actions. Only attacks are resolved here.
type ActionType string

const (
	ActionAttack ActionType = "attack"
)

// Weapon type identifiers used in BoardAction.Weapons and the item catalog.
const (
	WeaponMissile     = "missile"
	WeaponDirectional = "directional"
	WeaponRanged      = "ranged"
	WeaponLongRanged  = "longranged"
	ItemSegment       = "segment"
)

// Hit records one opponent hit at Origin+Offset.
type Hit struct {
	UserID int `json:"userId"`
	Offset
	Sunk bool `json:"sunk,omitempty"`
}

// BoardAction is a recorded attack.
//
// Weapons[0] picks the footprint; Weapons[1], when present, only modifies range.
type BoardAction struct {
	ID        int64      `json:"id"`
	Type      ActionType `json:"type"`
	Attacker  int        `json:"attacker"`
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Direction Direction  `json:"direction"`
	Weapons   []string   `json:"weapons"`
	Hits      []Hit      `json:"hits"`
}

// Origin is the targeted cell.
func (a BoardAction) Origin() Cell { return Cell{X: a.X, Y: a.Y} }

// IsAttack reports whether the action is an attack.
func (a BoardAction) IsAttack() bool { return a.Type == ActionAttack }

// Primary returns Weapons[0], defaulting to missile.
func (a BoardAction) Primary() string {
	if len(a.Weapons) == 0 || a.Weapons[0] == "" {
		return WeaponMissile
	}
	return a.Weapons[0]
}

// Secondary returns Weapons[1] or "".
func (a BoardAction) Secondary() string {
	if len(a.Weapons) < 2 {
		return ""
	}
	return a.Weapons[1]
}

// Clone returns a deep copy; the result shares no slices with a.
func (a BoardAction) Clone() BoardAction {
	next := a
	if a.Weapons != nil {
		next.Weapons = append([]string(nil), a.Weapons...)
	}
	next.Hits = make([]Hit, len(a.Hits))
	copy(next.Hits, a.Hits)
	return next
}

// Cells returns the origin followed by every hit cell.
func (a BoardAction) Cells() []Cell {
	origin := a.Origin()
	out := make([]Cell, 0, len(a.Hits)+1)
	out = append(out, origin)
	for _, h := range a.Hits {
		out = append(out, origin.Add(h.Offset))
	}
	return out
}

// User is a player at the table.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Roster lists the operator (Self) and their opponents.
type Roster struct {
	Self      User   `json:"self"`
	Opponents []User `json:"opponents"`
}

// Find returns the user with id, self included.
func (r Roster) Find(id int) (User, bool) {
	if r.Self.ID == id {
		return r.Self, true
	}
	for _, u := range r.Opponents {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// IsOpponent reports whether id belongs to an opponent.
func (r Roster) IsOpponent(id int) bool {
	if id == r.Self.ID {
		return false
	}
	_, ok := r.Find(id)
	return ok
}

package game

import "github.com/pefman/broadside/internal/board"

// OverrideThreshold is how many times the operator must confirm an out-of-range shot.
const OverrideThreshold = 5

// Reasons surfaced to the operator when an attack cannot be saved.
const (
	ReasonNoAttacker = "You must select an attacker."
	ReasonOutOfRange = "Your ships are out of range."
)

// AttackRange is the base range for the player's range level plus any ranged secondary weapon.
// The second result is true when a long-ranged secondary lifts the restriction entirely.
func AttackRange(settings Settings, levels Levels, items Items, secondary string) (int, bool) {
	base := 0
	if lvl := clampLevel(levels.Range, len(settings.Upgrades.Range)); lvl >= 0 {
		base = settings.Upgrades.Range[lvl].AttackRange
	}
	if secondary == "" {
		return base, false
	}
	if secondary == board.WeaponLongRanged {
		return base, true
	}
	it, ok := items.Find(secondary)
	if !ok {
		return base, false
	}
	switch it.Type {
	case board.WeaponLongRanged:
		return base, true
	case board.WeaponRanged:
		return base + it.Distance, false
	}
	return base, false
}

// ValidRange is the union of the square neighbourhoods of side 2*rng+1 around every intact cell
// in own, clipped to coordinates >= 1.
func ValidRange(own []board.Cell, attacks board.AttacksSet, rng int) map[board.Cell]struct{} {
	valid := map[board.Cell]struct{}{}
	for _, c := range own {
		if attacks.Has(c) {
			continue
		}
		for x := c.X - rng; x <= c.X+rng; x++ {
			if x < 1 {
				continue
			}
			for y := c.Y - rng; y <= c.Y+rng; y++ {
				if y < 1 {
					continue
				}
				valid[board.Cell{X: x, Y: y}] = struct{}{}
			}
		}
	}
	return valid
}

// RangeInput bundles what Validate needs.
type RangeInput struct {
	Action   board.BoardAction
	Roster   board.Roster
	Segments board.SegmentsMap
	Attacks  board.AttacksSet
	Settings Settings
	Levels   Levels
	Items    Items
	Override int
}

// Validity is the result of Validate. Reason is empty when Valid.
type Validity struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validate decides whether the action may be saved. Only the operator's own attacks are
// range-checked; an attack by an opponent is always accepted once an attacker is set.
func Validate(in RangeInput) Validity {
	a := in.Action
	if a.Attacker < 0 {
		return Validity{Reason: ReasonNoAttacker}
	}
	if a.Attacker != in.Roster.Self.ID {
		return Validity{Valid: true}
	}
	rng, unlimited := AttackRange(in.Settings, in.Levels, in.Items, a.Secondary())
	if unlimited || in.Override >= OverrideThreshold {
		return Validity{Valid: true}
	}
	own := in.Segments.Owned(in.Roster, in.Roster.Self.ID)
	if _, ok := ValidRange(own, in.Attacks, rng)[a.Origin()]; !ok {
		return Validity{Reason: ReasonOutOfRange}
	}
	return Validity{Valid: true}
}

package game

import "github.com/pefman/broadside/internal/board"

// Item is an arsenal entry. Type doubles as the weapon identifier in BoardAction.Weapons.
type Item struct {
	Type        string `json:"type"` // missile, directional, ranged, longranged, segment
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cost        int    `json:"cost"`
	Distance    int    `json:"distance,omitempty"` // ranged: added to attack range
	Segments    int    `json:"segments,omitempty"` // directional: footprint length
}

// Items is the arsenal catalog.
type Items []Item

// Find returns the item with the given type.
func (is Items) Find(typ string) (Item, bool) {
	for _, it := range is {
		if it.Type == typ {
			return it, true
		}
	}
	return Item{}, false
}

// Directional returns the directional bomb descriptor, or a default three-cell one.
func (is Items) Directional() Item {
	if it, ok := is.Find(board.WeaponDirectional); ok && it.Segments > 0 {
		return it
	}
	return Item{Type: board.WeaponDirectional, Name: "Directional Bomb", Segments: DefaultDirectionalLength}
}

// DefaultDirectionalLength is used when the catalog does not size the directional bomb.
const DefaultDirectionalLength = 3

// ShipUpgrade lowers the price of ship segments.
type ShipUpgrade struct {
	Cost        int `json:"cost"`
	SegmentCost int `json:"segmentCost"`
}

// PillageUpgrade pays out for damage dealt.
type PillageUpgrade struct {
	Cost                int `json:"cost"`
	EarningsPerSegment  int `json:"earningsPerSegment"`
	SegmentRewardOnSink int `json:"segmentRewardOnSink"`
}

// MoveUpgrade expands the board one square per level.
type MoveUpgrade struct {
	Cost int `json:"cost"`
}

// RangeUpgrade sets how far a ship can shoot.
type RangeUpgrade struct {
	Cost        int `json:"cost"`
	AttackRange int `json:"attackRange"`
}

// Upgrades holds one table per upgrade track; index is the level.
type Upgrades struct {
	Ship    []ShipUpgrade    `json:"ship"`
	Pillage []PillageUpgrade `json:"pillage"`
	Move    []MoveUpgrade    `json:"move"`
	Range   []RangeUpgrade   `json:"range"`
}

// Settings carries the tunables of a table.
type Settings struct {
	Upgrades      Upgrades `json:"upgrades"`
	MinimumIncome int      `json:"minimumIncome"`
}

// Levels are a player's current upgrade levels.
type Levels struct {
	Ship     int `json:"ship"`
	Pillage  int `json:"pillage"`
	Movement int `json:"movement"`
	Range    int `json:"range"`
}

// UpgradeKind names an upgrade track.
type UpgradeKind string

const (
	UpgradeShip     UpgradeKind = "ship"
	UpgradePillage  UpgradeKind = "pillage"
	UpgradeMovement UpgradeKind = "movement"
	UpgradeRange    UpgradeKind = "range"
)

// clampLevel keeps a level inside a table of n entries.
func clampLevel(level, n int) int {
	if n == 0 {
		return -1
	}
	if level < 0 {
		return 0
	}
	if level >= n {
		return n - 1
	}
	return level
}

package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/game"
)

var (
	ErrInvalidAttack  = errors.New("attack cannot be saved")
	ErrNoAttack       = errors.New("no recorded attack at this cell")
	ErrUnknownWeapon  = errors.New("unknown weapon")
	ErrOutsideOfReach = errors.New("cell is outside the footprint")
)

var lastActionID atomic.Int64

// newActionID stamps new attacks with the current millisecond, bumped past the last id handed
// out so editors opened in the same millisecond never share one.
var newActionID = func() int64 {
	now := time.Now().UnixMilli()
	for {
		last := lastActionID.Load()
		next := max(now, last+1)
		if lastActionID.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Snapshot is the read-only game state an editor works against.
type Snapshot struct {
	Roster   board.Roster
	Ships    []board.Ship
	Actions  []board.BoardAction
	Items    game.Items
	Settings game.Settings
	Levels   game.Levels
}

// Editor holds one operator's edit of the attack at a single cell. It is single-writer:
// callers serialize access.
type Editor struct {
	snap     Snapshot
	segments board.SegmentsMap
	attacks  board.AttacksSet
	bomb     game.Item

	action   board.BoardAction
	editing  bool
	selected board.Cell
	user     int
	hasUser  bool
	override int
}

// NewEditor opens the attack at cell, or starts a fresh one with no attacker and a missile.
func NewEditor(snap Snapshot, cell board.Cell) *Editor {
	e := &Editor{
		snap:     snap,
		segments: board.Segments(snap.Ships),
		bomb:     snap.Items.Directional(),
		selected: cell,
	}
	for _, a := range snap.Actions {
		if a.IsAttack() && a.X == cell.X && a.Y == cell.Y {
			e.action = a.Clone()
			e.editing = true
			break
		}
	}
	if e.editing {
		e.attacks = board.AttacksExcluding(snap.Actions, e.action.ID)
		return e
	}
	e.attacks = board.Attacks(snap.Actions)
	e.action = board.BoardAction{
		ID:        newActionID(),
		Type:      board.ActionAttack,
		Attacker:  board.NoAttacker,
		X:         cell.X,
		Y:         cell.Y,
		Direction: board.Right,
		Weapons:   []string{board.WeaponMissile},
	}
	e.action.Hits = e.hitsFor(board.Right, board.WeaponMissile)
	return e
}

func (e *Editor) hitsFor(d board.Direction, weapon string) []board.Hit {
	return game.InitialHits(game.FootprintInput{
		Origin:    e.action.Origin(),
		Direction: d,
		Weapon:    weapon,
		Bomb:      e.bomb,
		Roster:    e.snap.Roster,
		Segments:  e.segments,
		Attacks:   e.attacks,
	})
}

// set replaces the working action. Any change voids pending override confirmations.
func (e *Editor) set(a board.BoardAction) {
	e.action = a
	e.override = 0
}

// resetSelection puts the selected cell back on the origin.
func (e *Editor) resetSelection() { e.selected = e.action.Origin() }

// Action returns a copy of the working action.
func (e *Editor) Action() board.BoardAction { return e.action.Clone() }

// Editing reports whether the editor opened a recorded attack.
func (e *Editor) Editing() bool { return e.editing }

// SetAttacker picks who fired. Weapon and direction reset to missile heading right.
func (e *Editor) SetAttacker(id int) error {
	if _, ok := e.snap.Roster.Find(id); !ok {
		return fmt.Errorf("set attacker %d: unknown user", id)
	}
	next := e.action.Clone()
	next.Attacker = id
	next.Direction = board.Right
	next.Weapons = []string{board.WeaponMissile}
	next.Hits = e.hitsFor(board.Right, board.WeaponMissile)
	e.set(next)
	e.resetSelection()
	return nil
}

// ClearAttacker unsets the attacker and drops all hits.
func (e *Editor) ClearAttacker() {
	next := e.action.Clone()
	next.Attacker = board.NoAttacker
	next.Hits = []board.Hit{}
	next.Weapons = []string{board.WeaponMissile}
	e.set(next)
	e.resetSelection()
}

// SetWeapons chooses the primary weapon and an optional range modifier, recomputing hits.
func (e *Editor) SetWeapons(primary, secondary string) error {
	switch primary {
	case board.WeaponMissile, board.WeaponDirectional:
	default:
		return fmt.Errorf("primary %q: %w", primary, ErrUnknownWeapon)
	}
	switch secondary {
	case "", board.WeaponRanged, board.WeaponLongRanged:
	default:
		return fmt.Errorf("secondary %q: %w", secondary, ErrUnknownWeapon)
	}
	next := e.action.Clone()
	next.Weapons = []string{primary}
	if secondary != "" {
		next.Weapons = append(next.Weapons, secondary)
	}
	next.Hits = e.hitsFor(next.Direction, primary)
	e.set(next)
	e.resetSelection()
	return nil
}

// Rotate turns a directional weapon clockwise and recomputes hits from scratch.
func (e *Editor) Rotate() {
	next := e.action.Clone()
	next.Direction = next.Direction.Next()
	next.Hits = e.hitsFor(next.Direction, next.Primary())
	e.set(next)
	e.resetSelection()
}

// ToggleHit marks or unmarks an opponent as hit by a single-target weapon.
func (e *Editor) ToggleHit(user int) { e.set(game.ToggleHit(e.action, user)) }

// ToggleSunk flips the sunk flag for an opponent hit by a single-target weapon.
func (e *Editor) ToggleSunk(user int) { e.set(game.ToggleSunk(e.action, user)) }

// SelectUser makes user the active target for per-cell marking. Selecting again deselects.
func (e *Editor) SelectUser(user int) {
	if e.hasUser && e.user == user {
		e.hasUser = false
		e.user = 0
		return
	}
	e.user = user
	e.hasUser = true
}

// SelectedUser returns the active target, if any.
func (e *Editor) SelectedUser() (int, bool) { return e.user, e.hasUser }

// Footprint returns the cells the current weapon covers.
func (e *Editor) Footprint() []board.Cell {
	return game.ResolveFootprint(game.FootprintInput{
		Origin:    e.action.Origin(),
		Direction: e.action.Direction,
		Weapon:    e.action.Primary(),
		Bomb:      e.bomb,
		Roster:    e.snap.Roster,
		Segments:  e.segments,
		Attacks:   e.attacks,
	}).Cells
}

// SelectCell picks a footprint cell for per-cell marking.
func (e *Editor) SelectCell(c board.Cell) error {
	for _, f := range e.Footprint() {
		if f == c {
			e.selected = c
			return nil
		}
	}
	return fmt.Errorf("select %s: %w", c, ErrOutsideOfReach)
}

// Selected returns the selected cell.
func (e *Editor) Selected() board.Cell { return e.selected }

// ToggleSunkAtSelected flips sunk for the active user at the selected cell. No-op without a user.
func (e *Editor) ToggleSunkAtSelected() {
	if !e.hasUser {
		return
	}
	e.set(game.ToggleSunkAt(e.action, e.selected, e.user, true))
}

// Override records one more confirmation of an out-of-range shot.
func (e *Editor) Override() int {
	e.override++
	return e.override
}

// Validate checks the working action against the snapshot.
func (e *Editor) Validate() game.Validity {
	return game.Validate(game.RangeInput{
		Action:   e.action,
		Roster:   e.snap.Roster,
		Segments: e.segments,
		Attacks:  e.attacks,
		Settings: e.snap.Settings,
		Levels:   e.snap.Levels,
		Items:    e.snap.Items,
		Override: e.override,
	})
}

// Save returns the action to record. When editing, the caller replaces the old record.
func (e *Editor) Save() (board.BoardAction, error) {
	if v := e.Validate(); !v.Valid {
		return board.BoardAction{}, fmt.Errorf("%w: %s", ErrInvalidAttack, v.Reason)
	}
	return e.action.Clone(), nil
}

// Undo returns the id of the recorded attack to remove.
func (e *Editor) Undo() (int64, error) {
	if !e.editing {
		return 0, ErrNoAttack
	}
	return e.action.ID, nil
}

// State is a view of the editor for clients.
type State struct {
	Action      board.BoardAction `json:"action"`
	Editing     bool              `json:"editing"`
	Selected    board.Cell        `json:"selected"`
	CurrentUser *int              `json:"currentUser,omitempty"`
	Override    int               `json:"override"`
	Footprint   []board.Cell      `json:"footprint"`
	Valid       bool              `json:"valid"`
	Reason      string            `json:"reason,omitempty"`
	YoureHit    bool              `json:"youreHit"`
	YoureSunk   bool              `json:"youreSunk"`
	SunkHere    bool              `json:"sunkHere"`
}

// State summarizes the editor.
func (e *Editor) State() State {
	v := e.Validate()
	s := State{
		Action:    e.action.Clone(),
		Editing:   e.editing,
		Selected:  e.selected,
		Override:  e.override,
		Footprint: e.Footprint(),
		Valid:     v.Valid,
		Reason:    v.Reason,
	}
	if e.action.Primary() == board.WeaponMissile {
		if ship, ok := e.segments[e.action.Origin()]; ok {
			s.YoureHit = ship.OwnerID(e.snap.Roster) == e.snap.Roster.Self.ID
		}
		s.YoureSunk = game.IsSunk(e.action, e.snap.Roster.Self.ID)
	}
	if e.hasUser {
		u := e.user
		s.CurrentUser = &u
		s.SunkHere = game.IsSunkAt(e.action, e.selected, u)
	}
	return s
}

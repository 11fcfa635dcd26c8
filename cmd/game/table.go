package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/catalog"
	"github.com/pefman/broadside/internal/engine"
	"github.com/pefman/broadside/internal/game"
	"github.com/pefman/broadside/internal/models"
	"github.com/pefman/broadside/internal/stats"
)

var (
	errNoTable        = errors.New("table not found")
	errBadTable       = errors.New("invalid table")
	errAttackConflict = errors.New("conflicting attack")
)

// Table is one operator's board: the fleet, the recorded actions and the wallet.
type Table struct {
	mu       sync.Mutex
	ID       string
	Roster   board.Roster
	Ships    []board.Ship
	Actions  []board.BoardAction
	Wallet   game.Wallet
	Items    game.Items
	Settings game.Settings
	// pillaged remembers what each saved attack paid so undo can take it back
	pillaged map[int64]game.PillageResult
	updated  time.Time
}

var (
	tablesMu sync.Mutex
	tables   = map[string]*Table{}
)

func newTable(req models.NewTable, cat catalog.Catalog) (*Table, error) {
	if req.Roster.Self.ID < 0 {
		return nil, fmt.Errorf("self id %d: %w", req.Roster.Self.ID, errBadTable)
	}
	seen := map[int]bool{req.Roster.Self.ID: true}
	for _, u := range req.Roster.Opponents {
		if seen[u.ID] {
			return nil, fmt.Errorf("duplicate user id %d: %w", u.ID, errBadTable)
		}
		seen[u.ID] = true
	}
	for _, s := range req.Ships {
		if s.Owner != nil && !seen[*s.Owner] {
			return nil, fmt.Errorf("ship %d owner %d: %w", s.ID, *s.Owner, errBadTable)
		}
	}
	if req.Balance < 0 {
		return nil, fmt.Errorf("negative balance: %w", errBadTable)
	}
	settings := cat.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	t := &Table{
		ID:       uuid.NewString(),
		Roster:   req.Roster,
		Ships:    append([]board.Ship(nil), req.Ships...),
		Actions:  []board.BoardAction{},
		Wallet:   game.Wallet{Balance: req.Balance, Inventory: map[string]int{}},
		Items:    cat.Items,
		Settings: settings,
		pillaged: map[int64]game.PillageResult{},
		updated:  time.Now(),
	}
	tablesMu.Lock()
	tables[t.ID] = t
	tablesMu.Unlock()
	log.Printf("table: created id=%s self=%q opponents=%d ships=%d", t.ID, t.Roster.Self.Name, len(t.Roster.Opponents), len(t.Ships))
	return t, nil
}

func getTable(id string) (*Table, error) {
	tablesMu.Lock()
	defer tablesMu.Unlock()
	t, ok := tables[id]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", id, errNoTable)
	}
	return t, nil
}

// Snapshot copies what an editor needs. Editors never see later changes.
func (t *Table) Snapshot() engine.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	actions := make([]board.BoardAction, len(t.Actions))
	for i, a := range t.Actions {
		actions[i] = a.Clone()
	}
	return engine.Snapshot{
		Roster:   t.Roster,
		Ships:    append([]board.Ship(nil), t.Ships...),
		Actions:  actions,
		Items:    t.Items,
		Settings: t.Settings,
		Levels:   t.Wallet.Levels,
	}
}

func (t *Table) indexOf(id int64) int {
	for i, a := range t.Actions {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// undoLocked reverses the wallet effects of a recorded action.
func (t *Table) undoLocked(old board.BoardAction) {
	if old.Attacker == t.Roster.Self.ID {
		t.Wallet = t.Wallet.Restock(old)
	}
	if p, ok := t.pillaged[old.ID]; ok {
		t.Wallet = t.Wallet.Revert(p)
		delete(t.pillaged, old.ID)
	}
}

// checkLocked rejects a save that would move a recorded action or stack a second attack on a cell.
func (t *Table) checkLocked(a board.BoardAction, idx int) error {
	if idx >= 0 {
		if old := t.Actions[idx]; old.Origin() != a.Origin() {
			return fmt.Errorf("action %d is recorded at %s, not %s: %w", a.ID, old.Origin(), a.Origin(), errAttackConflict)
		}
		return nil
	}
	if !a.IsAttack() {
		return nil
	}
	for _, old := range t.Actions {
		if old.IsAttack() && old.Origin() == a.Origin() {
			return fmt.Errorf("cell %s already has attack %d: %w", a.Origin(), old.ID, errAttackConflict)
		}
	}
	return nil
}

// Save records a, replacing the action with the same id at the same cell. The operator's own
// attacks consume their weapons and pay out pillage.
func (t *Table) Save(a board.BoardAction) (game.PillageResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(a.ID)
	if err := t.checkLocked(a, idx); err != nil {
		return game.PillageResult{}, err
	}
	prevWallet := t.Wallet
	prevPillaged := make(map[int64]game.PillageResult, len(t.pillaged))
	for k, v := range t.pillaged {
		prevPillaged[k] = v
	}
	if idx >= 0 {
		t.undoLocked(t.Actions[idx])
	}
	var p game.PillageResult
	if a.Attacker == t.Roster.Self.ID {
		w, err := t.Wallet.Consume(a)
		if err != nil {
			t.Wallet, t.pillaged = prevWallet, prevPillaged
			return game.PillageResult{}, err
		}
		p = game.Pillage(a, t.Roster, t.Settings, w.Levels)
		t.Wallet = w.Apply(p)
		t.pillaged[a.ID] = p
	}
	if idx >= 0 {
		stats.Unrecord(t.ID, t.Actions[idx])
		t.Actions[idx] = a.Clone()
	} else {
		t.Actions = append(t.Actions, a.Clone())
	}
	t.updated = time.Now()

	name := ""
	if u, ok := t.Roster.Find(a.Attacker); ok {
		name = u.Name
	}
	stats.Record(t.ID, name, a)
	log.Printf("table: saved id=%s action=%d attacker=%d hits=%d edit=%v earnings=%d", t.ID, a.ID, a.Attacker, len(a.Hits), idx >= 0, p.Earnings)
	return p, nil
}

// Remove deletes a recorded action and takes back what it cost or paid.
func (t *Table) Remove(id int64) (board.BoardAction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.indexOf(id)
	if idx < 0 {
		return board.BoardAction{}, fmt.Errorf("remove action %d: %w", id, engine.ErrNoAttack)
	}
	old := t.Actions[idx]
	t.undoLocked(old)
	stats.Unrecord(t.ID, old)
	t.Actions = append(t.Actions[:idx], t.Actions[idx+1:]...)
	t.updated = time.Now()
	log.Printf("table: removed id=%s action=%d", t.ID, id)
	return old, nil
}

// Payout credits this round's income.
func (t *Table) Payout() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	income := game.Income(t.Ships, t.Actions, t.Settings.MinimumIncome)
	t.Wallet = t.Wallet.Payout(income)
	t.updated = time.Now()
	log.Printf("table: payout id=%s income=%s balance=%d", t.ID, game.FormatIncome(income), t.Wallet.Balance)
	return income
}

func (t *Table) BuyUpgrade(kind game.UpgradeKind) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.Wallet.BuyUpgrade(t.Settings, kind)
	if err != nil {
		return err
	}
	t.Wallet = w
	t.updated = time.Now()
	return nil
}

func (t *Table) BuyItem(typ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.Wallet.BuyItem(t.Items, t.Settings, typ)
	if err != nil {
		return err
	}
	t.Wallet = w
	t.updated = time.Now()
	return nil
}

func (t *Table) Summary() models.TableSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	actions := make([]board.BoardAction, len(t.Actions))
	for i, a := range t.Actions {
		actions[i] = a.Clone()
	}
	return models.TableSummary{
		ID:      t.ID,
		Roster:  t.Roster,
		Ships:   append([]board.Ship(nil), t.Ships...),
		Actions: actions,
		Wallet:  t.Wallet,
		Income:  game.Report(t.Ships, t.Actions, t.Settings.MinimumIncome),
		Updated: t.updated.Unix(),
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoTable), errors.Is(err, engine.ErrNoAttack),
		errors.Is(err, game.ErrUnknownItem), errors.Is(err, game.ErrUnknownUpgrade):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrMaxLevel),
		errors.Is(err, game.ErrOutOfStock), errors.Is(err, errAttackConflict):
		return http.StatusConflict
	case errors.Is(err, errBadTable), errors.Is(err, errBadMessage), errors.Is(err, engine.ErrUnknownWeapon),
		errors.Is(err, engine.ErrOutsideOfReach):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInvalidAttack):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

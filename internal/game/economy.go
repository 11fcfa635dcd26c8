package game

import (
	"errors"
	"fmt"

	"github.com/pefman/broadside/internal/board"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMaxLevel          = errors.New("upgrade already at max level")
	ErrUnknownItem       = errors.New("unknown item")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrOutOfStock        = errors.New("weapon not in inventory")
)

// Wallet is a player's economic state. Methods never modify the receiver.
type Wallet struct {
	Balance   int            `json:"balance"`
	Segments  int            `json:"segments"` // ship segments bought or rewarded, not yet placed
	Inventory map[string]int `json:"inventory"`
	Levels    Levels         `json:"levels"`
}

func (w Wallet) clone() Wallet {
	next := w
	next.Inventory = make(map[string]int, len(w.Inventory))
	for k, v := range w.Inventory {
		next.Inventory[k] = v
	}
	return next
}

// Price is what an item costs at the given levels. Segments cost the ship table's segmentCost for
// the current level; without one they get one cheaper per ship level.
func Price(it Item, s Settings, levels Levels) int {
	if it.Type != board.ItemSegment {
		return it.Cost
	}
	if lvl := levels.Ship; lvl >= 0 && lvl < len(s.Upgrades.Ship) && s.Upgrades.Ship[lvl].SegmentCost > 0 {
		return s.Upgrades.Ship[lvl].SegmentCost
	}
	return max(it.Cost-levels.Ship, 0)
}

// BuyItem pays for one item of type typ. Segments go to the segment pool, weapons to inventory.
func (w Wallet) BuyItem(items Items, s Settings, typ string) (Wallet, error) {
	it, ok := items.Find(typ)
	if !ok {
		return w, fmt.Errorf("buy %q: %w", typ, ErrUnknownItem)
	}
	cost := Price(it, s, w.Levels)
	if w.Balance < cost {
		return w, fmt.Errorf("buy %q for %d with %d: %w", typ, cost, w.Balance, ErrInsufficientFunds)
	}
	next := w.clone()
	next.Balance -= cost
	if it.Type == board.ItemSegment {
		next.Segments++
	} else {
		next.Inventory[it.Type]++
	}
	return next, nil
}

// NextUpgradeCost returns the cost of the next level on a track.
func NextUpgradeCost(s Settings, levels Levels, kind UpgradeKind) (int, error) {
	var costs []int
	var cur int
	switch kind {
	case UpgradeShip:
		cur = levels.Ship
		for _, u := range s.Upgrades.Ship {
			costs = append(costs, u.Cost)
		}
	case UpgradePillage:
		cur = levels.Pillage
		for _, u := range s.Upgrades.Pillage {
			costs = append(costs, u.Cost)
		}
	case UpgradeMovement:
		cur = levels.Movement
		for _, u := range s.Upgrades.Move {
			costs = append(costs, u.Cost)
		}
	case UpgradeRange:
		cur = levels.Range
		for _, u := range s.Upgrades.Range {
			costs = append(costs, u.Cost)
		}
	default:
		return 0, fmt.Errorf("upgrade %q: %w", kind, ErrUnknownUpgrade)
	}
	if cur+1 >= len(costs) {
		return 0, fmt.Errorf("upgrade %s past level %d: %w", kind, cur, ErrMaxLevel)
	}
	return costs[cur+1], nil
}

// BuyUpgrade raises one track by a level.
func (w Wallet) BuyUpgrade(s Settings, kind UpgradeKind) (Wallet, error) {
	cost, err := NextUpgradeCost(s, w.Levels, kind)
	if err != nil {
		return w, err
	}
	if w.Balance < cost {
		return w, fmt.Errorf("upgrade %s for %d with %d: %w", kind, cost, w.Balance, ErrInsufficientFunds)
	}
	next := w.clone()
	next.Balance -= cost
	switch kind {
	case UpgradeShip:
		next.Levels.Ship++
	case UpgradePillage:
		next.Levels.Pillage++
	case UpgradeMovement:
		next.Levels.Movement++
	case UpgradeRange:
		next.Levels.Range++
	}
	return next, nil
}

// Consume takes the non-missile weapons of an attack out of the inventory.
func (w Wallet) Consume(a board.BoardAction) (Wallet, error) {
	next := w.clone()
	for _, wep := range a.Weapons {
		if wep == "" || wep == board.WeaponMissile {
			continue
		}
		if next.Inventory[wep] < 1 {
			return w, fmt.Errorf("consume %q: %w", wep, ErrOutOfStock)
		}
		next.Inventory[wep]--
	}
	return next, nil
}

// Restock puts the weapons of an undone attack back into the inventory.
func (w Wallet) Restock(a board.BoardAction) Wallet {
	next := w.clone()
	for _, wep := range a.Weapons {
		if wep == "" || wep == board.WeaponMissile {
			continue
		}
		next.Inventory[wep]++
	}
	return next
}

// Payout credits an income amount.
func (w Wallet) Payout(amount int) Wallet {
	next := w.clone()
	next.Balance += amount
	return next
}

// PillageResult is what the operator earns for an attack.
type PillageResult struct {
	Earnings int `json:"earnings"`
	Segments int `json:"segments"`
}

// Pillage pays the operator for opponent segments hit and ships sunk by their own attack.
// Attacks by anyone else earn nothing.
func Pillage(a board.BoardAction, r board.Roster, s Settings, levels Levels) PillageResult {
	if a.Attacker != r.Self.ID {
		return PillageResult{}
	}
	lvl := clampLevel(levels.Pillage, len(s.Upgrades.Pillage))
	if lvl < 0 {
		return PillageResult{}
	}
	p := s.Upgrades.Pillage[lvl]
	var res PillageResult
	for _, h := range a.Hits {
		if h.UserID == r.Self.ID {
			continue
		}
		res.Earnings += p.EarningsPerSegment
		if h.Sunk {
			res.Segments += p.SegmentRewardOnSink
		}
	}
	return res
}

// Apply credits a pillage result.
func (w Wallet) Apply(p PillageResult) Wallet {
	next := w.clone()
	next.Balance += p.Earnings
	next.Segments += p.Segments
	return next
}

// Revert undoes Apply, never dropping below zero.
func (w Wallet) Revert(p PillageResult) Wallet {
	next := w.clone()
	next.Balance = max(next.Balance-p.Earnings, 0)
	next.Segments = max(next.Segments-p.Segments, 0)
	return next
}

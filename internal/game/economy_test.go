package game_test

import (
	"errors"
	"testing"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/game"
)

func TestPrice(t *testing.T) {
	seg, _ := testItems.Find(board.ItemSegment)
	cheap := testSettings
	cheap.Upgrades.Ship = []game.ShipUpgrade{{Cost: 0, SegmentCost: 4}, {Cost: 15}}
	tests := []struct {
		name     string
		settings game.Settings
		levels   game.Levels
		want     int
	}{
		{"table level 0", testSettings, game.Levels{}, 10},
		{"table level 1", testSettings, game.Levels{Ship: 1}, 9},
		{"custom segment cost", cheap, game.Levels{}, 4},
		{"no segment cost at level", cheap, game.Levels{Ship: 1}, 9},
		{"past the table", testSettings, game.Levels{Ship: 3}, 7},
		{"never negative", testSettings, game.Levels{Ship: 20}, 0},
	}
	for _, tt := range tests {
		if got := game.Price(seg, tt.settings, tt.levels); got != tt.want {
			t.Errorf("%s: Price(segment, ship=%d) = %d, want %d", tt.name, tt.levels.Ship, got, tt.want)
		}
	}
	dir, _ := testItems.Find(board.WeaponDirectional)
	if got := game.Price(dir, testSettings, game.Levels{Ship: 3}); got != 15 {
		t.Errorf("Price(directional) = %d, want 15", got)
	}
}

func TestWallet_BuyItem(t *testing.T) {
	w := game.Wallet{Balance: 30, Levels: game.Levels{Ship: 1}}
	w, err := w.BuyItem(testItems, testSettings, board.ItemSegment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Balance != 21 || w.Segments != 1 {
		t.Errorf("unexpected wallet: %+v", w)
	}
	w, err = w.BuyItem(testItems, testSettings, board.WeaponDirectional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Balance != 6 || w.Inventory[board.WeaponDirectional] != 1 {
		t.Errorf("unexpected wallet: %+v", w)
	}
	if _, err := w.BuyItem(testItems, testSettings, board.WeaponLongRanged); !errors.Is(err, game.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := w.BuyItem(testItems, testSettings, "torpedo"); !errors.Is(err, game.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
}

func TestWallet_BuyItemDoesNotAlias(t *testing.T) {
	w := game.Wallet{Balance: 100, Inventory: map[string]int{}}
	next, err := w.BuyItem(testItems, testSettings, board.WeaponRanged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Inventory[board.WeaponRanged] != 0 || next.Inventory[board.WeaponRanged] != 1 {
		t.Errorf("inventory aliased: before=%v after=%v", w.Inventory, next.Inventory)
	}
}

func TestWallet_BuyUpgrade(t *testing.T) {
	w := game.Wallet{Balance: 25}
	w, err := w.BuyUpgrade(testSettings, game.UpgradeRange)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Levels.Range != 1 || w.Balance != 5 {
		t.Errorf("unexpected wallet: %+v", w)
	}
	if _, err := w.BuyUpgrade(testSettings, game.UpgradeRange); !errors.Is(err, game.ErrMaxLevel) {
		t.Errorf("expected ErrMaxLevel, got %v", err)
	}
	if _, err := w.BuyUpgrade(testSettings, game.UpgradePillage); !errors.Is(err, game.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := w.BuyUpgrade(testSettings, "armor"); !errors.Is(err, game.ErrUnknownUpgrade) {
		t.Errorf("expected ErrUnknownUpgrade, got %v", err)
	}
}

func TestWallet_ConsumeAndRestock(t *testing.T) {
	w := game.Wallet{Inventory: map[string]int{board.WeaponDirectional: 1}}
	a := board.BoardAction{Weapons: []string{board.WeaponDirectional, board.WeaponRanged}}
	if _, err := w.Consume(a); !errors.Is(err, game.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got %v", err)
	}
	a.Weapons = []string{board.WeaponDirectional}
	next, err := w.Consume(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Inventory[board.WeaponDirectional] != 0 {
		t.Errorf("expected directional consumed, got %v", next.Inventory)
	}
	if back := next.Restock(a); back.Inventory[board.WeaponDirectional] != 1 {
		t.Errorf("expected directional restocked, got %v", back.Inventory)
	}
	if _, err := w.Consume(board.BoardAction{Weapons: []string{board.WeaponMissile}}); err != nil {
		t.Errorf("missiles are free, got %v", err)
	}
}

func TestPillage(t *testing.T) {
	a := board.BoardAction{
		Attacker: roster.Self.ID,
		Hits: []board.Hit{
			{UserID: 2},
			{UserID: 3, Sunk: true},
			{UserID: roster.Self.ID, Offset: board.Offset{X: 1}},
		},
	}
	got := game.Pillage(a, roster, testSettings, game.Levels{Pillage: 1})
	if want := (game.PillageResult{Earnings: 4, Segments: 1}); got != want {
		t.Errorf("Pillage = %+v, want %+v", got, want)
	}
	a.Attacker = 2
	if got := game.Pillage(a, roster, testSettings, game.Levels{Pillage: 1}); got != (game.PillageResult{}) {
		t.Errorf("opponent attack should earn nothing, got %+v", got)
	}

	w := game.Wallet{Balance: 1}.Apply(game.PillageResult{Earnings: 4, Segments: 1})
	if w.Balance != 5 || w.Segments != 1 {
		t.Errorf("unexpected wallet after Apply: %+v", w)
	}
	w = w.Revert(game.PillageResult{Earnings: 9, Segments: 1})
	if w.Balance != 0 || w.Segments != 0 {
		t.Errorf("unexpected wallet after Revert: %+v", w)
	}
	if w = w.Payout(12); w.Balance != 12 {
		t.Errorf("unexpected wallet after Payout: %+v", w)
	}
}

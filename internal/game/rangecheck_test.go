package game_test

import (
	"testing"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/game"
)

var testItems = game.Items{
	{Type: board.WeaponMissile, Cost: 0},
	{Type: board.WeaponDirectional, Cost: 15, Segments: 3},
	{Type: board.WeaponRanged, Cost: 10, Distance: 2},
	{Type: board.WeaponLongRanged, Cost: 25},
	{Type: board.ItemSegment, Cost: 10},
}

var testSettings = game.Settings{
	MinimumIncome: 10,
	Upgrades: game.Upgrades{
		Ship:    []game.ShipUpgrade{{Cost: 0, SegmentCost: 10}, {Cost: 15, SegmentCost: 9}},
		Pillage: []game.PillageUpgrade{{Cost: 0, EarningsPerSegment: 1}, {Cost: 20, EarningsPerSegment: 2, SegmentRewardOnSink: 1}},
		Move:    []game.MoveUpgrade{{Cost: 0}, {Cost: 25}},
		Range:   []game.RangeUpgrade{{Cost: 0, AttackRange: 2}, {Cost: 20, AttackRange: 3}},
	},
}

func rangeInput(target board.Cell, weapons ...string) game.RangeInput {
	ships := []board.Ship{{ID: 1, Segments: []board.Cell{board.C(5, 5)}}}
	if len(weapons) == 0 {
		weapons = []string{board.WeaponMissile}
	}
	return game.RangeInput{
		Action: board.BoardAction{
			Type: board.ActionAttack, Attacker: roster.Self.ID,
			X: target.X, Y: target.Y, Weapons: weapons,
		},
		Roster:   roster,
		Segments: board.Segments(ships),
		Attacks:  board.AttacksSet{},
		Settings: testSettings,
		Items:    testItems,
	}
}

func TestValidate_InRange(t *testing.T) {
	if v := game.Validate(rangeInput(board.C(7, 5))); !v.Valid || v.Reason != "" {
		t.Errorf("expected (7,5) valid at range 2, got %+v", v)
	}
	if v := game.Validate(rangeInput(board.C(3, 3))); !v.Valid {
		t.Errorf("expected diagonal (3,3) valid, got %+v", v)
	}
}

func TestValidate_OutOfRangeUntilOverride(t *testing.T) {
	in := rangeInput(board.C(8, 5))
	for o := 0; o < game.OverrideThreshold; o++ {
		in.Override = o
		v := game.Validate(in)
		if v.Valid {
			t.Fatalf("override %d: expected invalid", o)
		}
		if want, have := "Your ships are out of range.", v.Reason; want != have {
			t.Errorf("unexpected reason: want=%q, have=%q", want, have)
		}
	}
	in.Override = 5
	if v := game.Validate(in); !v.Valid {
		t.Errorf("expected override 5 to bypass range, got %+v", v)
	}
}

func TestValidate_NoAttacker(t *testing.T) {
	in := rangeInput(board.C(5, 5))
	in.Action.Attacker = board.NoAttacker
	v := game.Validate(in)
	if v.Valid || v.Reason != "You must select an attacker." {
		t.Errorf("unexpected validity: %+v", v)
	}
}

func TestValidate_OpponentAttackBypassesRange(t *testing.T) {
	in := rangeInput(board.C(20, 20))
	in.Action.Attacker = 2
	if v := game.Validate(in); !v.Valid {
		t.Errorf("expected opponent attack valid, got %+v", v)
	}
}

func TestValidate_SecondaryWeapons(t *testing.T) {
	if v := game.Validate(rangeInput(board.C(9, 5), board.WeaponMissile, board.WeaponRanged)); !v.Valid {
		t.Errorf("expected ranged booster to reach (9,5), got %+v", v)
	}
	if v := game.Validate(rangeInput(board.C(10, 5), board.WeaponMissile, board.WeaponRanged)); v.Valid {
		t.Errorf("expected (10,5) beyond boosted range, got %+v", v)
	}
	if v := game.Validate(rangeInput(board.C(40, 40), board.WeaponMissile, board.WeaponLongRanged)); !v.Valid {
		t.Errorf("expected long range to reach anywhere, got %+v", v)
	}
}

func TestValidate_AttackedShipsDoNotProjectRange(t *testing.T) {
	in := rangeInput(board.C(7, 5))
	in.Attacks = board.AttacksSet{board.C(5, 5): {}}
	if v := game.Validate(in); v.Valid {
		t.Errorf("expected destroyed segment to give no range, got %+v", v)
	}
}

func TestValidate_OpponentShipsDoNotProjectRange(t *testing.T) {
	two := 2
	in := rangeInput(board.C(15, 15))
	in.Segments = board.Segments([]board.Ship{
		{ID: 1, Segments: []board.Cell{board.C(5, 5)}},
		{ID: 2, Owner: &two, Segments: []board.Cell{board.C(15, 14)}},
	})
	if v := game.Validate(in); v.Valid {
		t.Errorf("expected opponent ship to give no range, got %+v", v)
	}
}

func TestAttackRange(t *testing.T) {
	tests := []struct {
		name      string
		levels    game.Levels
		secondary string
		want      int
		unlimited bool
	}{
		{"base", game.Levels{}, "", 2, false},
		{"upgraded", game.Levels{Range: 1}, "", 3, false},
		{"level past table clamps", game.Levels{Range: 9}, "", 3, false},
		{"ranged", game.Levels{}, board.WeaponRanged, 4, false},
		{"longranged", game.Levels{}, board.WeaponLongRanged, 2, true},
		{"unknown secondary", game.Levels{}, "flare", 2, false},
	}
	for _, tt := range tests {
		got, unlimited := game.AttackRange(testSettings, tt.levels, testItems, tt.secondary)
		if got != tt.want || unlimited != tt.unlimited {
			t.Errorf("%s: AttackRange = (%d, %v), want (%d, %v)", tt.name, got, unlimited, tt.want, tt.unlimited)
		}
	}
}

func TestValidRange_ClipsAtOne(t *testing.T) {
	valid := game.ValidRange([]board.Cell{board.C(1, 1)}, nil, 1)
	if len(valid) != 4 {
		t.Errorf("expected 2x2 clipped square, got %d cells", len(valid))
	}
	if _, ok := valid[board.C(0, 1)]; ok {
		t.Error("x=0 must be clipped")
	}
}

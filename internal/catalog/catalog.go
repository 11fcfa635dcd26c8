package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/game"
)

// Catalog is the arsenal plus the upgrade tables of a table.
type Catalog struct {
	Items    game.Items    `json:"items"`
	Settings game.Settings `json:"settings"`
}

// Clone copies the catalog without sharing any slice with c.
func (c Catalog) Clone() Catalog {
	out := c
	out.Items = append(game.Items(nil), c.Items...)
	up := &out.Settings.Upgrades
	up.Ship = append([]game.ShipUpgrade(nil), c.Settings.Upgrades.Ship...)
	up.Pillage = append([]game.PillageUpgrade(nil), c.Settings.Upgrades.Pillage...)
	up.Move = append([]game.MoveUpgrade(nil), c.Settings.Upgrades.Move...)
	up.Range = append([]game.RangeUpgrade(nil), c.Settings.Upgrades.Range...)
	return out
}

// Default is the stock catalog used when no CSV files are present.
func Default() Catalog {
	return Catalog{
		Items: game.Items{
			{Type: board.WeaponMissile, Name: "Missile", Description: "Strikes a single square.", Cost: 0},
			{Type: board.WeaponDirectional, Name: "Directional Bomb", Description: "Strikes a line of squares in one direction.", Cost: 15, Segments: 3},
			{Type: board.WeaponRanged, Name: "Ranged Booster", Description: "Adds range to a single attack.", Cost: 10, Distance: 2},
			{Type: board.WeaponLongRanged, Name: "Long Range Missile", Description: "Can strike anywhere on the board.", Cost: 25},
			{Type: board.ItemSegment, Name: "Ship Segment", Description: "Adds one segment to your fleet.", Cost: 10},
		},
		Settings: game.Settings{
			MinimumIncome: game.DefaultMinimumIncome,
			Upgrades: game.Upgrades{
				Ship: []game.ShipUpgrade{
					{Cost: 0, SegmentCost: 10}, {Cost: 15, SegmentCost: 9}, {Cost: 30, SegmentCost: 8}, {Cost: 45, SegmentCost: 7},
				},
				Pillage: []game.PillageUpgrade{
					{Cost: 0, EarningsPerSegment: 1, SegmentRewardOnSink: 0},
					{Cost: 20, EarningsPerSegment: 2, SegmentRewardOnSink: 1},
					{Cost: 40, EarningsPerSegment: 3, SegmentRewardOnSink: 1},
					{Cost: 60, EarningsPerSegment: 4, SegmentRewardOnSink: 2},
				},
				Move: []game.MoveUpgrade{{Cost: 0}, {Cost: 25}, {Cost: 50}},
				Range: []game.RangeUpgrade{
					{Cost: 0, AttackRange: 2}, {Cost: 20, AttackRange: 3}, {Cost: 40, AttackRange: 4}, {Cost: 60, AttackRange: 5},
				},
			},
		},
	}
}

// Load reads Items.csv and Upgrades.csv from dir. A missing file keeps the default for its part.
//
// Items.csv:    type|name|description|cost|distance|segments
// Upgrades.csv: track|level|cost|value|extra
func Load(dir string) (Catalog, error) {
	c := Default()

	rows, err := readPipeCSV(filepath.Join(dir, "Items.csv"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return c, err
	default:
		items, err := parseItems(rows)
		if err != nil {
			return c, fmt.Errorf("Items.csv: %w", err)
		}
		c.Items = items
	}

	rows, err = readPipeCSV(filepath.Join(dir, "Upgrades.csv"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return c, err
	default:
		up, err := parseUpgrades(rows)
		if err != nil {
			return c, fmt.Errorf("Upgrades.csv: %w", err)
		}
		c.Settings.Upgrades = up
	}
	return c, nil
}

func readPipeCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPipeCSV(f)
}

// ReadPipeCSV reads '|' separated records, tolerating stray quotes and ragged rows.
func ReadPipeCSV(r io.Reader) ([][]string, error) {
	csvr := csv.NewReader(r)
	csvr.Comma = '|'
	csvr.LazyQuotes = true
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	return csvr.ReadAll()
}

func atoi(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseItems(rows [][]string) (game.Items, error) {
	var items game.Items
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if len(r) < 4 {
			continue
		}
		it := game.Item{Type: strings.TrimSpace(r[0]), Name: strings.TrimSpace(r[1]), Description: strings.TrimSpace(r[2])}
		var err error
		if it.Cost, err = atoi(r[3]); err != nil {
			return nil, fmt.Errorf("line %d cost: %w", i+1, err)
		}
		if len(r) > 4 {
			if it.Distance, err = atoi(r[4]); err != nil {
				return nil, fmt.Errorf("line %d distance: %w", i+1, err)
			}
		}
		if len(r) > 5 {
			if it.Segments, err = atoi(r[5]); err != nil {
				return nil, fmt.Errorf("line %d segments: %w", i+1, err)
			}
		}
		items = append(items, it)
	}
	return items, nil
}

func parseUpgrades(rows [][]string) (game.Upgrades, error) {
	var up game.Upgrades
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if len(r) < 3 {
			continue
		}
		nums := make([]int, 4)
		for j := 1; j < len(r) && j <= 4; j++ {
			n, err := atoi(r[j])
			if err != nil {
				return up, fmt.Errorf("line %d column %d: %w", i+1, j+1, err)
			}
			nums[j-1] = n
		}
		level, cost, value, extra := nums[0], nums[1], nums[2], nums[3]
		switch track := game.UpgradeKind(strings.ToLower(strings.TrimSpace(r[0]))); track {
		case game.UpgradeShip:
			up.Ship = setAt(up.Ship, level, game.ShipUpgrade{Cost: cost, SegmentCost: value})
		case game.UpgradePillage:
			up.Pillage = setAt(up.Pillage, level, game.PillageUpgrade{Cost: cost, EarningsPerSegment: value, SegmentRewardOnSink: extra})
		case game.UpgradeMovement, "move":
			up.Move = setAt(up.Move, level, game.MoveUpgrade{Cost: cost})
		case game.UpgradeRange:
			up.Range = setAt(up.Range, level, game.RangeUpgrade{Cost: cost, AttackRange: value})
		default:
			return up, fmt.Errorf("line %d: unknown track %q", i+1, track)
		}
	}
	return up, nil
}

// setAt places v at index level, growing s as needed.
func setAt[T any](s []T, level int, v T) []T {
	if level < 0 {
		return s
	}
	for len(s) <= level {
		var zero T
		s = append(s, zero)
	}
	s[level] = v
	return s
}

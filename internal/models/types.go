package models

import (
	"encoding/json"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/game"
)

// ========================= Wire Models =========================
// Shapes exchanged with clients over HTTP and websocket.

// WsMsg is the envelope for every websocket message, both directions.
type WsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ClientIn is an inbound websocket message with its payload left raw for per-type decoding.
type ClientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client message types.
const (
	MsgOpen          = "open"
	MsgAttacker      = "attacker"
	MsgClearAttacker = "clear_attacker"
	MsgWeapons       = "weapons"
	MsgRotate        = "rotate"
	MsgToggleHit     = "toggle_hit"
	MsgToggleSunk    = "toggle_sunk"
	MsgSelectUser    = "select_user"
	MsgSelectCell    = "select_cell"
	MsgToggleSunkAt  = "toggle_sunk_at"
	MsgOverride      = "override"
	MsgSave          = "save"
	MsgUndo          = "undo"
	MsgClose         = "close"
)

// Server message types.
const (
	MsgHello   = "you"
	MsgState   = "state"
	MsgSaved   = "saved"
	MsgRemoved = "removed"
	MsgError   = "error"
)

// CellReq addresses a board cell, either as {"x":..,"y":..} or {"cell":"x-y"}.
type CellReq struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Cell string `json:"cell,omitempty"`
}

// Resolve returns the addressed cell.
func (c CellReq) Resolve() (board.Cell, error) {
	if c.Cell != "" {
		return board.ParseCell(c.Cell)
	}
	return board.C(c.X, c.Y), nil
}

// UserReq names a user.
type UserReq struct {
	UserID int `json:"userId"`
}

// WeaponsReq picks the weapons of an attack.
type WeaponsReq struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

// NewTable is the body of POST /api/tables.
type NewTable struct {
	Roster   board.Roster   `json:"users"`
	Ships    []board.Ship   `json:"ships"`
	Balance  int            `json:"balance,omitempty"`
	Settings *game.Settings `json:"settings,omitempty"`
}

// TableSummary is what GET /api/tables/{id} returns.
type TableSummary struct {
	ID      string              `json:"id"`
	Roster  board.Roster        `json:"users"`
	Ships   []board.Ship        `json:"ships"`
	Actions []board.BoardAction `json:"actions"`
	Wallet  game.Wallet         `json:"wallet"`
	Income  game.IncomeReport   `json:"income"`
	Updated int64               `json:"last_updated"`
}

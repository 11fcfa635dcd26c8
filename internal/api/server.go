package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/catalog"
	"github.com/pefman/broadside/internal/game"
)

// HitsRequest asks for the initial hits of an attack.
type HitsRequest struct {
	X         int                 `json:"x"`
	Y         int                 `json:"y"`
	Direction string              `json:"direction,omitempty"` // default right
	Weapon    string              `json:"weapon"`
	Users     board.Roster        `json:"users"`
	Ships     []board.Ship        `json:"ships"`
	Actions   []board.BoardAction `json:"actions"`
	// ExcludeID leaves the attack being edited out of the attacked cells.
	ExcludeID int64 `json:"excludeId,omitempty"`
}

// ValidateRequest asks whether an action may be saved.
type ValidateRequest struct {
	Action   board.BoardAction   `json:"action"`
	Users    board.Roster        `json:"users"`
	Ships    []board.Ship        `json:"ships"`
	Actions  []board.BoardAction `json:"actions"`
	Levels   game.Levels         `json:"levels"`
	Override int                 `json:"override"`
}

// LedgerRequest applies one ledger operation.
type LedgerRequest struct {
	Action   board.BoardAction `json:"action"`
	UserID   int               `json:"userId"`
	Cell     *board.Cell       `json:"cell,omitempty"`
	Selected bool              `json:"selected"`
}

// IncomeRequest asks for the income of a fleet.
type IncomeRequest struct {
	Ships   []board.Ship        `json:"ships"`
	Actions []board.BoardAction `json:"actions"`
	Minimum int                 `json:"minimum,omitempty"`
}

// PillageRequest asks what a saved attack earns its attacker.
type PillageRequest struct {
	Action board.BoardAction `json:"action"`
	Users  board.Roster      `json:"users"`
	Levels game.Levels       `json:"levels"`
}

// Ledger operations accepted by POST /api/ledger/{op}.
const (
	OpToggleHit    = "toggle-hit"
	OpToggleSunk   = "toggle-sunk"
	OpToggleSunkAt = "toggle-sunk-at"
)

type server struct {
	cat catalog.Catalog
}

// NewRouter wires the stateless calc API over the given catalog.
func NewRouter(cat catalog.Catalog) *mux.Router {
	s := &server{cat: cat}
	r := mux.NewRouter()
	r.Use(withCORS)

	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog", s.handleCatalog).Methods(http.MethodGet)

	post := []string{http.MethodPost, http.MethodOptions}
	r.HandleFunc("/api/attack/hits", s.handleHits).Methods(post...)
	r.HandleFunc("/api/attack/validate", s.handleValidate).Methods(post...)
	r.HandleFunc("/api/ledger/{op}", s.handleLedger).Methods(post...)
	r.HandleFunc("/api/income", s.handleIncome).Methods(post...)
	r.HandleFunc("/api/economy/pillage", s.handlePillage).Methods(post...)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return r
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.cat)
}

func (s *server) handleHits(w http.ResponseWriter, r *http.Request) {
	var req HitsRequest
	if !decode(w, r, &req) {
		return
	}
	attacks := board.Attacks(req.Actions)
	if req.ExcludeID != 0 {
		attacks = board.AttacksExcluding(req.Actions, req.ExcludeID)
	}
	dir, err := board.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	weapon := req.Weapon
	if weapon == "" {
		weapon = board.WeaponMissile
	}
	res := game.ResolveFootprint(game.FootprintInput{
		Origin:    board.C(req.X, req.Y),
		Direction: dir,
		Weapon:    weapon,
		Bomb:      s.cat.Items.Directional(),
		Roster:    req.Users,
		Segments:  board.Segments(req.Ships),
		Attacks:   attacks,
	})
	writeJSON(w, res)
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decode(w, r, &req) {
		return
	}
	v := game.Validate(game.RangeInput{
		Action:   req.Action,
		Roster:   req.Users,
		Segments: board.Segments(req.Ships),
		Attacks:  board.AttacksExcluding(req.Actions, req.Action.ID),
		Settings: s.cat.Settings,
		Levels:   req.Levels,
		Items:    s.cat.Items,
		Override: req.Override,
	})
	writeJSON(w, v)
}

func (s *server) handleLedger(w http.ResponseWriter, r *http.Request) {
	var req LedgerRequest
	if !decode(w, r, &req) {
		return
	}
	var next board.BoardAction
	switch op := mux.Vars(r)["op"]; op {
	case OpToggleHit:
		next = game.ToggleHit(req.Action, req.UserID)
	case OpToggleSunk:
		next = game.ToggleSunk(req.Action, req.UserID)
	case OpToggleSunkAt:
		if req.Cell == nil {
			writeError(w, http.StatusBadRequest, "cell is required for "+op)
			return
		}
		next = game.ToggleSunkAt(req.Action, *req.Cell, req.UserID, req.Selected)
	default:
		writeError(w, http.StatusNotFound, "unknown ledger operation "+op)
		return
	}
	writeJSON(w, next)
}

func (s *server) handleIncome(w http.ResponseWriter, r *http.Request) {
	var req IncomeRequest
	if !decode(w, r, &req) {
		return
	}
	floor := req.Minimum
	if floor <= 0 {
		floor = s.cat.Settings.MinimumIncome
	}
	writeJSON(w, game.Report(req.Ships, req.Actions, floor))
}

func (s *server) handlePillage(w http.ResponseWriter, r *http.Request) {
	var req PillageRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, game.Pillage(req.Action, req.Users, s.cat.Settings, req.Levels))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("api: bad request %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// simple CORS for GET/POST/OPTIONS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/catalog"
	"github.com/pefman/broadside/internal/game"
)

var testRoster = board.Roster{
	Self:      board.User{ID: 1, Name: "Ahab"},
	Opponents: []board.User{{ID: 2, Name: "Nemo"}, {ID: 3, Name: "Bligh"}},
}

func owner(id int) *int { return &id }

// nemo's ship lies on (3,4)..(5,4); ours on (1,1)..(2,1).
func testShips() []board.Ship {
	return []board.Ship{
		{ID: 1, Owner: owner(2), Segments: []board.Cell{board.C(3, 4), board.C(4, 4), board.C(5, 4)}},
		{ID: 2, Segments: []board.Cell{board.C(1, 1), board.C(2, 1)}},
	}
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthzAndCatalog(t *testing.T) {
	h := NewRouter(catalog.Default())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	var cat catalog.Catalog
	if err := json.NewDecoder(rr.Body).Decode(&cat); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if _, ok := cat.Items.Find(board.WeaponDirectional); !ok {
		t.Errorf("catalog is missing the directional weapon: %+v", cat.Items)
	}
	if cat.Settings.MinimumIncome != game.DefaultMinimumIncome {
		t.Errorf("minimum income = %d", cat.Settings.MinimumIncome)
	}
}

func TestHits(t *testing.T) {
	h := NewRouter(catalog.Default())
	tests := []struct {
		name      string
		req       HitsRequest
		wantHits  int
		wantCells int
	}{
		{"missile on ship", HitsRequest{X: 3, Y: 4, Users: testRoster, Ships: testShips()}, 1, 1},
		{"missile on water", HitsRequest{X: 8, Y: 8, Users: testRoster, Ships: testShips()}, 0, 1},
		{"bomb along ship", HitsRequest{X: 3, Y: 4, Weapon: board.WeaponDirectional, Users: testRoster, Ships: testShips()}, 3, 3},
		{"bomb downward", HitsRequest{X: 3, Y: 4, Direction: "down", Weapon: board.WeaponDirectional, Users: testRoster, Ships: testShips()}, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, "/api/attack/hits", tt.req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
			}
			var res game.FootprintResult
			if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(res.Hits) != tt.wantHits || len(res.Cells) != tt.wantCells {
				t.Errorf("want %d hits over %d cells, have %d over %d", tt.wantHits, tt.wantCells, len(res.Hits), len(res.Cells))
			}
		})
	}
}

func TestHitsBadDirection(t *testing.T) {
	rr := post(t, NewRouter(catalog.Default()), "/api/attack/hits", HitsRequest{Direction: "sideways"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestValidate(t *testing.T) {
	h := NewRouter(catalog.Default())
	far := board.BoardAction{ID: 7, Type: board.ActionAttack, Attacker: 1, X: 9, Y: 9, Weapons: []string{board.WeaponMissile}}
	tests := []struct {
		name       string
		req        ValidateRequest
		wantValid  bool
		wantReason string
	}{
		{"no attacker", ValidateRequest{Action: board.BoardAction{Attacker: board.NoAttacker}, Users: testRoster}, false, game.ReasonNoAttacker},
		{"out of range", ValidateRequest{Action: far, Users: testRoster, Ships: testShips()}, false, game.ReasonOutOfRange},
		{"overridden", ValidateRequest{Action: far, Users: testRoster, Ships: testShips(), Override: game.OverrideThreshold}, true, ""},
		{"opponent fired", ValidateRequest{Action: board.BoardAction{Attacker: 2, X: 9, Y: 9}, Users: testRoster, Ships: testShips()}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, "/api/attack/validate", tt.req)
			var v game.Validity
			if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if v.Valid != tt.wantValid || v.Reason != tt.wantReason {
				t.Errorf("want (%v, %q), have (%v, %q)", tt.wantValid, tt.wantReason, v.Valid, v.Reason)
			}
		})
	}
}

func TestLedger(t *testing.T) {
	h := NewRouter(catalog.Default())
	a := board.BoardAction{ID: 1, Type: board.ActionAttack, Attacker: 1, X: 3, Y: 4, Hits: []board.Hit{}}

	rr := post(t, h, "/api/ledger/"+OpToggleHit, LedgerRequest{Action: a, UserID: 2})
	var next board.BoardAction
	if err := json.NewDecoder(rr.Body).Decode(&next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !game.IsHit(next, 2) {
		t.Fatalf("expected user 2 hit, have %+v", next.Hits)
	}

	rr = post(t, h, "/api/ledger/"+OpToggleSunk, LedgerRequest{Action: next, UserID: 2})
	next = board.BoardAction{}
	if err := json.NewDecoder(rr.Body).Decode(&next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !game.IsSunk(next, 2) {
		t.Errorf("expected user 2 sunk, have %+v", next.Hits)
	}

	if rr := post(t, h, "/api/ledger/"+OpToggleSunkAt, LedgerRequest{Action: a, UserID: 2}); rr.Code != http.StatusBadRequest {
		t.Errorf("toggle-sunk-at without cell: status = %d, want 400", rr.Code)
	}
	if rr := post(t, h, "/api/ledger/explode", LedgerRequest{Action: a}); rr.Code != http.StatusNotFound {
		t.Errorf("unknown op: status = %d, want 404", rr.Code)
	}
}

func TestIncomeUsesCatalogMinimum(t *testing.T) {
	cat := catalog.Default()
	cat.Settings.MinimumIncome = 50
	rr := post(t, NewRouter(cat), "/api/income", IncomeRequest{Ships: testShips()})
	var rep game.IncomeReport
	if err := json.NewDecoder(rr.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Income != 50 {
		t.Errorf("income = %d, want the floor of 50", rep.Income)
	}
}

func TestBadJSONAndUnknownRoute(t *testing.T) {
	h := NewRouter(catalog.Default())
	req := httptest.NewRequest(http.MethodPost, "/api/income", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: status = %d", rr.Code)
	}
	var body map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&body)
	if body["message"] != "no such endpoint" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(catalog.Default()).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/income", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

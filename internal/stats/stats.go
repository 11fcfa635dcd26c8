package stats

import (
	"sync"
	"time"

	"github.com/dariubs/percent"

	"github.com/pefman/broadside/internal/board"
)

// UserStats tallies the attacks a player has fired at one table (in-memory only).
type UserStats struct {
	TableID  string  `json:"tableId"`
	UserID   int     `json:"userId"`
	Attacks  int     `json:"attacks"`
	Landed   int     `json:"landed"` // attacks with at least one hit
	Hits     int     `json:"hits"`
	Sunk     int     `json:"sunk"`
	Accuracy float64 `json:"accuracy"` // percent of attacks that landed
}

func (s *UserStats) refresh() {
	if s.Attacks == 0 {
		s.Accuracy = 0
		return
	}
	s.Accuracy = percent.PercentOf(s.Landed, s.Attacks)
}

// BestAttack is the attack with the most hits on a given day.
type BestAttack struct {
	TableID  string            `json:"tableId"`
	Attacker string            `json:"attacker"`
	Hits     int               `json:"hits"`
	Sunk     int               `json:"sunk"`
	Action   board.BoardAction `json:"action"`
	At       int64             `json:"at"`
}

// user ids come from each table's roster, so they only mean something within a table
type statsKey struct {
	table string
	user  int
}

var (
	statsMu   sync.Mutex
	userStats = make(map[statsKey]*UserStats)
	// Global best attack by date string YYYY-MM-DD UTC
	dailyBest = make(map[string]BestAttack)
)

// tally counts the hits of a on anyone but its attacker.
func tally(a board.BoardAction) (hits, sunk int) {
	for _, h := range a.Hits {
		if h.UserID == a.Attacker {
			continue
		}
		hits++
		if h.Sunk {
			sunk++
		}
	}
	return hits, sunk
}

// Record counts a saved attack for its attacker. Hits on the attacker's own ships do not count.
// Each recorded attack must be counted once: editing one is Unrecord of the old version then Record.
func Record(tableID, attackerName string, a board.BoardAction) {
	if a.Attacker < 0 {
		return
	}
	hits, sunk := tally(a)

	statsMu.Lock()
	defer statsMu.Unlock()
	k := statsKey{tableID, a.Attacker}
	s := userStats[k]
	if s == nil {
		s = &UserStats{TableID: tableID, UserID: a.Attacker}
		userStats[k] = s
	}
	s.Attacks++
	if hits > 0 {
		s.Landed++
	}
	s.Hits += hits
	s.Sunk += sunk
	s.refresh()

	dateKey := time.Now().UTC().Format("2006-01-02")
	cur, ok := dailyBest[dateKey]
	if !ok || hits > cur.Hits || (hits == cur.Hits && sunk > cur.Sunk) {
		dailyBest[dateKey] = BestAttack{
			TableID:  tableID,
			Attacker: attackerName,
			Hits:     hits,
			Sunk:     sunk,
			Action:   a.Clone(),
			At:       time.Now().Unix(),
		}
	}
}

// Unrecord takes back a previously recorded attack. A daily best that was this attack is dropped.
func Unrecord(tableID string, a board.BoardAction) {
	if a.Attacker < 0 {
		return
	}
	hits, sunk := tally(a)

	statsMu.Lock()
	defer statsMu.Unlock()
	if s := userStats[statsKey{tableID, a.Attacker}]; s != nil {
		s.Attacks = max(s.Attacks-1, 0)
		if hits > 0 {
			s.Landed = max(s.Landed-1, 0)
		}
		s.Hits = max(s.Hits-hits, 0)
		s.Sunk = max(s.Sunk-sunk, 0)
		s.refresh()
	}
	for day, b := range dailyBest {
		if b.TableID == tableID && b.Action.ID == a.ID {
			delete(dailyBest, day)
		}
	}
}

// Get returns a copy of a user's stats at a table; zero stats when there are none.
func Get(tableID string, userID int) UserStats {
	statsMu.Lock()
	defer statsMu.Unlock()
	if s, ok := userStats[statsKey{tableID, userID}]; ok {
		return *s
	}
	return UserStats{TableID: tableID, UserID: userID}
}

// BestAttackToday returns today's best attack across all tables, if any.
func BestAttackToday() (BestAttack, bool) {
	dateKey := time.Now().UTC().Format("2006-01-02")
	statsMu.Lock()
	defer statsMu.Unlock()
	b, ok := dailyBest[dateKey]
	return b, ok
}

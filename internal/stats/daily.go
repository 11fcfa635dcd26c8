package stats

// This file contains helpers around daily stats. It complements stats.go.

// Reset clears all user stats and the daily best attacks.
// Intended for tests and dev convenience.
func Reset() {
	statsMu.Lock()
	defer statsMu.Unlock()
	for k := range userStats {
		delete(userStats, k)
	}
	for k := range dailyBest {
		delete(dailyBest, k)
	}
}

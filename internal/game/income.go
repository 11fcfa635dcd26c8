package game

import (
	"github.com/dariubs/percent"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pefman/broadside/internal/board"
)

// DefaultMinimumIncome is the income floor when settings do not set one.
const DefaultMinimumIncome = 10

// Chunks walks every ship along its long axis and returns the lengths of the intact runs.
// The running chunk starts at 0; every attacked segment and every ship end opens a new one,
// so runs of different ships never merge. Runs appear in walk order with each ship's closing 0
// last: a lone 4-segment ship hit at its second segment gives [1 2 0].
func Chunks(ships []board.Ship, attacks board.AttacksSet) []int {
	chunks := []int{0}
	for _, s := range ships {
		for _, c := range s.Sorted() {
			if attacks.Has(c) {
				chunks = append(chunks, 0)
				continue
			}
			chunks[len(chunks)-1]++
		}
		chunks = append(chunks, 0)
	}
	return chunks
}

// ChunkIncome pays L for short runs and 3 + (L-3)*3 once a run reaches four segments.
func ChunkIncome(l int) int {
	if l < 4 {
		return l
	}
	return 3 + (l-3)*3
}

// Income sums the chunk payouts over the intact runs and floors the total at minimum.
// A minimum <= 0 means DefaultMinimumIncome.
func Income(ships []board.Ship, actions []board.BoardAction, minimum int) int {
	if minimum <= 0 {
		minimum = DefaultMinimumIncome
	}
	total := 0
	for _, l := range Chunks(ships, board.Attacks(actions)) {
		total += ChunkIncome(l)
	}
	return max(total, minimum)
}

// IncomeReport is the income together with the data it was derived from.
type IncomeReport struct {
	Income    int     `json:"income"`
	Formatted string  `json:"formatted"`
	Chunks    []int   `json:"chunks"`
	Intact    int     `json:"intact"`
	Segments  int     `json:"segments"`
	Integrity float64 `json:"integrity"` // percent of segments not attacked
}

// Report computes Income and the chunk breakdown in one pass.
func Report(ships []board.Ship, actions []board.BoardAction, minimum int) IncomeReport {
	attacks := board.Attacks(actions)
	chunks := Chunks(ships, attacks)
	segments, intact := 0, 0
	for _, s := range ships {
		segments += len(s.Segments)
	}
	for _, l := range chunks {
		intact += l
	}
	income := Income(ships, actions, minimum)
	r := IncomeReport{
		Income:    income,
		Formatted: FormatIncome(income),
		Chunks:    chunks,
		Intact:    intact,
		Segments:  segments,
	}
	if segments > 0 {
		r.Integrity = percent.PercentOf(intact, segments)
	}
	return r
}

// FormatIncome renders an amount as dollars with thousands grouping, e.g. $1,250.
func FormatIncome(n int) string {
	return message.NewPrinter(language.English).Sprintf("$%d", n)
}

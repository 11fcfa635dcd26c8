package game

import "github.com/pefman/broadside/internal/board"

// The ledger functions never modify their argument: each works on a deep copy and returns it.

// ToggleHit removes the offset-less hit for user, or appends one.
// Single-target weapons only: one cell, at most one owner.
func ToggleHit(a board.BoardAction, user int) board.BoardAction {
	next := a.Clone()
	for i, h := range next.Hits {
		if h.UserID == user && h.Offset.IsZero() {
			next.Hits = append(next.Hits[:i], next.Hits[i+1:]...)
			return next
		}
	}
	next.Hits = append(next.Hits, board.Hit{UserID: user})
	return next
}

// ToggleSunk flips the sunk flag of user's hit, appending a sunk hit when there is none.
func ToggleSunk(a board.BoardAction, user int) board.BoardAction {
	next := a.Clone()
	for i := range next.Hits {
		if next.Hits[i].UserID == user {
			next.Hits[i].Sunk = !next.Hits[i].Sunk
			return next
		}
	}
	next.Hits = append(next.Hits, board.Hit{UserID: user, Sunk: true})
	return next
}

// ToggleSunkAt flips the sunk flag of the hit for user at cell, for multi-cell weapons.
// Without a selected user an absent hit is not created and the copy is returned unchanged.
func ToggleSunkAt(a board.BoardAction, cell board.Cell, user int, selected bool) board.BoardAction {
	next := a.Clone()
	off := cell.Sub(a.Origin())
	for i, h := range next.Hits {
		if selected && h.UserID == user && h.Offset == off {
			next.Hits[i].Sunk = !next.Hits[i].Sunk
			return next
		}
	}
	if selected {
		next.Hits = append(next.Hits, board.Hit{UserID: user, Offset: off, Sunk: true})
	}
	return next
}

// IsHit reports whether user has any hit in a.
func IsHit(a board.BoardAction, user int) bool {
	_, ok := findHit(a, user)
	return ok
}

// IsSunk reports the sunk flag of user's first hit.
func IsSunk(a board.BoardAction, user int) bool {
	h, ok := findHit(a, user)
	return ok && h.Sunk
}

// IsSunkAt reports whether user's hit at cell is marked sunk.
func IsSunkAt(a board.BoardAction, cell board.Cell, user int) bool {
	off := cell.Sub(a.Origin())
	for _, h := range a.Hits {
		if h.UserID == user && h.Offset == off {
			return h.Sunk
		}
	}
	return false
}

func findHit(a board.BoardAction, user int) (board.Hit, bool) {
	for _, h := range a.Hits {
		if h.UserID == user {
			return h, true
		}
	}
	return board.Hit{}, false
}

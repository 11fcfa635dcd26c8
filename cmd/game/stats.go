package main

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pefman/broadside/internal/stats"
)

// GET /api/tables/{id}/stats/{user}
func handleUserStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := getTable(vars["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	user, err := strconv.Atoi(vars["user"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	writeJSON(w, stats.Get(t.ID, user))
}

// GET /api/stats/best-attack/today
func handleBestAttackToday(w http.ResponseWriter, r *http.Request) {
	best, ok := stats.BestAttackToday()
	if !ok {
		writeJSON(w, map[string]any{})
		return
	}
	writeJSON(w, best)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/pefman/broadside/internal/api"
	"github.com/pefman/broadside/internal/catalog"
	"github.com/pefman/broadside/internal/game"
	"github.com/pefman/broadside/internal/models"
)

var (
	gameListenAddr string
	dataAPIBase    string
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func init() {
	p := os.Getenv("PORT")
	if p == "" {
		p = getenv("GAME_PORT", "8081")
	}
	gameListenAddr = ":" + p
	dataAPIBase = getenv("DATA_API_BASE", "http://localhost:8080")
}

// loadCatalog asks the calc API for the catalog and falls back to the built-in one.
func loadCatalog(ctx context.Context, c *api.Client) catalog.Catalog {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cat, err := c.Catalog(ctx)
	if err != nil {
		log.Printf("catalog: fetch from %s failed, using defaults: %v", dataAPIBase, err)
		return catalog.Default()
	}
	log.Printf("catalog: %d items from %s", len(cat.Items), dataAPIBase)
	return cat
}

func newRouter(cat catalog.Catalog) *mux.Router {
	r := mux.NewRouter()
	r.Use(withCORS)

	r.HandleFunc("/ws", handleWS)
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"version": buildVersion, "buildTime": buildTime})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/tables", func(w http.ResponseWriter, r *http.Request) {
		handleCreateTable(w, r, cat)
	}).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/tables/{id}", handleGetTable).Methods(http.MethodGet)
	r.HandleFunc("/api/tables/{id}/payout", handlePayout).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/tables/{id}/upgrade/{kind}", handleUpgrade).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/tables/{id}/buy/{item}", handleBuy).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/tables/{id}/stats/{user:[0-9]+}", handleUserStats).Methods(http.MethodGet)

	r.HandleFunc("/api/stats/best-attack/today", handleBestAttackToday).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})
	return r
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := loadCatalog(ctx, api.NewClient(dataAPIBase))
	srv := &http.Server{
		Addr:              gameListenAddr,
		Handler:           newRouter(cat),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Broadside game server %s listening on %s (data api %s)", buildVersion, gameListenAddr, dataAPIBase)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func handleCreateTable(w http.ResponseWriter, r *http.Request, cat catalog.Catalog) {
	var req models.NewTable
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := newTable(req, cat)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/api/tables/"+t.ID)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, t.Summary())
}

func handleGetTable(w http.ResponseWriter, r *http.Request) {
	t, err := getTable(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, t.Summary())
}

func handlePayout(w http.ResponseWriter, r *http.Request) {
	t, err := getTable(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	income := t.Payout()
	writeJSON(w, map[string]any{"income": income, "formatted": game.FormatIncome(income), "table": t.Summary()})
}

func handleUpgrade(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := getTable(vars["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := t.BuyUpgrade(game.UpgradeKind(vars["kind"])); err != nil {
		log.Printf("table: upgrade id=%s kind=%s: %v", t.ID, vars["kind"], err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, t.Summary())
}

func handleBuy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := getTable(vars["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := t.BuyItem(vars["item"]); err != nil {
		log.Printf("table: buy id=%s item=%s: %v", t.ID, vars["item"], err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, t.Summary())
}

func writeJSON(w http.ResponseWriter, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
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

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pefman/broadside/internal/api"
	"github.com/pefman/broadside/internal/catalog"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = getenv("API_PORT", "8080")
	}
	dir := getenv("CATALOG_DIR", "data")

	cat, err := catalog.Load(dir)
	if err != nil {
		log.Fatalf("load catalog from %s: %v", dir, err)
	}
	if v := os.Getenv("MIN_INCOME"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("MIN_INCOME must be a positive integer, got %q", v)
		}
		cat.Settings.MinimumIncome = n
	}
	log.Printf("catalog: %d items, minimum income %d (dir=%s)", len(cat.Items), cat.Settings.MinimumIncome, dir)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewRouter(cat),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Broadside calc API listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

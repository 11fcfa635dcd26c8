package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/catalog"
	"github.com/pefman/broadside/internal/game"
)

var httpClient = &http.Client{Timeout: 8 * time.Second}

// Config holds API configuration
type Config struct {
	BaseURL string
	// CatalogTTL bounds how long a fetched catalog is reused. Zero means 5 minutes.
	CatalogTTL time.Duration
}

// Client talks to the calc API. Safe for concurrent use.
type Client struct {
	config Config

	// Simple cache for the catalog to reduce redundant API calls
	cacheMu  sync.RWMutex
	cached   *catalog.Catalog
	cachedAt time.Time
}

func NewClient(baseURL string) *Client {
	return &Client{
		config: Config{BaseURL: baseURL, CatalogTTL: 5 * time.Minute},
	}
}

// APIError is a non-2xx reply.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	base := strings.TrimRight(c.config.BaseURL, "/")
	url := base + path
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: json.Marshal: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response body: %w", method, path, err)
	}
	return nil
}

// Catalog fetches items and upgrade tables, reusing a cached copy within the TTL.
func (c *Client) Catalog(ctx context.Context) (catalog.Catalog, error) {
	ttl := c.config.CatalogTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c.cacheMu.RLock()
	if c.cached != nil && time.Since(c.cachedAt) < ttl {
		out := c.cached.Clone()
		c.cacheMu.RUnlock()
		return out, nil
	}
	c.cacheMu.RUnlock()

	var res catalog.Catalog
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &res); err != nil {
		return catalog.Catalog{}, err
	}
	cached := res.Clone()
	c.cacheMu.Lock()
	c.cached = &cached
	c.cachedAt = time.Now()
	c.cacheMu.Unlock()
	return res, nil
}

// Hits resolves the footprint of an attack.
func (c *Client) Hits(ctx context.Context, req HitsRequest) (game.FootprintResult, error) {
	var res game.FootprintResult
	err := c.do(ctx, http.MethodPost, "/api/attack/hits", req, &res)
	return res, err
}

// Validate checks whether an action may be saved.
func (c *Client) Validate(ctx context.Context, req ValidateRequest) (game.Validity, error) {
	var res game.Validity
	err := c.do(ctx, http.MethodPost, "/api/attack/validate", req, &res)
	return res, err
}

// Ledger applies a ledger operation (OpToggleHit, OpToggleSunk, OpToggleSunkAt).
func (c *Client) Ledger(ctx context.Context, op string, req LedgerRequest) (board.BoardAction, error) {
	var res board.BoardAction
	err := c.do(ctx, http.MethodPost, "/api/ledger/"+op, req, &res)
	return res, err
}

// Income computes a fleet's income.
func (c *Client) Income(ctx context.Context, req IncomeRequest) (game.IncomeReport, error) {
	var res game.IncomeReport
	err := c.do(ctx, http.MethodPost, "/api/income", req, &res)
	return res, err
}

// Pillage computes what an attack earns.
func (c *Client) Pillage(ctx context.Context, req PillageRequest) (game.PillageResult, error) {
	var res game.PillageResult
	err := c.do(ctx, http.MethodPost, "/api/economy/pillage", req, &res)
	return res, err
}

package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/cenkalti/backoff/v4"
)

// DefaultRatesURL is the public quote endpoint for the two pairs we track.
const DefaultRatesURL = "https://economia.awesomeapi.com.br/last/USD-BRL,EUR-BRL"

// DefaultSnapshotTTL bounds how long one snapshot is reused before a
// refresh. Concurrent dashboard computations inside the window share the
// cached snapshot instead of re-hitting the source.
const DefaultSnapshotTTL = time.Hour

// Source provides the current exchange-rate snapshot.
type Source interface {
	// Current returns the freshest snapshot available. A nil snapshot with
	// a nil error means the source is unavailable and no cached value
	// exists; callers must degrade rather than fail.
	Current(ctx context.Context) (*Snapshot, error)
}

// RatesClient fetches quotes over HTTP and caches them in memory for the
// session. The quote source is best-effort: on fetch failure the previous
// snapshot is served even past its TTL, and nil is returned only when
// nothing was ever fetched.
type RatesClient struct {
	url    string
	ttl    time.Duration
	client *http.Client
	log    *logger.Logger

	mu     sync.Mutex
	cached *Snapshot
}

// NewRatesClient creates a rate client. Empty url or zero ttl select the
// defaults.
func NewRatesClient(url string, ttl time.Duration, log *logger.Logger) *RatesClient {
	if url == "" {
		url = DefaultRatesURL
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RatesClient{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// quotePayload mirrors the awesomeapi response shape; bid values arrive as
// quoted strings.
type quotePayload struct {
	USDBRL struct {
		Bid string `json:"bid"`
	} `json:"USDBRL"`
	EURBRL struct {
		Bid string `json:"bid"`
	} `json:"EURBRL"`
}

// Current returns the cached snapshot when it is still inside the TTL,
// otherwise refreshes it. All errors are downgraded to degraded mode.
func (c *RatesClient) Current(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.cached.FetchedAt) < c.ttl {
		return c.cached, nil
	}

	snap, err := c.fetch(ctx)
	if err != nil {
		if c.cached != nil {
			c.log.Warnw("Rate refresh failed, reusing stale snapshot", "error", err, "fetched_at", c.cached.FetchedAt)
			return c.cached, nil
		}
		c.log.Warnw("Rate fetch failed and no snapshot cached, running unconverted", "error", err)
		return nil, nil
	}

	c.cached = snap
	c.log.Infow("Exchange rates refreshed", "usd", snap.USD, "eur", snap.EUR)
	return snap, nil
}

// fetch performs the HTTP call with a short exponential backoff.
func (c *RatesClient) fetch(ctx context.Context) (*Snapshot, error) {
	var payload quotePayload

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("rate source returned status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return err
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("currency: failed to fetch rates: %w", err)
	}

	usd, err := strconv.ParseFloat(payload.USDBRL.Bid, 64)
	if err != nil {
		return nil, fmt.Errorf("currency: invalid USD bid %q: %w", payload.USDBRL.Bid, err)
	}
	eur, err := strconv.ParseFloat(payload.EURBRL.Bid, 64)
	if err != nil {
		return nil, fmt.Errorf("currency: invalid EUR bid %q: %w", payload.EURBRL.Bid, err)
	}

	return &Snapshot{USD: usd, EUR: eur, FetchedAt: time.Now()}, nil
}

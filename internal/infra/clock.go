package infra

// clock.go — wall clock for the caixa ledger.
//
// Lançamento timestamps are legal/accounting records, so the server clock is
// periodically reconciled against an external world-time API and the measured
// offset is applied to every reading. When the API is unreachable the last
// known offset keeps being used, and the clock never runs backwards between
// two consecutive readings.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SystemClock reads the local wall clock in the configured timezone.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("clock: load location %q: %w", timezone, err)
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time { return time.Now().In(c.loc) }

// timeAPIResponse mirrors the worldtimeapi.org payload (only what we need).
type timeAPIResponse struct {
	Datetime string `json:"datetime"`
	UnixTime int64  `json:"unixtime"`
}

// SyncStatus reports the health of the synced clock for diagnostics endpoints.
type SyncStatus struct {
	Synced     bool          `json:"sincronizado"`
	LastSync   *time.Time    `json:"ultima_sincronizacao,omitempty"`
	Offset     time.Duration `json:"-"`
	OffsetMS   int64         `json:"offset_ms"`
	LastError  string        `json:"ultimo_erro,omitempty"`
	SyncFailed int           `json:"falhas_consecutivas"`
}

// SyncedClock layers an externally measured offset over the system clock.
type SyncedClock struct {
	base       *SystemClock
	apiURL     string
	httpClient *http.Client
	log        zerolog.Logger

	mu         sync.Mutex
	offset     time.Duration
	synced     bool
	lastSync   time.Time
	lastErr    string
	failures   int
	lastReturn time.Time
}

func NewSyncedClock(base *SystemClock, apiURL string, log zerolog.Logger) *SyncedClock {
	return &SyncedClock{
		base:       base,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log.With().Str("component", "clock").Logger(),
	}
}

// Now returns the offset-corrected time. Consecutive readings are clamped to
// be non-decreasing so a sync that pulls the clock back can never produce a
// ledger entry dated before the previous one.
func (c *SyncedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.base.Now().Add(c.offset)
	if now.Before(c.lastReturn) {
		now = c.lastReturn
	}
	c.lastReturn = now
	return now
}

// Status returns a snapshot of the sync state.
func (c *SyncedClock) Status() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := SyncStatus{
		Synced:     c.synced,
		Offset:     c.offset,
		OffsetMS:   c.offset.Milliseconds(),
		LastError:  c.lastErr,
		SyncFailed: c.failures,
	}
	if !c.lastSync.IsZero() {
		t := c.lastSync
		st.LastSync = &t
	}
	return st
}

// ForceSync queries the time API once and updates the offset.
func (c *SyncedClock) ForceSync(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return c.recordFailure(fmt.Errorf("clock: create request: %w", err))
	}

	before := c.base.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.recordFailure(fmt.Errorf("clock: time API unreachable: %w", err))
	}
	defer resp.Body.Close()
	after := c.base.Now()

	if resp.StatusCode != http.StatusOK {
		return c.recordFailure(fmt.Errorf("clock: time API returned %d", resp.StatusCode))
	}

	var body timeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return c.recordFailure(fmt.Errorf("clock: decode response: %w", err))
	}

	remote := time.Unix(body.UnixTime, 0)
	// Approximate the reading as taken at the midpoint of the round trip.
	local := before.Add(after.Sub(before) / 2)
	offset := remote.Sub(local).Truncate(time.Millisecond)

	c.mu.Lock()
	c.offset = offset
	c.synced = true
	c.lastSync = c.base.Now()
	c.lastErr = ""
	c.failures = 0
	c.mu.Unlock()

	c.log.Info().Dur("offset", offset).Msg("clock synchronized")
	return nil
}

func (c *SyncedClock) recordFailure(err error) error {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.failures++
	failures := c.failures
	c.mu.Unlock()

	c.log.Warn().Err(err).Int("failures", failures).Msg("clock sync failed")
	return err
}

// StartSyncLoop runs ForceSync immediately and then on a fixed interval until
// ctx is cancelled. Failures are logged and retried on the next tick.
func (c *SyncedClock) StartSyncLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	go func() {
		syncCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_ = c.ForceSync(syncCtx)
		cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				syncCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				_ = c.ForceSync(syncCtx)
				cancel()
			}
		}
	}()
}

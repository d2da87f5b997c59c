package infra

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncedClockForceSync(t *testing.T) {
	// Remote clock one hour ahead of us.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		remote := time.Now().Add(time.Hour).Unix()
		fmt.Fprintf(w, `{"datetime":"ignored","unixtime":%d}`, remote)
	}))
	defer srv.Close()

	base, err := NewSystemClock("UTC")
	require.NoError(t, err)
	clock := NewSyncedClock(base, srv.URL, zerolog.Nop())

	require.NoError(t, clock.ForceSync(context.Background()))

	st := clock.Status()
	assert.True(t, st.Synced)
	assert.NotNil(t, st.LastSync)
	assert.Zero(t, st.SyncFailed)
	// Unix-second granularity plus round-trip latency leaves some slack.
	assert.InDelta(t, time.Hour.Milliseconds(), st.OffsetMS, 2000)

	diff := time.Until(clock.Now())
	assert.InDelta(t, time.Hour.Seconds(), diff.Seconds(), 2)
}

func TestSyncedClockFalhaRegistrada(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	base, err := NewSystemClock("UTC")
	require.NoError(t, err)
	clock := NewSyncedClock(base, srv.URL, zerolog.Nop())

	require.Error(t, clock.ForceSync(context.Background()))

	st := clock.Status()
	assert.False(t, st.Synced)
	assert.Equal(t, 1, st.SyncFailed)
	assert.NotEmpty(t, st.LastError)
}

func TestSyncedClockNuncaRetrocede(t *testing.T) {
	base, err := NewSystemClock("UTC")
	require.NoError(t, err)
	clock := NewSyncedClock(base, "http://unused.invalid", zerolog.Nop())

	// Simulate a sync that pulled the clock back.
	clock.mu.Lock()
	clock.offset = time.Hour
	clock.mu.Unlock()
	antes := clock.Now()

	clock.mu.Lock()
	clock.offset = 0
	clock.mu.Unlock()
	depois := clock.Now()

	assert.False(t, depois.Before(antes), "readings must be non-decreasing")
}

func TestNewSystemClockTimezoneInvalida(t *testing.T) {
	_, err := NewSystemClock("Marte/Olympus")
	assert.Error(t, err)
}

package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGateway = errors.New("gateway down")

func falha() error   { return errGateway }
func sucesso() error { return nil }

func TestCBAbreAposFalhasConsecutivas(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(falha), errGateway)
	}
	assert.Equal(t, CBOpen, cb.State())

	// Open fast-fails without invoking fn.
	chamado := false
	err := cb.Execute(func() error { chamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, chamado)
}

func TestCBSucessoZeraContagem(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	require.Error(t, cb.Execute(falha))
	require.Error(t, cb.Execute(falha))
	require.NoError(t, cb.Execute(sucesso))
	require.Error(t, cb.Execute(falha))
	require.Error(t, cb.Execute(falha))
	assert.Equal(t, CBClosed, cb.State(), "interleaved success resets the failure streak")
}

func TestCBHalfOpenFechaAposSucessos(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(falha))
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(sucesso))
	assert.Equal(t, CBHalfOpen, cb.State(), "one probe is not enough")
	require.NoError(t, cb.Execute(sucesso))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCBHalfOpenReabreNaFalha(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(falha))
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(falha))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCBStateString(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}

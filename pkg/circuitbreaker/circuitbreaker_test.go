package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("broker unavailable")

// fakeClock 可控时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(clock *fakeClock, transitions *[]State) *CircuitBreaker {
	cb := NewCircuitBreaker("receipt", Config{
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 3 },
		OnStateChange: func(_ string, _, to State) {
			if transitions != nil {
				*transitions = append(*transitions, to)
			}
		},
	})
	cb.now = clock.Now
	return cb
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := newTestBreaker(clock, nil)

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errUnavailable })
		assert.ErrorIs(t, err, errUnavailable)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断打开时不应执行请求")
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := newTestBreaker(clock, nil)

	_ = cb.Execute(func() error { return errUnavailable })
	_ = cb.Execute(func() error { return errUnavailable })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errUnavailable })

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	var transitions []State
	cb := newTestBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUnavailable })
	}
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(11 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateClosed}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := newTestBreaker(clock, nil)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUnavailable })
	}
	clock.Advance(11 * time.Second)

	_ = cb.Execute(func() error { return errUnavailable })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	cb := NewCircuitBreaker("ctx", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	_ = cb.Execute(func() error { return context.Canceled })
	assert.Equal(t, StateClosed, cb.State(), "调用方取消不计为失败")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}

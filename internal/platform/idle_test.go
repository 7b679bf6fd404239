package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdle struct {
	idle  time.Duration
	err   error
	calls int
}

func (stub *stubIdle) IdleDuration() (time.Duration, error) {
	stub.calls++
	return stub.idle, stub.err
}

func TestIdleChainSticksWithFirstWorkingProbe(t *testing.T) {
	broken := &stubIdle{err: errors.New("no compositor")}
	working := &stubIdle{idle: 3 * time.Second}
	chain := newIdleChain(broken, working)

	idle, err := chain.IdleDuration()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, idle)

	working.idle = 4 * time.Second
	idle, err = chain.IdleDuration()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, idle)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 2, working.calls)
}

func TestIdleChainAllProbesFail(t *testing.T) {
	first := errors.New("first")
	chain := newIdleChain(&stubIdle{err: first}, &stubIdle{err: errors.New("second")})

	_, err := chain.IdleDuration()
	require.ErrorIs(t, err, ErrIdleUnsupported)
	assert.ErrorIs(t, err, first)
}

func TestIdleChainWithoutProbes(t *testing.T) {
	_, err := newIdleChain().IdleDuration()
	assert.ErrorIs(t, err, ErrIdleUnsupported)
}

func TestParseIdleMillis(t *testing.T) {
	idle, err := parseIdleMillis("1500\n")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, idle)

	idle, err = parseIdleMillis("-20")
	require.NoError(t, err)
	assert.Zero(t, idle)

	_, err = parseIdleMillis("soon")
	assert.Error(t, err)
}

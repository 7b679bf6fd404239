package platform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

// idleChain asks each probe in turn and sticks with the first that answers.
type idleChain struct {
	mu     sync.Mutex
	probes []IdleProvider
	active IdleProvider
}

func newIdleChain(probes ...IdleProvider) IdleProvider {
	if len(probes) == 0 {
		return unsupportedIdleProvider{}
	}
	return &idleChain{probes: probes}
}

func (chain *idleChain) IdleDuration() (time.Duration, error) {
	chain.mu.Lock()
	active := chain.active
	chain.mu.Unlock()
	if active != nil {
		return active.IdleDuration()
	}

	errs := make([]error, 0, len(chain.probes))
	for _, probe := range chain.probes {
		idle, err := probe.IdleDuration()
		if err == nil {
			chain.mu.Lock()
			chain.active = probe
			chain.mu.Unlock()
			return idle, nil
		}
		errs = append(errs, err)
	}
	return 0, fmt.Errorf("%w: %w", ErrIdleUnsupported, errors.Join(errs...))
}

// parseIdleMillis reads a millisecond count as printed by idle tools.
func parseIdleMillis(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds %q: %w", value, err)
	}
	if millis < 0 {
		millis = 0
	}
	return time.Duration(millis) * time.Millisecond, nil
}

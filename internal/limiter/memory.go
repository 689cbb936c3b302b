package limiter

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// defaultSweepEvery is how many recorded failures trigger a pass over all entries.
const defaultSweepEvery = 256

type attempts struct {
	fails        int
	updatedAt    time.Time
	blockedUntil time.Time
}

// Memory is an in-process limiter with the same semantics as PG.
// Entries past both their block and the failure window are evicted.
type Memory struct {
	entries    *xsync.MapOf[string, attempts]
	policy     Policy
	now        func() time.Time
	failures   atomic.Uint64
	sweepEvery uint64
}

// NewMemory constructs an in-process limiter.
func NewMemory(p Policy) *Memory {
	return &Memory{
		entries:    xsync.NewMapOf[string, attempts](),
		policy:     p.withDefaults(),
		now:        time.Now,
		sweepEvery: defaultSweepEvery,
	}
}

func key(username string, ipHash []byte) string { return username + "\x00" + string(ipHash) }

func (m *Memory) stale(a attempts, now time.Time) bool {
	return !now.Before(a.blockedUntil) && now.Sub(a.updatedAt) > m.policy.Window
}

// Allow reports whether signin is currently allowed. A stale entry for the pair is dropped.
func (m *Memory) Allow(_ context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	now := m.now()
	var wait time.Duration
	m.entries.Compute(key(username, ipHash), func(a attempts, loaded bool) (attempts, bool) {
		if !loaded {
			return a, true
		}
		wait = a.blockedUntil.Sub(now)
		return a, m.stale(a, now)
	})
	if wait > 0 {
		return false, wait, nil
	}
	return true, 0, nil
}

// Success forgets failures for the pair.
func (m *Memory) Success(_ context.Context, username string, ipHash []byte) error {
	m.entries.Delete(key(username, ipHash))
	return nil
}

// Failure records a failed attempt and blocks the pair once the threshold is reached.
func (m *Memory) Failure(_ context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	now := m.now()
	blocked := false
	m.entries.Compute(key(username, ipHash), func(a attempts, loaded bool) (attempts, bool) {
		if !loaded || now.Sub(a.updatedAt) > m.policy.Window {
			a.fails = 0
		}
		a.fails++
		a.updatedAt = now
		if a.fails >= m.policy.MaxFails {
			a.fails = 0
			a.blockedUntil = now.Add(m.policy.BlockFor)
			blocked = true
		}
		return a, false
	})
	if m.sweepEvery > 0 && m.failures.Add(1)%m.sweepEvery == 0 {
		m.sweep(now)
	}
	if blocked {
		return true, m.policy.BlockFor, nil
	}
	return false, 0, nil
}

// sweep drops stale entries of pairs that never come back.
func (m *Memory) sweep(now time.Time) {
	m.entries.Range(func(k string, _ attempts) bool {
		m.entries.Compute(k, func(a attempts, loaded bool) (attempts, bool) {
			return a, !loaded || m.stale(a, now)
		})
		return true
	})
}

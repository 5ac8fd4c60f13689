package ratelimit

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Member identifies a user within a guild.
type Member struct {
	GuildId string
	UserId  string
}

// Limiter hands out one pass per key per cooldown. The cooldown is drawn
// uniformly from [min, max) each time a pass is granted.
type Limiter[K comparable] struct {
	mu    sync.Mutex
	until map[K]time.Time
	min   time.Duration
	max   time.Duration
	clk   Clock
	rng   *mrand.Rand
}

func NewLimiter[K comparable](min, max time.Duration, clk Clock) *Limiter[K] {
	if clk == nil {
		clk = RealClock{}
	}
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}

	seed := time.Now().UnixNano()
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}

	return &Limiter[K]{
		until: make(map[K]time.Time),
		min:   min,
		max:   max,
		clk:   clk,
		rng:   mrand.New(mrand.NewSource(seed)),
	}
}

// Try reports whether key may act now. When it may not, the remaining wait
// is returned and the cooldown is left as it was.
func (l *Limiter[K]) Try(key K) (bool, time.Duration) {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	if until, ok := l.until[key]; ok && now.Before(until) {
		return false, until.Sub(now)
	}
	if l.max == 0 {
		return true, 0
	}

	l.until[key] = now.Add(l.cooldown())
	return true, 0
}

// Remaining is the wait left for key, zero when it may act.
func (l *Limiter[K]) Remaining(key K) time.Duration {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if until, ok := l.until[key]; ok && now.Before(until) {
		return until.Sub(now)
	}
	return 0
}

func (l *Limiter[K]) Forget(key K) {
	l.mu.Lock()
	delete(l.until, key)
	l.mu.Unlock()
}

// Len counts keys still cooling down.
func (l *Limiter[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(l.clk.Now())
	return len(l.until)
}

func (l *Limiter[K]) cooldown() time.Duration {
	if l.min == l.max {
		return l.min
	}
	return l.min + time.Duration(l.rng.Int63n(int64(l.max-l.min)))
}

// sweep drops expired entries so long-lived limiters keyed by user or fish
// do not grow without bound.
func (l *Limiter[K]) sweep(now time.Time) {
	for k, until := range l.until {
		if !now.Before(until) {
			delete(l.until, k)
		}
	}
}

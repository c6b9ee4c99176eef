// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// Ticks is a time span measured in system clock ticks. One tick lasts
// 1/rate seconds, where rate is the ticks-per-second value reported by the
// queue's Clock at the moment the operation starts.
//
// Two values are special:
//
//	Forever (any negative value) — block until the operation can proceed
//	NoWait  (zero)               — check once, never block
type Ticks int

const (
	// Forever blocks until the operation can proceed or the queue is
	// closed. Any negative tick count behaves the same.
	Forever Ticks = -1

	// NoWait evaluates the operation's predicate exactly once and returns
	// ErrWouldBlock if it does not hold.
	NoWait Ticks = 0
)

// DefaultRate is the tick rate substituted when a Clock reports a
// non-positive ticks-per-second value.
const DefaultRate = 60

// Duration converts a tick count to a wall-clock duration at the given
// rate. Conversion is millisecond-denominated (ticks × 1000 / rate) and
// clamps positive results to a minimum of one millisecond. A non-positive
// rate is substituted with DefaultRate. Non-positive tick counts convert
// to zero; their blocking meaning (Forever, NoWait) is interpreted by Send
// and Receive, not here.
func (t Ticks) Duration(rate int) time.Duration {
	if t <= 0 {
		return 0
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	ms := int64(t) * 1000 / int64(rate)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// TicksFor converts a duration to a tick count at the given rate, rounding
// down. A non-positive rate is substituted with DefaultRate. Non-positive
// durations convert to zero ticks.
func TicksFor(d time.Duration, rate int) Ticks {
	if d <= 0 {
		return 0
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	return Ticks(d.Milliseconds() * int64(rate) / 1000)
}

// Clock is the tick source collaborator consumed by Queue: a monotonic time
// base plus the current tick rate. Implementations must be safe for use
// from multiple goroutines.
//
// Queues sample Rate once per timed operation, at entry; a rate change
// made while a wait is in progress does not reshape that wait's deadline.
type Clock interface {
	// Rate returns the current tick rate in ticks per second. Queues
	// substitute DefaultRate for non-positive values.
	Rate() int

	// Now returns the current time. Readings must be monotonic: the
	// difference between two readings is unaffected by wall-clock
	// adjustments.
	Now() time.Time
}

// SysClock is the default Clock: a monotonic clock started at construction
// with a runtime-settable tick rate, in the manner of an RTOS system clock.
type SysClock struct {
	rate atomix.Int64

	mu        sync.Mutex // guards the tick base below
	base      time.Time  // start of the current rate epoch
	baseTicks uint64     // ticks accumulated in earlier epochs
}

// SystemClock creates a SysClock at the given tick rate.
// A non-positive rate falls back to DefaultRate.
func SystemClock(rate int) *SysClock {
	if rate <= 0 {
		rate = DefaultRate
	}
	c := &SysClock{base: time.Now()}
	c.rate.Store(int64(rate))
	return c
}

// Rate returns the current tick rate in ticks per second.
func (c *SysClock) Rate() int {
	return int(c.rate.Load())
}

// SetRate changes the tick rate. Ticks elapsed so far are folded into the
// tick base, so Ticks never jumps backwards across a rate change.
// Returns ErrBadRate for a non-positive rate.
func (c *SysClock) SetRate(rate int) error {
	if rate <= 0 {
		return ErrBadRate
	}
	c.mu.Lock()
	now := time.Now()
	c.baseTicks += elapsedTicks(now.Sub(c.base), c.Rate())
	c.base = now
	c.rate.Store(int64(rate))
	c.mu.Unlock()
	return nil
}

// Now returns the current monotonic time.
func (c *SysClock) Now() time.Time {
	return time.Now()
}

// Ticks returns the number of ticks elapsed since the clock was created,
// at the rates that were in effect along the way.
func (c *SysClock) Ticks() uint64 {
	c.mu.Lock()
	n := c.baseTicks + elapsedTicks(time.Since(c.base), c.Rate())
	c.mu.Unlock()
	return n
}

func elapsedTicks(d time.Duration, rate int) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d.Milliseconds() * int64(rate) / 1000)
}

// sysClock is the package default used by queues built without an explicit
// Clock.
var sysClock = SystemClock(DefaultRate)

// DefaultClock returns the package-level SysClock that queues use when no
// Clock is injected at construction.
func DefaultClock() *SysClock {
	return sysClock
}

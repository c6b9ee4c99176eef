// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/msgq"
)

// =============================================================================
// System Clock
// =============================================================================

// TestSystemClockRate verifies rate configuration and the invalid-rate
// fallbacks.
func TestSystemClockRate(t *testing.T) {
	c := msgq.SystemClock(100)
	if got := c.Rate(); got != 100 {
		t.Fatalf("Rate: got %d, want 100", got)
	}

	if err := c.SetRate(250); err != nil {
		t.Fatalf("SetRate(250): %v", err)
	}
	if got := c.Rate(); got != 250 {
		t.Fatalf("Rate after SetRate: got %d, want 250", got)
	}

	if err := c.SetRate(0); !errors.Is(err, msgq.ErrBadRate) {
		t.Fatalf("SetRate(0): got %v, want ErrBadRate", err)
	}
	if err := c.SetRate(-5); !errors.Is(err, msgq.ErrBadRate) {
		t.Fatalf("SetRate(-5): got %v, want ErrBadRate", err)
	}
	if got := c.Rate(); got != 250 {
		t.Fatalf("Rate after rejected SetRate: got %d, want 250", got)
	}

	// Construction substitutes the default for a bad rate.
	if got := msgq.SystemClock(0).Rate(); got != msgq.DefaultRate {
		t.Fatalf("SystemClock(0).Rate: got %d, want %d", got, msgq.DefaultRate)
	}
}

// TestSystemClockTicks verifies the tick counter advances with real time
// and never jumps backwards across a rate change.
func TestSystemClockTicks(t *testing.T) {
	c := msgq.SystemClock(1000) // 1 tick per millisecond

	before := c.Ticks()
	time.Sleep(30 * time.Millisecond)
	after := c.Ticks()
	if after <= before {
		t.Fatalf("Ticks did not advance: before %d, after %d", before, after)
	}
	if elapsed := after - before; elapsed < 10 || elapsed > 10_000 {
		t.Fatalf("Ticks advanced by %d over ~30ms at 1000/s", elapsed)
	}

	// Slowing the rate folds elapsed ticks into the base; the counter
	// keeps its value and keeps moving forward.
	if err := c.SetRate(10); err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	atChange := c.Ticks()
	if atChange < after {
		t.Fatalf("Ticks jumped backwards across SetRate: %d -> %d", after, atChange)
	}
	time.Sleep(10 * time.Millisecond)
	if got := c.Ticks(); got < atChange {
		t.Fatalf("Ticks went backwards after SetRate: %d -> %d", atChange, got)
	}
}

// TestSystemClockNowMonotonic verifies Now readings do not go backwards.
func TestSystemClockNowMonotonic(t *testing.T) {
	c := msgq.SystemClock(msgq.DefaultRate)
	prev := c.Now()
	for range 1000 {
		now := c.Now()
		if now.Before(prev) {
			t.Fatalf("Now went backwards: %v -> %v", prev, now)
		}
		prev = now
	}
}

// TestDefaultClock verifies the package clock is shared and usable.
func TestDefaultClock(t *testing.T) {
	c := msgq.DefaultClock()
	if c == nil {
		t.Fatal("DefaultClock: got nil")
	}
	if c != msgq.DefaultClock() {
		t.Fatal("DefaultClock: got distinct instances")
	}
	if c.Rate() <= 0 {
		t.Fatalf("DefaultClock rate: got %d, want positive", c.Rate())
	}
}

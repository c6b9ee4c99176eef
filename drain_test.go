// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// White-box drain barrier test. The barrier's guarantee — no operation is
// still inside the queue when Close returns — is about internal state, so
// this file lives in the package rather than msgq_test.

package msgq

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
)

// TestCloseDrainBarrier verifies Close does not return while any Send or
// Receive is still inside the monitor. Senders block on a full queue and
// receivers on an empty one, so no waiter can be satisfied by another: the
// in-flight count must equal the waiter count when Close starts and be
// exactly zero the moment it returns.
func TestCloseDrainBarrier(t *testing.T) {
	const waiters = 4

	full, err := New(1, 8).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := full.Send([]byte("fill"), NoWait, 0); err != nil {
		t.Fatalf("Send: %v", err)
	}
	empty, err := New(1, 8).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var invalidated atomix.Int64
	var wg sync.WaitGroup
	for range waiters {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := full.Send([]byte("late"), Forever, 0); IsInvalidated(err) {
				invalidated.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := empty.Receive(make([]byte, 8), Forever); IsInvalidated(err) {
				invalidated.Add(1)
			}
		}()
	}

	// Every waiter bumps inflight on entry and parks on its condvar, so
	// reaching the full count means all of them are blocked inside.
	waitBlocked := func(q *Queue) {
		deadline := time.Now().Add(3 * time.Second)
		for {
			q.mu.Lock()
			n := q.inflight
			q.mu.Unlock()
			if n == waiters {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("in-flight before Close: got %d, want %d", n, waiters)
			}
			time.Sleep(time.Millisecond)
		}
	}
	waitBlocked(full)
	waitBlocked(empty)

	for _, q := range []*Queue{full, empty} {
		if err := q.Close(); err != nil {
			t.Fatalf("Close: got %v, want nil", err)
		}
		q.mu.Lock()
		inflight, valid := q.inflight, q.valid
		q.mu.Unlock()
		if inflight != 0 {
			t.Fatalf("in-flight after Close: got %d, want 0", inflight)
		}
		if valid {
			t.Fatal("queue still valid after Close")
		}
	}

	wg.Wait()
	if got := invalidated.Load(); got != 2*waiters {
		t.Fatalf("invalidated waiters: got %d, want %d", got, 2*waiters)
	}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// Queue is a bounded inter-task message queue with blocking, non-blocking,
// and tick-denominated timed Send/Receive. Capacity, maximum message
// length, and ordering discipline are fixed at creation; all storage is
// allocated up front.
//
// Every operation runs under one monitor lock with separate "room to send"
// and "message available" condition variables; the lock is released while
// a caller is blocked and reacquired on wake. There are no lock-free
// paths: clarity and testability over peak throughput.
//
// Memory: O(capacity × maxMsgLen), fixed at creation
type Queue struct {
	mu      sync.Mutex
	canSend *sync.Cond // room to send
	canRecv *sync.Cond // message available
	drained *sync.Cond // in-flight count reached zero after Close

	st     store
	clk    Clock
	maxCap int
	maxLen int
	ord    Discipline

	count    int  // occupancy, guarded by mu
	valid    bool // false once Close begins, guarded by mu
	inflight int  // callers inside Send/Receive, guarded by mu

	length atomix.Int64 // occupancy mirror for lock-free Len
}

var _ MessageQueue = (*Queue)(nil)

// Send copies p into the queue. While the queue is full, Send blocks per
// the timeout policy:
//
//	Forever — until a slot frees or the queue is closed
//	NoWait  — never; fails immediately with ErrWouldBlock
//	N > 0   — up to N ticks at the clock's current rate, then ErrTimeout
//
// At most MaxMsgLen bytes are stored; a longer payload is silently
// truncated, not rejected. In Priority mode prio (clamped to
// [0, NumPriorities-1], higher is more urgent) orders delivery; in FIFO
// mode it is ignored. On success one blocked receiver is woken.
//
// On any failure nothing was enqueued and the queue's state is unchanged.
func (q *Queue) Send(p []byte, timeout Ticks, prio int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.valid {
		return ErrInvalidated
	}
	q.inflight++
	err := q.awaitLocked(q.canSend, timeout, func() bool { return q.count < q.maxCap })
	if err == nil {
		q.st.put(p, clampPrio(prio))
		q.count++
		q.length.Store(int64(q.count))
		q.canRecv.Signal()
	}
	q.exitLocked()
	return err
}

// Receive removes the oldest-by-discipline message: the earliest arrival
// in FIFO mode, the head of the highest non-empty priority level in
// Priority mode. While the queue is empty, Receive blocks per the same
// timeout policy as Send.
//
// It copies min(storedLen, len(buf)) bytes into buf and returns the stored
// length, so receiving into a short buffer is observable:
// copied = min(n, len(buf)). A zero-length buffer consumes the message
// without copying. On success one blocked sender is woken.
//
// On any failure nothing was dequeued and the queue's state is unchanged.
func (q *Queue) Receive(buf []byte, timeout Ticks) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.valid {
		return 0, ErrInvalidated
	}
	q.inflight++
	err := q.awaitLocked(q.canRecv, timeout, func() bool { return q.count > 0 })
	n := 0
	if err == nil {
		n = q.st.take(buf)
		q.count--
		q.length.Store(int64(q.count))
		q.canSend.Signal()
	}
	q.exitLocked()
	return n, err
}

// awaitLocked blocks until ready() holds, the timeout policy expires, or
// the queue is invalidated. Called with mu held and inflight counted; mu
// is released while waiting.
//
// For timed waits the deadline is computed once at entry from the clock's
// current rate, and ready() is re-evaluated ahead of every deadline check,
// so a message or slot that appears exactly at the deadline is taken
// rather than timed out.
func (q *Queue) awaitLocked(cv *sync.Cond, timeout Ticks, ready func() bool) error {
	if ready() {
		return nil
	}
	if timeout == NoWait {
		return ErrWouldBlock
	}
	if timeout < 0 {
		for !ready() {
			cv.Wait()
			if !q.valid {
				return ErrInvalidated
			}
		}
		return nil
	}

	d := timeout.Duration(q.clk.Rate())
	deadline := q.clk.Now().Add(d)
	// sync.Cond has no timed wait; the timer broadcast stands in for one.
	// It must take the monitor lock first: the waiter registers on the
	// condvar before Wait releases mu, so a locked broadcast cannot slip
	// into the window between a deadline check and the next Wait and be
	// lost. Stray wakeups of sibling waiters re-check their predicates
	// and go back to sleep.
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		cv.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()
	for !ready() {
		if !q.clk.Now().Before(deadline) {
			return ErrTimeout
		}
		cv.Wait()
		if !q.valid {
			return ErrInvalidated
		}
	}
	return nil
}

// exitLocked retires one in-flight operation and releases Close's drain
// barrier when the last one leaves an invalidated queue.
func (q *Queue) exitLocked() {
	q.inflight--
	if q.inflight == 0 && !q.valid {
		q.drained.Broadcast()
	}
}

// Close invalidates the queue. Every blocked sender and receiver is woken
// and fails with ErrInvalidated; Close then blocks until all of them have
// exited (the drain barrier), discards queued messages, and reclaims their
// storage. Messages still queued at this point are never delivered.
//
// Close on an already-closed queue returns ErrInvalidated without effect.
// Send and Receive entered after Close begins fail with ErrInvalidated.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.valid {
		return ErrInvalidated
	}
	q.valid = false
	q.canSend.Broadcast()
	q.canRecv.Broadcast()
	for q.inflight > 0 {
		q.drained.Wait()
	}
	q.st.reset()
	q.count = 0
	q.length.Store(0)
	return nil
}

// Len returns the current number of queued messages. It reads an atomic
// mirror of the occupancy counter and does not take the monitor lock, so
// under concurrent senders and receivers the value is a snapshot.
func (q *Queue) Len() int {
	return int(q.length.Load())
}

// Cap returns the maximum number of queued messages.
func (q *Queue) Cap() int {
	return q.maxCap
}

// MaxMsgLen returns the maximum stored length of one message. Longer
// payloads passed to Send are truncated to this length.
func (q *Queue) MaxMsgLen() int {
	return q.maxLen
}

// Ordering returns the queue's delivery discipline.
func (q *Queue) Ordering() Discipline {
	return q.ord
}

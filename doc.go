// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msgq provides bounded inter-task message queues with tick-based
// timeouts.
//
// A queue delivers byte-payload messages from any number of senders to any
// number of receivers in one of two mutually exclusive disciplines, fixed
// at creation:
//
//   - FIFO: strict arrival order
//   - Priority: descending priority (0–255, higher is more urgent),
//     arrival order preserved within a level
//
// Each message is delivered to exactly one receiver. Capacity and maximum
// message length are fixed at creation and all storage is allocated up
// front: a ring of presized slots in FIFO mode, a pooled node arena with
// per-level sub-queues in Priority mode. Steady-state operation performs
// no allocation.
//
// # Quick Start
//
// Direct constructors:
//
//	q, err := msgq.NewFIFO(64, 128)       // 64 messages ≤ 128 bytes
//	q, err := msgq.NewPriority(64, 128)
//
// Builder API for non-default configuration:
//
//	q, err := msgq.New(64, 128).Priority().Clock(clk).Build()
//
// # Basic Usage
//
//	// Send, blocking while full
//	err := q.Send([]byte("work item"), msgq.Forever, 0)
//
//	// Receive, blocking up to 50 ticks while empty
//	buf := make([]byte, 128)
//	n, err := q.Receive(buf, 50)
//	if err == nil {
//	    process(buf[:min(n, len(buf))])
//	}
//
//	// Tear down: wakes all blocked callers, waits for them to exit
//	q.Close()
//
// # Timeouts and Ticks
//
// Blocking is tick-denominated, in the manner of an RTOS kernel service.
// The timeout argument of Send and Receive selects one of three policies:
//
//	msgq.Forever (any negative) — block until the operation can proceed
//	msgq.NoWait  (zero)         — check once, fail with ErrWouldBlock
//	N > 0                       — block up to N ticks, then ErrTimeout
//
// A positive tick count converts to an absolute deadline using the tick
// rate reported by the queue's [Clock] at call entry: one tick lasts
// 1/rate seconds, conversion is millisecond-denominated with a one
// millisecond floor, and a non-positive reported rate is substituted with
// [DefaultRate]. The predicate is re-checked once more at the deadline, so
// a message that arrives exactly then is delivered, not timed out.
//
// Queues use [DefaultClock] unless a Clock is injected via
// [Builder.Clock]. [SystemClock] builds monotonic clocks with a
// runtime-settable rate; tests typically inject a high-rate clock so tick
// timeouts shrink to milliseconds.
//
// # Truncation
//
// Oversized payloads are truncated, not rejected, on both sides of the
// queue:
//
//   - Send stores at most MaxMsgLen bytes of the payload and succeeds.
//   - Receive copies at most len(buf) bytes of the message and returns the
//     full stored length, so callers observe truncation as n > len(buf).
//
// Silent truncation on Send is a deliberate compatibility choice carried
// over from the classic message-queue services this package models; size
// the queue's maximum message length for the largest payload you send.
//
// # Priority Delivery
//
// In Priority mode each of the 256 levels is its own sub-queue. Send
// appends to its level in O(1); Receive scans levels from 255 down to 0
// and pops the first non-empty one. The O(256) worst-case scan is a
// deliberate simplicity trade: levels are fixed, the bound is small, and
// no auxiliary non-empty-level index needs maintaining.
//
//	q.Send([]byte("low"), msgq.NoWait, 10)
//	q.Send([]byte("urgent"), msgq.NoWait, 200)
//	q.Send([]byte("mid"), msgq.NoWait, 50)
//	// Receives yield "urgent", "mid", "low".
//
// In FIFO mode the priority argument is ignored.
//
// # Error Handling
//
// All failures are returned to the caller; nothing panics across the API
// boundary and a non-nil error always means no state change occurred,
// enabling safe retry loops. The three operation outcomes besides success
// are distinct:
//
//	msgq.IsWouldBlock(err)   // NoWait and the queue was full/empty
//	msgq.IsTimeout(err)      // timed wait expired
//	msgq.IsInvalidated(err)  // queue closed before or during the call
//
// ErrWouldBlock is sourced from [code.hybscloud.com/iox] for ecosystem
// consistency and is a control flow signal rather than a failure;
// [IsSemantic] and [IsNonFailure] treat it as benign.
//
// # Teardown
//
// Close invalidates the queue and releases every blocked sender and
// receiver with ErrInvalidated. It does not return until all of them have
// exited the queue — a drain barrier over an in-flight operation count —
// and only then discards queued messages and reclaims their storage.
// Messages still queued when Close runs are never delivered; a Send that
// returned success before Close began is guaranteed to have been visible
// to some Receive only while the queue remained open.
//
// # Concurrency Model
//
// All operations are safe from any goroutine. The queue is a classic
// monitor: one mutex, a "room to send" condition, a "message available"
// condition. The lock is released while a caller blocks and reacquired on
// wake; storage indices are only touched under the lock. There are no
// lock-free fast paths — this package favors clarity and testability over
// peak throughput, and its semantics (timed waits, drain barrier) want a
// lock anyway. Go's race detector sees every synchronization edge.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// [code.hybscloud.com/atomix] for atomic primitives in the system clock
// and the occupancy mirror. [code.hybscloud.com/spin] paces the stress
// and benchmark tests.
package msgq

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a no-wait operation cannot proceed immediately.
//
// For Send with timeout NoWait: the queue is full (backpressure)
// For Receive with timeout NoWait: the queue is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The queue's state
// is unchanged and the caller may retry.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Send(payload, msgq.NoWait, 0)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if msgq.IsWouldBlock(err) {
//	        backoff.Wait()  // Adaptive backpressure
//	        continue
//	    }
//	    return err  // Invalidation or other failure
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrTimeout indicates a timed Send or Receive expired before its predicate
// (room to send, message available) became true. The predicate is checked
// once more at the deadline before this error is reported, so a message (or
// a free slot) that appears exactly at the deadline is still taken.
//
// The queue's state is unchanged: nothing was enqueued or dequeued.
var ErrTimeout = errors.New("msgq: wait timed out")

// ErrInvalidated indicates the queue was closed, either before the call or
// while the caller was blocked inside it. It is observably distinct from
// ErrTimeout: waiters released by Close fail with ErrInvalidated even when
// their deadline has not passed.
//
// The failed call itself changed nothing; any messages still queued when
// Close ran have been discarded.
var ErrInvalidated = errors.New("msgq: queue invalidated")

// ErrBadCapacity indicates a queue was constructed with a non-positive
// maximum message count.
var ErrBadCapacity = errors.New("msgq: max message count must be positive")

// ErrBadLength indicates a queue was constructed with a non-positive
// maximum message length.
var ErrBadLength = errors.New("msgq: max message length must be positive")

// ErrBadRate indicates a tick rate that is not a positive number of ticks
// per second.
var ErrBadRate = errors.New("msgq: tick rate must be positive")

// IsWouldBlock reports whether err indicates a no-wait operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsTimeout reports whether err indicates a timed wait expired.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsInvalidated reports whether err indicates the queue was closed.
func IsInvalidated(err error) bool {
	return errors.Is(err, ErrInvalidated)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock; timeouts and invalidation are
// failures. Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

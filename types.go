// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

// Discipline is the message ordering policy of a queue, fixed at creation.
type Discipline uint8

const (
	// FIFO delivers messages in strict arrival order. Priority arguments
	// passed to Send are ignored.
	FIFO Discipline = iota

	// Priority delivers messages in descending priority order (higher
	// numeric value first). Messages of equal priority keep their arrival
	// order.
	Priority
)

// String returns the discipline name.
func (d Discipline) String() string {
	switch d {
	case FIFO:
		return "FIFO"
	case Priority:
		return "Priority"
	default:
		return "Unknown"
	}
}

// NumPriorities is the number of discrete priority levels in Priority mode.
// Send priorities are clamped to [0, NumPriorities-1].
const NumPriorities = 256

// Sender is the interface for enqueueing messages.
//
// The payload is copied into the queue's internal storage; the caller may
// reuse p after Send returns. Payloads longer than the queue's maximum
// message length are silently truncated to that length, not rejected.
type Sender interface {
	// Send copies p into the queue, blocking per the timeout policy while
	// the queue is full. prio orders delivery in Priority mode and is
	// ignored in FIFO mode.
	//
	// Returns nil on success, ErrWouldBlock (timeout == NoWait and full),
	// ErrTimeout (timed wait expired), or ErrInvalidated (queue closed).
	// On any failure nothing was enqueued.
	Send(p []byte, timeout Ticks, prio int) error
}

// Receiver is the interface for dequeueing messages.
//
// The message's bytes are copied into the caller's buffer; the queue's
// internal copy is released. The stored length is returned in full even
// when the buffer is shorter, so truncation is observable.
type Receiver interface {
	// Receive removes the oldest-by-discipline message, blocking per the
	// timeout policy while the queue is empty. It copies
	// min(storedLen, len(buf)) bytes into buf and returns the stored
	// length; bytes beyond len(buf) are dropped.
	//
	// Returns ErrWouldBlock (timeout == NoWait and empty), ErrTimeout, or
	// ErrInvalidated. On any failure nothing was dequeued.
	Receive(buf []byte, timeout Ticks) (int, error)
}

// MessageQueue is the combined interface for a bounded message queue.
// *Queue implements it.
type MessageQueue interface {
	Sender
	Receiver

	// Len returns the current number of queued messages.
	Len() int
	// Cap returns the maximum number of queued messages.
	Cap() int
	// MaxMsgLen returns the maximum stored length of one message.
	MaxMsgLen() int
	// Ordering returns the queue's delivery discipline.
	Ordering() Discipline
	// Close invalidates the queue, releasing all blocked senders and
	// receivers with ErrInvalidated and discarding queued messages.
	Close() error
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

import "sync"

// Options configures queue creation.
type Options struct {
	maxMsgs int
	maxLen  int
	ord     Discipline
	clk     Clock
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// FIFO queue (default discipline)
//	q, err := msgq.New(64, 128).Build()
//
//	// Priority queue with an injected clock
//	q, err := msgq.New(64, 128).Priority().Clock(clk).Build()
type Builder struct {
	opts Options
}

// New creates a queue builder for maxMsgs messages of up to maxMsgLen
// bytes each. Both bounds are validated by Build; the default discipline
// is FIFO and the default clock is the package SysClock.
func New(maxMsgs, maxMsgLen int) *Builder {
	return &Builder{opts: Options{maxMsgs: maxMsgs, maxLen: maxMsgLen}}
}

// FIFO selects strict arrival-order delivery (the default).
func (b *Builder) FIFO() *Builder {
	b.opts.ord = FIFO
	return b
}

// Priority selects descending-priority delivery with stable arrival-order
// ties. Storage switches from the FIFO ring to per-level sub-queues over a
// preallocated node pool.
func (b *Builder) Priority() *Builder {
	b.opts.ord = Priority
	return b
}

// Clock injects the tick source used to convert timed waits into
// deadlines. By default queues use DefaultClock.
func (b *Builder) Clock(c Clock) *Builder {
	b.opts.clk = c
	return b
}

// Build allocates the queue and all of its message storage. It fails with
// ErrBadCapacity or ErrBadLength when a bound is not positive; no storage
// grows after a successful Build.
func (b *Builder) Build() (*Queue, error) {
	if b.opts.maxMsgs < 1 {
		return nil, ErrBadCapacity
	}
	if b.opts.maxLen < 1 {
		return nil, ErrBadLength
	}
	clk := b.opts.clk
	if clk == nil {
		clk = sysClock
	}
	var st store
	if b.opts.ord == Priority {
		st = newBucketStore(b.opts.maxMsgs, b.opts.maxLen)
	} else {
		st = newRingStore(b.opts.maxMsgs, b.opts.maxLen)
	}
	q := &Queue{
		st:     st,
		clk:    clk,
		maxCap: b.opts.maxMsgs,
		maxLen: b.opts.maxLen,
		ord:    b.opts.ord,
		valid:  true,
	}
	q.canSend = sync.NewCond(&q.mu)
	q.canRecv = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q, nil
}

// NewFIFO creates a FIFO queue for maxMsgs messages of up to maxMsgLen
// bytes each.
func NewFIFO(maxMsgs, maxMsgLen int) (*Queue, error) {
	return New(maxMsgs, maxMsgLen).Build()
}

// NewPriority creates a priority queue for maxMsgs messages of up to
// maxMsgLen bytes each.
func NewPriority(maxMsgs, maxMsgLen int) (*Queue, error) {
	return New(maxMsgs, maxMsgLen).Priority().Build()
}

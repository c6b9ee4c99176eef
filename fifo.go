// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

// store is the storage strategy bound to a queue at creation. All methods
// run under the queue's monitor lock; occupancy accounting in Queue
// guarantees put is never called on full storage and take never on empty.
type store interface {
	// put copies min(len(p), maxMsgLen) bytes into storage under the
	// given priority level (already clamped; ignored by FIFO storage).
	put(p []byte, prio int)

	// take removes the oldest-by-discipline message, copies up to
	// len(buf) of its bytes into buf, and returns the stored length.
	take(buf []byte) int

	// reset discards all stored messages and reclaims their storage.
	reset()
}

// ringStore is the FIFO storage strategy: a fixed ring of capacity slots,
// each maxLen bytes, over one contiguous arena. Send writes the tail slot,
// receive reads the head slot, both advance modulo capacity. No allocation
// after construction.
type ringStore struct {
	arena  []byte // capacity × maxLen payload bytes
	sizes  []int  // stored length per slot
	maxLen int
	head   int
	tail   int
}

func newRingStore(capacity, maxLen int) *ringStore {
	return &ringStore{
		arena:  make([]byte, capacity*maxLen),
		sizes:  make([]int, capacity),
		maxLen: maxLen,
	}
}

func (s *ringStore) slot(i int) []byte {
	return s.arena[i*s.maxLen : (i+1)*s.maxLen]
}

func (s *ringStore) put(p []byte, _ int) {
	n := copy(s.slot(s.tail), p)
	s.sizes[s.tail] = n
	s.tail++
	if s.tail == len(s.sizes) {
		s.tail = 0
	}
}

func (s *ringStore) take(buf []byte) int {
	n := s.sizes[s.head]
	copy(buf, s.slot(s.head)[:n])
	s.head++
	if s.head == len(s.sizes) {
		s.head = 0
	}
	return n
}

func (s *ringStore) reset() {
	s.head, s.tail = 0, 0
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgq

import "code.hybscloud.com/msgq/internal/arena"

// bucketStore is the Priority storage strategy: one sub-queue per discrete
// priority level, each an index-linked list with head/tail for O(1) append
// and O(1) pop. Node handles come from a fixed arena.Pool of exactly
// capacity slots and payloads live in one contiguous byte arena, so
// steady-state operation performs no allocation.
//
// take scans levels from highest to lowest and pops the first non-empty
// bucket's head. The scan is O(NumPriorities) worst case; with 256 fixed
// levels this stays bounded and avoids the bookkeeping of a non-empty-level
// bitmask or heap. Within a level, arrival order is preserved.
type bucketStore struct {
	pool    *arena.Pool
	bytes   []byte    // capacity × maxLen payload bytes, node i at [i*maxLen:]
	nodes   []msgNode // parallel to pool slots
	buckets [NumPriorities]bucketList
	maxLen  int
}

type msgNode struct {
	next arena.Handle
	size int
}

type bucketList struct {
	head arena.Handle
	tail arena.Handle
}

func newBucketStore(capacity, maxLen int) *bucketStore {
	s := &bucketStore{
		pool:   arena.NewPool(capacity),
		bytes:  make([]byte, capacity*maxLen),
		nodes:  make([]msgNode, capacity),
		maxLen: maxLen,
	}
	s.clearBuckets()
	return s
}

func (s *bucketStore) clearBuckets() {
	for i := range s.buckets {
		s.buckets[i] = bucketList{head: arena.Nil, tail: arena.Nil}
	}
}

func (s *bucketStore) payload(i int) []byte {
	return s.bytes[i*s.maxLen : (i+1)*s.maxLen]
}

func (s *bucketStore) put(p []byte, prio int) {
	h, ok := s.pool.Alloc()
	if !ok {
		// Occupancy accounting in Queue admits at most capacity
		// messages, one node each.
		panic("msgq: priority node pool exhausted")
	}
	i, _ := s.pool.Index(h)
	n := copy(s.payload(i), p)
	s.nodes[i] = msgNode{next: arena.Nil, size: n}

	b := &s.buckets[prio]
	if b.tail == arena.Nil {
		b.head, b.tail = h, h
	} else {
		t, _ := s.pool.Index(b.tail)
		s.nodes[t].next = h
		b.tail = h
	}
}

func (s *bucketStore) take(buf []byte) int {
	for p := NumPriorities - 1; p >= 0; p-- {
		b := &s.buckets[p]
		if b.head == arena.Nil {
			continue
		}
		h := b.head
		i, _ := s.pool.Index(h)
		node := s.nodes[i]
		b.head = node.next
		if b.head == arena.Nil {
			b.tail = arena.Nil
		}
		copy(buf, s.payload(i)[:node.size])
		if err := s.pool.Free(h); err != nil {
			panic("msgq: priority node double free")
		}
		return node.size
	}
	panic("msgq: take on empty priority storage")
}

func (s *bucketStore) reset() {
	s.pool.Reset()
	s.clearBuckets()
}

// clampPrio pins a send priority into [0, NumPriorities-1].
func clampPrio(p int) int {
	if p < 0 {
		return 0
	}
	if p > NumPriorities-1 {
		return NumPriorities - 1
	}
	return p
}

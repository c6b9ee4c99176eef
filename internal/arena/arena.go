// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arena provides a fixed-capacity index pool with generation-tagged
// handles.
//
// A Pool hands out slot indices from a preallocated free list in O(1) and
// takes them back in O(1), with no allocation after construction. Handles
// carry a per-slot generation counter: freeing a slot bumps its generation,
// so a handle kept past its Free is detected as stale instead of silently
// aliasing the slot's next occupant.
package arena

import "errors"

// ErrStaleHandle indicates a handle whose slot has been freed (the
// generation no longer matches) or that never came from the pool.
var ErrStaleHandle = errors.New("arena: stale or invalid handle")

const nilIdx = ^uint32(0)

// Handle identifies one allocated slot: the slot index in the low 32 bits
// and the slot's generation at allocation time in the high 32 bits.
type Handle uint64

// Nil is the zero slot reference. It never validates.
const Nil = Handle(nilIdx)

func makeHandle(idx, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx))
}

// Split returns the handle's slot index and generation without
// validating it against any pool.
func (h Handle) Split() (idx, gen uint32) {
	return uint32(h), uint32(h >> 32)
}

// Pool is a fixed-capacity slot allocator. Not safe for concurrent use;
// callers serialize access externally.
type Pool struct {
	gens     []uint32 // current generation per slot
	next     []uint32 // free-list links
	freeHead uint32
	free     int
}

// NewPool creates a pool of n slots, all free. Panics if n < 1.
func NewPool(n int) *Pool {
	if n < 1 {
		panic("arena: pool size must be >= 1")
	}
	p := &Pool{
		gens: make([]uint32, n),
		next: make([]uint32, n),
		free: n,
	}
	p.link()
	return p
}

// link threads every slot onto the free list in index order.
func (p *Pool) link() {
	for i := range p.next {
		p.next[i] = uint32(i + 1)
	}
	p.next[len(p.next)-1] = nilIdx
	p.freeHead = 0
}

// Alloc takes a slot from the free list. Returns (Nil, false) when the
// pool is exhausted.
func (p *Pool) Alloc() (Handle, bool) {
	if p.freeHead == nilIdx {
		return Nil, false
	}
	i := p.freeHead
	p.freeHead = p.next[i]
	p.free--
	return makeHandle(i, p.gens[i]), true
}

// Free returns a slot to the free list and bumps its generation, so the
// freed handle (and any copy of it) goes stale. Double frees and forged
// handles return ErrStaleHandle and leave the pool unchanged.
func (p *Pool) Free(h Handle) error {
	i, g := h.Split()
	if int(i) >= len(p.gens) || p.gens[i] != g {
		return ErrStaleHandle
	}
	p.gens[i]++
	p.next[i] = p.freeHead
	p.freeHead = i
	p.free++
	return nil
}

// Index returns the slot index for a live handle, or false if the handle
// is stale.
func (p *Pool) Index(h Handle) (int, bool) {
	i, g := h.Split()
	if int(i) >= len(p.gens) || p.gens[i] != g {
		return 0, false
	}
	return int(i), true
}

// Reset frees every slot, bumping every generation so all outstanding
// handles go stale.
func (p *Pool) Reset() {
	for i := range p.gens {
		p.gens[i]++
	}
	p.link()
	p.free = len(p.gens)
}

// Cap returns the total number of slots.
func (p *Pool) Cap() int {
	return len(p.gens)
}

// Avail returns the number of free slots.
func (p *Pool) Avail() int {
	return p.free
}

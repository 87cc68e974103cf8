// Package buffer stores decoded frames of one playback session.
//
// The buffer is sparse and append-only: a slot, once populated, is neither
// overwritten nor evicted until the session ends. It is not safe for
// concurrent use; the playback session serializes access.
package buffer

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/simplay-cli/simplay/frame"
)

// Buffer maps frame numbers in [0, total) to frames.
type Buffer struct {
	total  int
	frames map[int]frame.Frame
}

// New returns an empty buffer for a simulation of total frames.
// A total of zero means the size is not known yet; see SetTotal.
func New(total int) *Buffer {
	return &Buffer{
		total:  lo.Max([]int{total, 0}),
		frames: make(map[int]frame.Frame),
	}
}

// SetTotal fixes the frame count once it becomes known. Frames stored
// beforehand that fall outside the new range are dropped.
func (b *Buffer) SetTotal(total int) {
	if total <= 0 {
		return
	}
	b.total = total
	for n := range b.frames {
		if n >= total {
			delete(b.frames, n)
		}
	}
}

// Total returns the frame count of the simulation, or 0 if unknown.
func (b *Buffer) Total() int {
	return b.total
}

// Put stores f unless its slot is already populated or out of range.
// It reports whether the frame was stored.
func (b *Buffer) Put(f frame.Frame) bool {
	if f.Number < 0 || (b.total > 0 && f.Number >= b.total) {
		return false
	}
	if _, ok := b.frames[f.Number]; ok {
		return false
	}
	b.frames[f.Number] = f
	return true
}

// Get returns the frame at n, if loaded.
func (b *Buffer) Get(n int) mo.Option[frame.Frame] {
	f, ok := b.frames[n]
	if !ok {
		return mo.None[frame.Frame]()
	}
	return mo.Some(f)
}

// Has reports whether the frame at n is loaded.
func (b *Buffer) Has(n int) bool {
	_, ok := b.frames[n]
	return ok
}

// CoverageCount returns the number of populated slots in [from, from+count).
func (b *Buffer) CoverageCount(from, count int) int {
	if count <= 0 {
		return 0
	}
	if count > len(b.frames) {
		covered := 0
		for n := range b.frames {
			if n >= from && n < from+count {
				covered++
			}
		}
		return covered
	}
	return lo.CountBy(lo.RangeFrom(from, count), b.Has)
}

// Len returns the number of loaded frames.
func (b *Buffer) Len() int {
	return len(b.frames)
}

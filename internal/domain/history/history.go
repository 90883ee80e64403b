// Package history records which golfers have already shared a group.
//
// Golfers are addressed by roster index. The history only grows: a pair, once
// recorded, stays recorded for the rest of the run.
package history

import (
	"fmt"
	"sort"
)

// Pair is an unordered golfer pair, normalised so A < B.
type Pair struct {
	A int
	B int
}

// NewPair normalises a and b into a Pair.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) String() string { return fmt.Sprintf("(%d,%d)", p.A, p.B) }

// Reader is the read side of a pair history, the only view assignment
// attempts get.
type Reader interface {
	HasMet(a, b int) bool
	CountSharedGroups(group []int) int
}

type meeting struct {
	first int // day the pair first shared a group
	last  int // most recent day, used to keep Commit idempotent
	count int // distinct days the pair shared a group
}

// History is the mutable pair record owned by a scheduler. It is not safe for
// concurrent writes; concurrent readers should work on a Snapshot.
type History struct {
	size     int
	meetings map[Pair]*meeting
}

// New creates an empty history for a roster of size golfers.
func New(size int) *History {
	return &History{
		size:     size,
		meetings: make(map[Pair]*meeting),
	}
}

// HasMet reports whether a and b have shared a group on a committed day.
func (h *History) HasMet(a, b int) bool {
	if a == b {
		return false
	}
	_, ok := h.meetings[NewPair(a, b)]
	return ok
}

// CountSharedGroups returns how many pairs inside group are already recorded.
func (h *History) CountSharedGroups(group []int) int {
	return countShared(h, group)
}

// Commit records every pair of group as having met on day. Committing the
// same group again is a no-op.
func (h *History) Commit(day int, group []int) {
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if group[i] == group[j] {
				continue
			}
			p := NewPair(group[i], group[j])
			m, ok := h.meetings[p]
			if !ok {
				h.meetings[p] = &meeting{first: day, last: day, count: 1}
				continue
			}
			if day > m.last {
				m.last = day
				m.count++
			}
		}
	}
}

// FirstMet returns the day a and b first shared a group.
func (h *History) FirstMet(a, b int) (int, bool) {
	m, ok := h.meetings[NewPair(a, b)]
	if !ok {
		return 0, false
	}
	return m.first, true
}

// Meetings returns the number of distinct days a and b shared a group.
func (h *History) Meetings(a, b int) int {
	m, ok := h.meetings[NewPair(a, b)]
	if !ok {
		return 0
	}
	return m.count
}

// Len returns the number of distinct pairs recorded.
func (h *History) Len() int { return len(h.meetings) }

// Size returns the roster size the history was built for.
func (h *History) Size() int { return h.size }

// Pairs returns every recorded pair ordered by (A, B).
func (h *History) Pairs() []Pair {
	out := make([]Pair, 0, len(h.meetings))
	for p := range h.meetings {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Redundant returns the total number of repeated meetings: for every pair,
// the days it met beyond the first.
func (h *History) Redundant() int {
	total := 0
	for _, m := range h.meetings {
		total += m.count - 1
	}
	return total
}

// Snapshot returns an immutable dense copy of the pair set, safe to share
// between concurrent readers.
func (h *History) Snapshot() *Snapshot {
	s := &Snapshot{size: h.size, met: make([]bool, h.size*h.size)}
	for p := range h.meetings {
		if p.A >= h.size || p.B >= h.size {
			continue
		}
		s.met[p.A*h.size+p.B] = true
		s.met[p.B*h.size+p.A] = true
	}
	return s
}

// Snapshot is a frozen adjacency matrix of the history at one point in time.
type Snapshot struct {
	size int
	met  []bool
}

// HasMet reports whether a and b had met when the snapshot was taken.
func (s *Snapshot) HasMet(a, b int) bool {
	if a == b || a < 0 || b < 0 || a >= s.size || b >= s.size {
		return false
	}
	return s.met[a*s.size+b]
}

// CountSharedGroups returns how many pairs inside group had already met.
func (s *Snapshot) CountSharedGroups(group []int) int {
	return countShared(s, group)
}

func countShared(r interface{ HasMet(a, b int) bool }, group []int) int {
	n := 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if r.HasMet(group[i], group[j]) {
				n++
			}
		}
	}
	return n
}

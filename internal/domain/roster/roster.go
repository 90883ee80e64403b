// Package roster holds the fixed set of golfers and the day/group layout a
// scheduling run works against.
//
// A Roster is immutable once New returns. Golfers are addressed internally by
// their index in roster order; the string ids are only needed at the edges.
package roster

import (
	"strconv"
	"strings"
)

// MaxNumberedGolfers caps the roster Numbered will build.
const MaxNumberedGolfers = 1 << 20

// Roster is the validated, immutable input of a scheduling run.
type Roster struct {
	golfers   []string
	index     map[string]int
	groupSize int
	days      int
	sizing    Sizing
	sizes     []int
}

// New validates the golfer list and layout and returns a Roster.
// Golfer ids are trimmed; empty and duplicate ids are rejected.
func New(golfers []string, groupSize, days int, opts ...Option) (*Roster, error) {
	r := &Roster{
		groupSize: groupSize,
		days:      days,
		sizing:    Balanced,
	}
	for _, opt := range opts {
		opt(r)
	}

	if len(golfers) == 0 {
		return nil, configErr("golfers", "at least one golfer is required")
	}
	if groupSize <= 0 {
		return nil, configErr("group_size", "must be positive, got %d", groupSize)
	}
	if groupSize > len(golfers) {
		return nil, configErr("group_size", "%d exceeds golfer count %d", groupSize, len(golfers))
	}
	if days <= 0 {
		return nil, configErr("days", "must be positive, got %d", days)
	}
	if r.sizing == Strict && len(golfers)%groupSize != 0 {
		return nil, configErr("group_size", "%d golfers cannot be split into groups of %d", len(golfers), groupSize)
	}

	r.golfers = make([]string, len(golfers))
	r.index = make(map[string]int, len(golfers))
	for i, g := range golfers {
		id := strings.TrimSpace(g)
		if id == "" {
			return nil, configErr("golfers", "golfer at position %d has an empty id", i)
		}
		if prev, dup := r.index[id]; dup {
			return nil, configErr("golfers", "duplicate golfer %q at positions %d and %d", id, prev, i)
		}
		r.golfers[i] = id
		r.index[id] = i
	}

	r.sizes = balancedSizes(len(golfers), groupSize)
	return r, nil
}

// Numbered builds the roster shape of a classic instance file: groups*groupSize
// golfers named "0", "1", ... playing for the given number of days.
func Numbered(groups, groupSize, days int) (*Roster, error) {
	if groups <= 0 {
		return nil, configErr("groups", "must be positive, got %d", groups)
	}
	if groupSize <= 0 {
		return nil, configErr("group_size", "must be positive, got %d", groupSize)
	}
	if groups > MaxNumberedGolfers/groupSize {
		return nil, configErr("groups", "%d groups of %d exceeds the limit of %d golfers", groups, groupSize, MaxNumberedGolfers)
	}
	ids := make([]string, groups*groupSize)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return New(ids, groupSize, days, WithStrictSizing())
}

// balancedSizes splits n golfers into ceil(n/size) groups whose sizes differ by
// at most one, larger groups first.
func balancedSizes(n, size int) []int {
	count := (n + size - 1) / size
	base, extra := n/count, n%count
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

// Golfers returns a copy of the golfer ids in roster order.
func (r *Roster) Golfers() []string {
	out := make([]string, len(r.golfers))
	copy(out, r.golfers)
	return out
}

// Len returns the number of golfers.
func (r *Roster) Len() int { return len(r.golfers) }

// GroupSize returns the configured target group size.
func (r *Roster) GroupSize() int { return r.groupSize }

// GroupCount returns the number of groups played each day.
func (r *Roster) GroupCount() int { return len(r.sizes) }

// GroupSizes returns the capacity of every group, in group order.
func (r *Roster) GroupSizes() []int {
	out := make([]int, len(r.sizes))
	copy(out, r.sizes)
	return out
}

// Days returns the number of days to schedule.
func (r *Roster) Days() int { return r.days }

// Sizing returns the sizing policy the roster was built with.
func (r *Roster) Sizing() Sizing { return r.sizing }

// Uneven reports whether group sizes differ within a day.
func (r *Roster) Uneven() bool { return len(r.golfers)%len(r.sizes) != 0 }

// Index returns the roster position of a golfer id.
func (r *Roster) Index(id string) (int, bool) {
	i, ok := r.index[strings.TrimSpace(id)]
	return i, ok
}

// ID returns the golfer id at roster position i.
func (r *Roster) ID(i int) string { return r.golfers[i] }

// IDs maps roster positions to golfer ids.
func (r *Roster) IDs(members []int) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = r.golfers[m]
	}
	return out
}

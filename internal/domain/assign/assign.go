// Package assign partitions a roster into the groups of a single day while
// avoiding pairs that have already played together.
//
// An attempt is a seeded shuffle, a greedy fill and a bounded pairwise-swap
// repair. Attempts never fail; they return the partition together with its
// repeat-pair cost and leave it to the caller to decide whether that is good
// enough.
package assign

import (
	"math/rand"
	"sort"

	"github.com/okian/teesheet/internal/domain/history"
	"github.com/okian/teesheet/internal/domain/roster"
)

// Default assigner configuration constants.
const (
	defaultSwapPasses = 50
)

// Candidate is one proposed partition of the roster for a day.
type Candidate struct {
	// Groups holds roster indexes; members are sorted, groups are ordered by
	// their first member.
	Groups [][]int
	// Cost is the number of pairs inside Groups that had already met.
	Cost int
	// Seed reproduces the attempt.
	Seed int64
}

// Perfect reports whether the candidate repeats no pairing.
func (c Candidate) Perfect() bool { return c.Cost == 0 }

// Assigner builds candidate days. It holds no per-run state and is safe for
// concurrent use.
type Assigner struct {
	swapPasses int
}

// New creates an Assigner with configuration options.
func New(opts ...Option) *Assigner {
	a := &Assigner{
		swapPasses: defaultSwapPasses,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SwapPasses returns the configured repair budget.
func (a *Assigner) SwapPasses() int { return a.swapPasses }

// Assign runs one attempt. The result depends only on the roster, the history
// contents and seed.
func (a *Assigner) Assign(r *roster.Roster, h history.Reader, seed int64) Candidate {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible schedules need a seeded source
	sizes := r.GroupSizes()
	groups := greedyFill(rng.Perm(r.Len()), sizes, h)
	a.repair(groups, h)

	for _, g := range groups {
		sort.Ints(g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	return Candidate{
		Groups: groups,
		Cost:   Cost(groups, h),
		Seed:   seed,
	}
}

// Cost sums the repeat-pair count of every group.
func Cost(groups [][]int, h history.Reader) int {
	total := 0
	for _, g := range groups {
		total += h.CountSharedGroups(g)
	}
	return total
}

// greedyFill places golfers one at a time into the open group where they
// have met the fewest members; ties go to the emptier group, then the lower
// index.
func greedyFill(order, sizes []int, h history.Reader) [][]int {
	groups := make([][]int, len(sizes))
	for i, size := range sizes {
		groups[i] = make([]int, 0, size)
	}

	for _, golfer := range order {
		best, bestCost, bestLen := -1, 0, 0
		for gi, members := range groups {
			if len(members) >= sizes[gi] {
				continue
			}
			c := metWith(h, golfer, members, -1)
			if best == -1 || c < bestCost || (c == bestCost && len(members) < bestLen) {
				best, bestCost, bestLen = gi, c, len(members)
			}
		}
		groups[best] = append(groups[best], golfer)
	}
	return groups
}

// repair applies strictly improving swaps between golfers of different groups
// until a full pass finds none or the pass budget runs out.
func (a *Assigner) repair(groups [][]int, h history.Reader) {
	for pass := 0; pass < a.swapPasses; pass++ {
		improved := false
		for gi := 0; gi < len(groups); gi++ {
			for gj := gi + 1; gj < len(groups); gj++ {
				if swapImproving(groups[gi], groups[gj], h) {
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

// swapImproving scans every cross pair of g1 and g2 and applies each swap that
// lowers the combined cost. Reports whether anything changed.
func swapImproving(g1, g2 []int, h history.Reader) bool {
	changed := false
	for p := range g1 {
		for q := range g2 {
			x, y := g1[p], g2[q]
			before := metWith(h, x, g1, p) + metWith(h, y, g2, q)
			after := metWith(h, y, g1, p) + metWith(h, x, g2, q)
			if after < before {
				g1[p], g2[q] = y, x
				changed = true
			}
		}
	}
	return changed
}

// metWith counts the members of group, skipping position skip, that golfer
// has already met.
func metWith(h history.Reader, golfer int, group []int, skip int) int {
	n := 0
	for i, m := range group {
		if i == skip || m == golfer {
			continue
		}
		if h.HasMet(golfer, m) {
			n++
		}
	}
	return n
}

// DeriveSeed mixes a run seed with a day and attempt number so every attempt
// gets an independent, reproducible stream regardless of execution order.
func DeriveSeed(base int64, day, attempt int) int64 {
	z := uint64(base) + uint64(day)*0x9E3779B97F4A7C15 + uint64(attempt)*0xBF58476D1CE4E5B9
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z)
}

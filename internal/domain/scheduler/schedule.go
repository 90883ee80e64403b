package scheduler

// State is the lifecycle position of a Scheduler.
type State int

// Scheduler states. A run moves Pending -> Scheduling and ends in Complete,
// PartialFailure or, when its context is cancelled, Aborted.
const (
	Pending State = iota
	Scheduling
	Complete
	PartialFailure
	Aborted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Scheduling:
		return "scheduling"
	case Complete:
		return "complete"
	case PartialFailure:
		return "partial_failure"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Pair names two golfers by id.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Conflict reports a pair that had to play together again.
type Conflict struct {
	// Day is the day the repeat happened.
	Day int `json:"day"`
	// Pair is the repeated pairing.
	Pair Pair `json:"pair"`
	// PriorDay is the day the pair first played together.
	PriorDay int `json:"prior_day"`
}

// Day is one committed partition of the roster.
type Day struct {
	Number   int        `json:"day"`
	Groups   [][]string `json:"groups"`
	Cost     int        `json:"cost"`
	Attempts int        `json:"attempts"`
	Seed     int64      `json:"seed"`
}

func (d Day) clone() Day {
	out := d
	out.Groups = make([][]string, len(d.Groups))
	for i, g := range d.Groups {
		out.Groups[i] = append([]string(nil), g...)
	}
	return out
}

// Schedule is the ordered list of committed days. Days cannot be changed once
// committed; accessors hand out copies.
type Schedule struct {
	days []Day
}

func (s *Schedule) commit(d Day) {
	s.days = append(s.days, d.clone())
}

// Len returns the number of committed days.
func (s *Schedule) Len() int { return len(s.days) }

// Day returns a copy of the i-th committed day (zero-based).
func (s *Schedule) Day(i int) Day { return s.days[i].clone() }

// Days returns copies of all committed days in order.
func (s *Schedule) Days() []Day {
	out := make([]Day, len(s.days))
	for i, d := range s.days {
		out[i] = d.clone()
	}
	return out
}

// Objective returns the total number of repeated pairings across the
// schedule; zero means every pair met at most once.
func (s *Schedule) Objective() int {
	total := 0
	for _, d := range s.days {
		total += d.Cost
	}
	return total
}

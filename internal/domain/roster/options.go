package roster

// Sizing decides what happens when the golfer count is not a multiple of the
// group size.
type Sizing int

const (
	// Balanced spreads the remainder so group sizes differ by at most one.
	Balanced Sizing = iota
	// Strict rejects rosters that cannot be split into equal groups.
	Strict
)

func (s Sizing) String() string {
	if s == Strict {
		return "strict"
	}
	return "balanced"
}

// Option applies a configuration option to a Roster under construction.
type Option func(*Roster)

// WithStrictSizing makes New fail with a ConfigError on uneven rosters.
func WithStrictSizing() Option {
	return func(r *Roster) {
		r.sizing = Strict
	}
}

// WithSizing sets the sizing policy explicitly.
func WithSizing(s Sizing) Option {
	return func(r *Roster) {
		r.sizing = s
	}
}

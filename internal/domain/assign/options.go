package assign

// Option applies a configuration option to the Assigner.
type Option func(*Assigner)

// WithSwapPasses bounds the number of pairwise-swap improvement passes per
// attempt. Zero disables the repair phase.
func WithSwapPasses(passes int) Option {
	return func(a *Assigner) {
		if passes >= 0 {
			a.swapPasses = passes
		}
	}
}

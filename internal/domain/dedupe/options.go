package dedupe

// Option applies a configuration option to the in-memory Index.
type Option func(*inMemoryIndex)

// WithMaxSize sets the maximum number of request ids to remember.
// If maxSize > 0: bounded, the oldest binding is evicted first.
// If maxSize <= 0: unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryIndex) {
		d.maxSize = maxSize
	}
}

package walker

import "github.com/s0up4200/plexwalk/plex"

const (
	// DefaultConcurrency fetches one node at a time.
	DefaultConcurrency = 1
	// DefaultSeparator joins a parent key and a child key.
	DefaultSeparator = "/"
)

// Visitor is called once for every section fetched successfully, in frontier
// order, after the level containing it has finished.
type Visitor func(key string, section *plex.LibrarySection)

// Option configures a Walker.
type Option func(*Walker)

// WithConcurrency sets how many fetches of one level may run at the same time.
func WithConcurrency(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithSeparator sets the string placed between a parent key and a child key.
func WithSeparator(sep string) Option {
	return func(w *Walker) {
		w.separator = sep
	}
}

// WithVisitor registers a callback for every fetched section.
func WithVisitor(v Visitor) Option {
	return func(w *Walker) {
		w.visit = v
	}
}

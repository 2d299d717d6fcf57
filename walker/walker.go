// Package walker traverses the library directory tree of a Plex server
// breadth-first, one level at a time.
//
// Each node is addressed by a compound key: a root uses its own key and a
// child joins its parent's key and its own with the separator ("1", "1/all",
// "1/all/12"). A failed fetch is counted and recorded but never stops the
// walk; the failed node simply contributes no children.
package walker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/plexwalk/plex"
)

// SectionFetcher fetches one node of the directory tree.
type SectionFetcher interface {
	LibrarySection(ctx context.Context, key string) (*plex.LibrarySection, error)
}

// Entry is a node waiting to be fetched.
type Entry struct {
	Prefix    string
	Directory plex.Directory
}

// Key returns the compound key of the entry.
func (e Entry) Key(sep string) string {
	if e.Prefix == "" {
		return e.Directory.Key()
	}
	return e.Prefix + sep + e.Directory.Key()
}

// NodeError records a node whose fetch failed.
type NodeError struct {
	Key string
	Err error
}

func (e NodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e NodeError) Unwrap() error {
	return e.Err
}

// Result summarises a walk.
type Result struct {
	// Levels is the number of fetch rounds performed.
	Levels int
	// Fetched is the number of fetch attempts, failed ones included.
	Fetched int
	// Errors is the number of failed fetches.
	Errors   int
	Failures []NodeError
	// Frontier holds the entries discovered by the last round, unfetched.
	Frontier []Entry
}

// Walker runs level-synchronous traversals.
type Walker struct {
	fetcher     SectionFetcher
	logger      zerolog.Logger
	concurrency int
	separator   string
	visit       Visitor
}

// New creates a Walker.
func New(fetcher SectionFetcher, logger zerolog.Logger, opts ...Option) *Walker {
	w := &Walker{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: DefaultConcurrency,
		separator:   DefaultSeparator,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Roots builds the initial frontier from top-level directories.
func Roots(dirs []plex.Directory) []Entry {
	entries := make([]Entry, 0, len(dirs))
	for _, d := range dirs {
		entries = append(entries, Entry{Directory: d})
	}
	return entries
}

// ErrNoSection is recorded for a node whose fetch returned neither a section
// nor an error.
var ErrNoSection = errors.New("fetcher returned no section")

type outcome struct {
	key     string
	section *plex.LibrarySection
	err     error
}

// Level fetches every entry of the frontier and returns the next frontier in
// the same order as a sequential walk would produce it, along with the nodes
// that failed.
func (w *Walker) Level(ctx context.Context, frontier []Entry) ([]Entry, []NodeError) {
	outcomes := make([]outcome, len(frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i, entry := range frontier {
		g.Go(func() error {
			key := entry.Key(w.separator)
			section, err := w.fetcher.LibrarySection(gctx, key)
			if err == nil && section == nil {
				err = ErrNoSection
			}
			// each task owns its slot
			outcomes[i] = outcome{key: key, section: section, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		next     []Entry
		failures []NodeError
	)
	for _, o := range outcomes {
		if o.err != nil {
			w.logger.Warn().
				Err(o.err).
				Str("key", o.key).
				Msg("Failed to fetch library section")
			failures = append(failures, NodeError{Key: o.key, Err: o.err})
			continue
		}

		if w.visit != nil {
			w.visit(o.key, o.section)
		}
		for _, d := range o.section.Directory {
			next = append(next, Entry{Prefix: o.key, Directory: d})
		}
	}

	return next, failures
}

// Walk performs up to levels fetch rounds starting from roots. Round one
// fetches the roots, each later round fetches the children discovered by the
// round before it. The walk ends early when a round discovers no children.
// A cancelled context ends the walk between rounds with the partial result
// and the context's error.
func (w *Walker) Walk(ctx context.Context, roots []plex.Directory, levels int) (*Result, error) {
	start := time.Now()
	result := &Result{}
	frontier := Roots(roots)

	for result.Levels < levels && len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			result.Frontier = frontier
			return result, err
		}

		next, failures := w.Level(ctx, frontier)
		result.Levels++
		result.Fetched += len(frontier)
		result.Errors += len(failures)
		result.Failures = append(result.Failures, failures...)

		w.logger.Debug().
			Int("level", result.Levels).
			Int("fetched", len(frontier)).
			Int("errors", len(failures)).
			Int("discovered", len(next)).
			Msg("Walked level")

		frontier = next
	}
	result.Frontier = frontier

	w.logger.Info().
		Int("levels", result.Levels).
		Int("fetched", result.Fetched).
		Int("errors", result.Errors).
		Int("frontier", len(result.Frontier)).
		Dur("elapsed", time.Since(start)).
		Msg("Walk complete")

	return result, nil
}

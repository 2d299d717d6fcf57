package walker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/plexwalk/plex"
)

var errBoom = errors.New("boom")

// fakeFetcher serves a tree keyed by compound key. Each node lists the
// relative keys of its children; keys absent from the tree fail.
type fakeFetcher struct {
	tree  map[string][]string
	fail  map[string]error
	mu    sync.Mutex
	calls []string
}

func newFakeFetcher(tree map[string][]string) *fakeFetcher {
	return &fakeFetcher{tree: tree, fail: map[string]error{}}
}

func (f *fakeFetcher) LibrarySection(ctx context.Context, key string) (*plex.LibrarySection, error) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	children, ok := f.tree[key]
	if !ok {
		return nil, &plex.StatusError{StatusCode: 404, URL: key}
	}

	section := &plex.LibrarySection{Title: key}
	for _, c := range children {
		section.Directory = append(section.Directory, folder(c))
	}
	return section, nil
}

func (f *fakeFetcher) sortedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

func folder(key string) plex.Directory {
	return plex.Directory{Kind: plex.DirectoryFolder, Folder: &plex.FolderDirectory{Key: key, Title: key}}
}

func roots(keys ...string) []plex.Directory {
	dirs := make([]plex.Directory, 0, len(keys))
	for _, k := range keys {
		dirs = append(dirs, folder(k))
	}
	return dirs
}

// twoByTwoByOne is two top sections, each with two children, each with one
// child that has no children of its own.
func twoByTwoByOne() map[string][]string {
	return map[string][]string{
		"1":         {"all", "genre"},
		"2":         {"all", "genre"},
		"1/all":     {"a"},
		"1/genre":   {"g"},
		"2/all":     {"a"},
		"2/genre":   {"g"},
		"1/all/a":   nil,
		"1/genre/g": nil,
		"2/all/a":   nil,
		"2/genre/g": nil,
	}
}

func frontierKeys(entries []Entry, sep string) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key(sep))
	}
	return keys
}

func TestEntryKey(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		sep   string
		want  string
	}{
		{name: "root", entry: Entry{Directory: folder("1")}, sep: "/", want: "1"},
		{name: "child", entry: Entry{Prefix: "1", Directory: folder("all")}, sep: "/", want: "1/all"},
		{name: "grandchild", entry: Entry{Prefix: "1/genre", Directory: folder("12")}, sep: "/", want: "1/genre/12"},
		{name: "custom separator", entry: Entry{Prefix: "1", Directory: folder("all")}, sep: "::", want: "1::all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Key(tt.sep))
		})
	}
}

func TestWalkThreeLevels(t *testing.T) {
	fetcher := newFakeFetcher(twoByTwoByOne())
	w := New(fetcher, zerolog.Nop())

	result, err := w.Walk(context.Background(), roots("1", "2"), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Levels)
	assert.Equal(t, 10, result.Fetched)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, result.Failures)
	assert.Empty(t, result.Frontier)
	assert.Len(t, fetcher.calls, 10)

	assert.Equal(t, []string{
		"1", "2",
		"1/all", "1/genre", "2/all", "2/genre",
		"1/all/a", "1/genre/g", "2/all/a", "2/genre/g",
	}, fetcher.calls)
}

func TestWalkLevelCount(t *testing.T) {
	tests := []struct {
		name         string
		levels       int
		wantLevels   int
		wantFetched  int
		wantFrontier []string
	}{
		{name: "zero", levels: 0, wantLevels: 0, wantFetched: 0, wantFrontier: []string{"1", "2"}},
		{name: "negative", levels: -1, wantLevels: 0, wantFetched: 0, wantFrontier: []string{"1", "2"}},
		{name: "one", levels: 1, wantLevels: 1, wantFetched: 2, wantFrontier: []string{"1/all", "1/genre", "2/all", "2/genre"}},
		{name: "two", levels: 2, wantLevels: 2, wantFetched: 6, wantFrontier: []string{"1/all/a", "1/genre/g", "2/all/a", "2/genre/g"}},
		{name: "stops when tree is exhausted", levels: 10, wantLevels: 3, wantFetched: 10, wantFrontier: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newFakeFetcher(twoByTwoByOne())
			w := New(fetcher, zerolog.Nop())

			result, err := w.Walk(context.Background(), roots("1", "2"), tt.levels)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevels, result.Levels)
			assert.Equal(t, tt.wantFetched, result.Fetched)
			assert.Len(t, fetcher.calls, tt.wantFetched)
			assert.Equal(t, tt.wantFrontier, frontierKeys(result.Frontier, DefaultSeparator))
		})
	}
}

func TestWalkCountsFailures(t *testing.T) {
	tree := twoByTwoByOne()
	delete(tree, "2/genre")

	fetcher := newFakeFetcher(tree)
	fetcher.fail["1/all"] = errBoom

	w := New(fetcher, zerolog.Nop())
	result, err := w.Walk(context.Background(), roots("1", "2"), 3)
	require.NoError(t, err)

	// 2 roots, 4 children, then only the two surviving grandchildren
	assert.Equal(t, 8, result.Fetched)
	assert.Equal(t, 2, result.Errors)
	require.Len(t, result.Failures, 2)

	assert.Equal(t, "1/all", result.Failures[0].Key)
	assert.ErrorIs(t, result.Failures[0], errBoom)

	assert.Equal(t, "2/genre", result.Failures[1].Key)
	var se *plex.StatusError
	assert.ErrorAs(t, result.Failures[1], &se)
	assert.Contains(t, result.Failures[1].Error(), "2/genre")

	assert.NotContains(t, fetcher.calls, "1/all/a")
	assert.NotContains(t, fetcher.calls, "2/genre/g")
}

func TestWalkAllRootsFail(t *testing.T) {
	fetcher := newFakeFetcher(map[string][]string{})
	w := New(fetcher, zerolog.Nop())

	result, err := w.Walk(context.Background(), roots("1", "2", "3"), 3)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Levels)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 3, result.Errors)
	assert.Empty(t, result.Frontier)
}

func TestWalkConcurrencyMatchesSequential(t *testing.T) {
	tree := map[string][]string{}
	var top []string
	for _, r := range []string{"1", "2", "3", "4", "5"} {
		top = append(top, r)
		tree[r] = []string{"all", "genre", "decade", "collection"}
		for _, c := range tree[r] {
			key := r + "/" + c
			tree[key] = []string{"x", "y", "z"}
			for _, g := range tree[key] {
				tree[key+"/"+g] = nil
			}
		}
	}
	// a few failures at different depths
	failures := map[string]error{"2": errBoom, "3/genre": errBoom, "4/all/y": errBoom}

	run := func(concurrency int) (*Result, *fakeFetcher) {
		fetcher := newFakeFetcher(tree)
		for k, v := range failures {
			fetcher.fail[k] = v
		}
		w := New(fetcher, zerolog.Nop(), WithConcurrency(concurrency))
		result, err := w.Walk(context.Background(), roots(top...), 2)
		require.NoError(t, err)
		return result, fetcher
	}

	sequential, seqFetcher := run(1)
	concurrent, conFetcher := run(8)

	assert.Equal(t, sequential.Levels, concurrent.Levels)
	assert.Equal(t, sequential.Fetched, concurrent.Fetched)
	assert.Equal(t, sequential.Errors, concurrent.Errors)
	assert.Equal(t, frontierKeys(sequential.Frontier, "/"), frontierKeys(concurrent.Frontier, "/"))
	assert.Equal(t, sequential.Failures, concurrent.Failures)
	assert.Equal(t, seqFetcher.sortedCalls(), conFetcher.sortedCalls())

	assert.Equal(t, 5+16, sequential.Fetched)
	assert.Equal(t, 2, sequential.Errors)
}

func TestWalkVisitorOrder(t *testing.T) {
	fetcher := newFakeFetcher(twoByTwoByOne())

	var visited []string
	w := New(fetcher, zerolog.Nop(),
		WithConcurrency(4),
		WithVisitor(func(key string, section *plex.LibrarySection) {
			assert.Equal(t, key, section.Title)
			visited = append(visited, key)
		}),
	)

	_, err := w.Walk(context.Background(), roots("1", "2"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "1/all", "1/genre", "2/all", "2/genre"}, visited)
}

func TestWalkSeparator(t *testing.T) {
	fetcher := newFakeFetcher(map[string][]string{
		"1":     {"all"},
		"1|all": nil,
	})
	w := New(fetcher, zerolog.Nop(), WithSeparator("|"))

	result, err := w.Walk(context.Background(), roots("1"), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, []string{"1", "1|all"}, fetcher.calls)
}

func TestWalkCancelled(t *testing.T) {
	t.Run("before the first level", func(t *testing.T) {
		fetcher := newFakeFetcher(twoByTwoByOne())
		w := New(fetcher, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := w.Walk(ctx, roots("1", "2"), 3)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, result.Levels)
		assert.Empty(t, fetcher.calls)
		assert.Len(t, result.Frontier, 2)
	})

	t.Run("between levels", func(t *testing.T) {
		fetcher := newFakeFetcher(twoByTwoByOne())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w := New(fetcher, zerolog.Nop(), WithVisitor(func(key string, _ *plex.LibrarySection) {
			if key == "2" {
				cancel()
			}
		}))

		result, err := w.Walk(ctx, roots("1", "2"), 3)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Levels)
		assert.Equal(t, 2, result.Fetched)
		assert.Len(t, result.Frontier, 4)
	})
}

func TestWithConcurrencyIgnoresNonPositive(t *testing.T) {
	w := New(newFakeFetcher(nil), zerolog.Nop(), WithConcurrency(0))
	assert.Equal(t, DefaultConcurrency, w.concurrency)

	w = New(newFakeFetcher(nil), zerolog.Nop(), WithConcurrency(-3))
	assert.Equal(t, DefaultConcurrency, w.concurrency)
}

// nilSectionFetcher answers (nil, nil) for the listed keys
type nilSectionFetcher struct {
	*fakeFetcher
	empty map[string]bool
}

func (f nilSectionFetcher) LibrarySection(ctx context.Context, key string) (*plex.LibrarySection, error) {
	if f.empty[key] {
		return nil, nil
	}
	return f.fakeFetcher.LibrarySection(ctx, key)
}

func TestWalkNilSectionIsNodeFailure(t *testing.T) {
	fetcher := nilSectionFetcher{
		fakeFetcher: newFakeFetcher(twoByTwoByOne()),
		empty:       map[string]bool{"1": true},
	}

	var visited []string
	w := New(fetcher, zerolog.Nop(), WithConcurrency(2), WithVisitor(func(key string, _ *plex.LibrarySection) {
		visited = append(visited, key)
	}))

	var result *Result
	require.NotPanics(t, func() {
		var err error
		result, err = w.Walk(context.Background(), roots("1", "2"), 3)
		require.NoError(t, err)
	})

	// root "1" yields nothing, the "2" subtree is walked in full
	assert.Equal(t, 1+1+2+2, result.Fetched)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "1", result.Failures[0].Key)
	assert.ErrorIs(t, result.Failures[0], ErrNoSection)
	assert.NotContains(t, visited, "1")
}

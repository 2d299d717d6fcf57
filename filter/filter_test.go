package filter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/plexwalk/plex"
)

func sampleRecords() []Record {
	return []Record{
		{
			Type:      "movie",
			Title:     "Heat",
			Key:       "/library/metadata/101",
			Year:      1995,
			Genres:    []string{"Crime", "Drama"},
			Directors: []string{"Michael Mann"},
			AddedAt:   time.Now().AddDate(0, 0, -400),
			Duration:  170 * time.Minute,
			ViewCount: 3,
			Library:   "Movies",
		},
		{
			Type:     "movie",
			Title:    "Baraka",
			Key:      "/library/metadata/102",
			Year:     1992,
			Genres:   []string{"Documentary"},
			AddedAt:  time.Now().AddDate(0, 0, -3),
			Duration: 96 * time.Minute,
			Library:  "Movies",
		},
		{
			Type:    "artist",
			Title:   "Boards of Canada",
			Key:     "/library/metadata/200/children",
			Genres:  []string{"Electronic"},
			Library: "Music",
		},
	}
}

func titles(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "simple comparison", expression: `Year > 1990`},
		{name: "helper call", expression: `hasGenre("drama") and contains(Title, "he")`},
		{name: "duration literal", expression: `Duration > duration("2h")`},
		{name: "undefined variable allowed", expression: `Missing == nil`},
		{name: "empty expression", expression: "   ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `hasGenre("unclosed`, wantErr: true},
		{name: "mismatched types", expression: `Year > "abc"`, wantErr: true},
	}

	c := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				require.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{name: "by type", expression: `isType("MOVIE")`, want: []string{"Heat", "Baraka"}},
		{name: "by year", expression: `Year >= 1995`, want: []string{"Heat"}},
		{name: "by genre", expression: `hasGenre("documentary") or hasGenre("electronic")`, want: []string{"Baraka", "Boards of Canada"}},
		{name: "by director", expression: `hasDirector("michael mann")`, want: []string{"Heat"}},
		{name: "recently added", expression: `AddedAt > daysAgo(30)`, want: []string{"Baraka"}},
		{name: "days since", expression: `Year > 0 and daysSince(AddedAt) > 365`, want: []string{"Heat"}},
		{name: "duration", expression: `Duration > duration("2h")`, want: []string{"Heat"}},
		{name: "string helpers", expression: `startsWith(Title, "boards") and endsWith(Title, "CANADA")`, want: []string{"Boards of Canada"}},
		{name: "library", expression: `lower(Library) == "music"`, want: []string{"Boards of Canada"}},
		{name: "unwatched", expression: `Type == "movie" and ViewCount == 0`, want: []string{"Baraka"}},
		{name: "record struct", expression: `Record.Year == 1992`, want: []string{"Baraka"}},
	}

	c := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			require.NoError(t, err)

			var got []string
			for _, rec := range sampleRecords() {
				if f.Match(rec) {
					got = append(got, rec.Title)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchRuntimeError(t *testing.T) {
	f, err := NewCompiler().Compile(`Genres[5] == "Drama"`)
	require.NoError(t, err)

	rec := sampleRecords()[0]
	assert.False(t, f.Match(rec))

	ok, err := f.MatchErr(rec)
	assert.False(t, ok)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, rec.Key, evalErr.Record)
	assert.Equal(t, `Genres[5] == "Drama"`, evalErr.Expression)
}

func TestCustomFunctions(t *testing.T) {
	c := NewCompiler(WithCustomFunctions(map[string]any{
		"isClassic": func(year int) bool { return year > 0 && year < 1994 },
	}))
	f, err := c.Compile(`isClassic(Year)`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baraka"}, titles(matchAll(f, sampleRecords())))
}

func TestCompilerCache(t *testing.T) {
	c := NewCompiler(WithCache(2))
	assert.Equal(t, 0, c.Size())

	first, err := c.Compile(`Year > 1990`)
	require.NoError(t, err)
	again, err := c.Compile(` Year > 1990 `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Size())

	_, err = c.Compile(`Year > 1991`)
	require.NoError(t, err)
	_, err = c.Compile(`Year > 1992`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	// evicted, so a fresh program is compiled
	third, err := c.Compile(`Year > 1990`)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	c.Clear()
	assert.Equal(t, 0, c.Size())

	assert.Equal(t, 0, NewCompiler().Size())
}

func TestLRUCache(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// "b" is now least recently used
	c.Put("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestEvaluatorPreservesOrder(t *testing.T) {
	records := make([]Record, 1000)
	for i := range records {
		records[i] = Record{Title: fmt.Sprintf("r%04d", i), Year: 1900 + i%150}
	}
	f, err := NewCompiler().Compile(`Year % 2 == 0`)
	require.NoError(t, err)

	sequential, err := NewConcurrentEvaluator(WithWorkers(1)).Evaluate(context.Background(), f, records)
	require.NoError(t, err)
	concurrent, err := NewConcurrentEvaluator(WithWorkers(8), WithBatchSize(10)).Evaluate(context.Background(), f, records)
	require.NoError(t, err)

	assert.Len(t, sequential, 500)
	assert.Equal(t, titles(sequential), titles(concurrent))
}

func TestEvaluatorEmptyAndCancelled(t *testing.T) {
	f, err := NewCompiler().Compile(`true`)
	require.NoError(t, err)
	e := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(1))

	got, err := e.Evaluate(context.Background(), f, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Evaluate(ctx, f, sampleRecords())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestManager(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.RegisterFilters(map[string]string{
		"old":   `Year > 0 and Year < 1994`,
		"music": `Type == "artist"`,
	}))
	require.NoError(t, m.RegisterFilter("crime", `hasGenre("crime")`))

	assert.Equal(t, []string{"crime", "music", "old"}, m.ListFilters())

	f, ok := m.GetFilter("crime")
	require.True(t, ok)
	assert.Equal(t, `hasGenre("crime")`, f.Expression())

	got, err := m.EvaluateFilter(context.Background(), "old", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, []string{"Baraka"}, titles(got))

	adHoc, err := m.Compile(`hasDirector("michael mann")`)
	require.NoError(t, err)
	got, err = m.Evaluate(context.Background(), adHoc, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, titles(got))

	_, err = m.EvaluateFilter(context.Background(), "missing", sampleRecords())
	assert.ErrorContains(t, err, "not found")

	all, err := m.EvaluateAll(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, titles(all["crime"]))
	assert.Equal(t, []string{"Boards of Canada"}, titles(all["music"]))
	assert.Equal(t, []string{"Baraka"}, titles(all["old"]))
}

func TestManagerRegisterFiltersIsAtomic(t *testing.T) {
	m := NewManager()
	err := m.RegisterFilters(map[string]string{
		"good": `Year > 1990`,
		"bad":  `Year >`,
	})
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
	assert.ErrorContains(t, err, "'bad'")
	assert.Empty(t, m.ListFilters())
}

func TestFromMetadatum(t *testing.T) {
	var m plex.Metadatum
	require.NoError(t, m.UnmarshalJSON([]byte(`{
		"type": "movie",
		"ratingKey": "101",
		"key": "/library/metadata/101",
		"guid": "plex://movie/1",
		"title": "Heat",
		"summary": "A heist.",
		"year": 1995,
		"addedAt": 1600000000,
		"updatedAt": 1600000001,
		"duration": 10200000,
		"viewCount": 2,
		"Media": [],
		"Genre": [{"tag": "Crime"}],
		"Director": [{"tag": "Michael Mann"}]
	}`)))

	rec := FromMetadatum(m, "Movies")
	assert.Equal(t, "movie", rec.Type)
	assert.Equal(t, "Heat", rec.Title)
	assert.Equal(t, "101", rec.RatingKey)
	assert.Equal(t, 1995, rec.Year)
	assert.Equal(t, []string{"Crime"}, rec.Genres)
	assert.Equal(t, []string{"Michael Mann"}, rec.Directors)
	assert.Equal(t, time.Unix(1600000000, 0), rec.AddedAt)
	assert.Equal(t, 170*time.Minute, rec.Duration)
	assert.Equal(t, 2, rec.ViewCount)
	assert.Equal(t, "Movies", rec.Library)
}

func TestFromSearchResult(t *testing.T) {
	rec := FromSearchResult(plex.SearchResult{
		Type:                "movie",
		Title:               "Heat",
		Key:                 "/library/metadata/101",
		Year:                1995,
		LibrarySectionTitle: "Movies",
		Genre:               []plex.Tag{{Tag: "Crime"}},
	})
	assert.Equal(t, "Movies", rec.Library)
	assert.Equal(t, []string{"Crime"}, rec.Genres)
	assert.Nil(t, rec.Directors)
	assert.True(t, rec.AddedAt.IsZero())
}

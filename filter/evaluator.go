package filter

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of goroutines evaluating chunks
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the minimum chunk size; shorter inputs run sequentially
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator runs compiled filters over record lists, preserving input order
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the records the filter matches
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}

	if len(records) < e.batchSize || e.workerCount == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return matchAll(filter, records), nil
	}

	return e.evaluateConcurrent(ctx, filter, records)
}

// EvaluateBatch evaluates every filter against the records.
// A filter whose evaluation is cancelled is left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, records []Record) (map[string][]Record, error) {
	results := make(map[string][]Record, len(filters))
	if len(filters) == 0 || len(records) == 0 {
		return results, nil
	}

	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	slices.Sort(names)

	matches := make([][]Record, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)
	for i, name := range names {
		g.Go(func() error {
			m, err := e.Evaluate(gctx, filters[name], records)
			if err != nil {
				// skip filters that fail, the rest still report
				return nil
			}
			matches[i] = m
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, name := range names {
		if matches[i] != nil {
			results[name] = matches[i]
		}
	}
	return results, nil
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	chunkSize := max(len(records)/e.workerCount, e.batchSize)
	chunks := make([][]Record, (len(records)+chunkSize-1)/chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)
	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks[i] = matchAll(filter, records[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]Record, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

func matchAll(filter Filter, records []Record) []Record {
	matches := make([]Record, 0, len(records)/10)
	for _, rec := range records {
		if filter.Match(rec) {
			matches = append(matches, rec)
		}
	}
	return matches
}

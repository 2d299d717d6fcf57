package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the number of compiled programs NewManager keeps.
const DefaultCacheSize = 100

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	env        func(Record) map[string]any
}

// CompilerOption configures an expr compiler
type CompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds helper functions available to every expression
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.extra, funcs)
	}
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) CachingCompiler {
	c := &exprCompiler{extra: make(map[string]any)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	extra map[string]any
	cache *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// a zero record gives the checker every name with its runtime type
	env := c.environment(Record{})
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &exprFilter{
		expression: expression,
		program:    program,
		env:        c.environment,
	}

	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

func (c *exprCompiler) environment(rec Record) map[string]any {
	env := newEnvironment(rec)
	maps.Copy(env, c.extra)
	return env
}

// Match evaluates the filter against a record. Evaluation errors select nothing.
func (f *exprFilter) Match(rec Record) bool {
	ok, err := f.MatchErr(rec)
	return err == nil && ok
}

// MatchErr evaluates the filter and reports runtime failures
func (f *exprFilter) MatchErr(rec Record) (bool, error) {
	result, err := expr.Run(f.program, f.env(rec))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Record:     rec.Key,
			Err:        err,
		}
	}
	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the record-independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	// String helpers, case-insensitive
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// newEnvironment creates the runtime environment for one record
func newEnvironment(rec Record) map[string]any {
	env := make(map[string]any, 32)
	addHelperFunctions(env)

	env["Record"] = rec
	env["hasGenre"] = hasTagFunc(rec.Genres)
	env["hasDirector"] = hasTagFunc(rec.Directors)
	env["isType"] = func(t string) bool {
		return strings.EqualFold(rec.Type, t)
	}

	env["Type"] = rec.Type
	env["Title"] = rec.Title
	env["Key"] = rec.Key
	env["RatingKey"] = rec.RatingKey
	env["Year"] = rec.Year
	env["Summary"] = rec.Summary
	env["Genres"] = rec.Genres
	env["Directors"] = rec.Directors
	env["AddedAt"] = rec.AddedAt
	env["Duration"] = rec.Duration
	env["ViewCount"] = rec.ViewCount
	env["Library"] = rec.Library

	return env
}

func hasTagFunc(tags []string) func(string) bool {
	lowered := make([]string, len(tags))
	for i, tag := range tags {
		lowered[i] = strings.ToLower(tag)
	}
	return func(tag string) bool {
		return slices.Contains(lowered, strings.ToLower(tag))
	}
}

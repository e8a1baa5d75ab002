package validator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/formcheck/pkg/logger"
)

// Outcome describes how a check ended.
type Outcome string

const (
	// OutcomePassed means every rule was satisfied.
	OutcomePassed Outcome = "passed"
	// OutcomeFailed means a rule rejected the data.
	OutcomeFailed Outcome = "failed"
	// OutcomeHalted means evaluation stopped at a rule lacking a name,
	// type or message. The data is reported valid.
	OutcomeHalted Outcome = "halted"
)

// Result is the outcome of evaluating a rule list. For failed checks Index,
// Field and Message identify the first failing rule. For halted checks Index
// points at the halting rule.
type Result struct {
	Valid   bool
	Outcome Outcome
	Index   int
	Field   string
	Message string
}

// Err returns a *ValidationError for failed results and nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Field: r.Field, Message: r.Message}
}

// ValidationError carries the message of the first failing rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Check evaluates rules against data in order and stops at the first
// definitive outcome:
//   - a rule without name, type or message ends evaluation with success;
//   - a missing or falsy field fails with the rule's message;
//   - a value rejected by the rule's checker fails with the rule's message.
//
// Check never modifies data and is safe for concurrent use.
func Check(data map[string]any, rules []Rule) Result {
	for i, rule := range rules {
		if rule.Halts() {
			return Result{Valid: true, Outcome: OutcomeHalted, Index: i}
		}

		value, ok := data[rule.Name]
		if !ok || !truthy(value) {
			return failed(i, rule)
		}

		if rule.Checker != nil && !rule.Checker.Check(value) {
			return failed(i, rule)
		}
	}
	return Result{Valid: true, Outcome: OutcomePassed, Index: len(rules)}
}

func failed(i int, rule Rule) Result {
	return Result{
		Valid:   false,
		Outcome: OutcomeFailed,
		Index:   i,
		Field:   rule.Name,
		Message: rule.Message,
	}
}

// CheckSpecs compiles specs and checks data against them.
func CheckSpecs(data map[string]any, specs []RuleSpec) (Result, error) {
	rules, err := Compile(specs...)
	if err != nil {
		return Result{}, err
	}
	return Check(data, rules), nil
}

// Engine wraps Check with logging and remembers the message of the last
// failed check. Prefer the Result returned by Validate when an engine is
// shared between goroutines: LastError reflects whichever call failed last.
type Engine struct {
	logger *slog.Logger

	mu        sync.RWMutex
	lastError string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine. Without WithLogger it logs to slog.Default().
func New(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check reports whether data satisfies rules. On failure the rule's message
// becomes available through LastError.
func (e *Engine) Check(data map[string]any, rules []Rule) bool {
	return e.Validate(context.Background(), data, rules).Valid
}

// Validate is like Check but returns the full result.
func (e *Engine) Validate(ctx context.Context, data map[string]any, rules []Rule) Result {
	res := Check(data, rules)

	switch res.Outcome {
	case OutcomeFailed:
		e.mu.Lock()
		e.lastError = res.Message
		e.mu.Unlock()
		e.logger.DebugContext(ctx, "validation failed",
			logger.Field(res.Field),
			slog.Int("rule", res.Index),
		)
	case OutcomeHalted:
		e.logger.DebugContext(ctx, "validation halted at incomplete rule",
			slog.Int("rule", res.Index),
			logger.Field(rules[res.Index].Name),
		)
	}
	return res
}

// LastError returns the message of the most recent failed check.
// It is not reset by successful checks.
func (e *Engine) LastError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastError
}

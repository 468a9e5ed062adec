package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrStageSkipped is returned by a stage that does not apply to the input,
// for example an LLM stage without a configured client.
var ErrStageSkipped = errors.New("stage skipped")

// Stage is one step of a fallback chain. It either produces a value or fails.
type Stage[In, Out any] struct {
	Name string
	Run  func(ctx context.Context, in In) (Out, error)
}

// Attempt records a failed stage.
type Attempt struct {
	Stage string
	Err   error
}

// Result is the value produced by a chain along with the stage that produced
// it and every stage that failed before it.
type Result[T any] struct {
	Value    T
	Stage    string
	Attempts []Attempt
}

// ChainError is returned when every stage of a chain fails
type ChainError struct {
	Attempts []Attempt
}

func (e *ChainError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Stage, a.Err)
	}
	return fmt.Sprintf("all stages failed: %s", strings.Join(parts, "; "))
}

func (e *ChainError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Chain tries stages in order and stops at the first success.
type Chain[In, Out any] struct {
	stages []Stage[In, Out]
}

// NewChain creates a chain from stages in priority order.
func NewChain[In, Out any](stages ...Stage[In, Out]) *Chain[In, Out] {
	return &Chain[In, Out]{stages: stages}
}

// Run executes the chain. A canceled context stops the chain before the next
// stage starts.
func (c *Chain[In, Out]) Run(ctx context.Context, in In) (Result[Out], error) {
	var attempts []Attempt
	for _, stage := range c.stages {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Stage: stage.Name, Err: err})
			return Result[Out]{Attempts: attempts}, &ChainError{Attempts: attempts}
		}
		value, err := stage.Run(ctx, in)
		if err == nil {
			return Result[Out]{Value: value, Stage: stage.Name, Attempts: attempts}, nil
		}
		attempts = append(attempts, Attempt{Stage: stage.Name, Err: err})
	}
	return Result[Out]{Attempts: attempts}, &ChainError{Attempts: attempts}
}

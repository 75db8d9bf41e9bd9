// Package counter drives the live counter animation from a ticker.
package counter

import (
	"context"
	"fmt"
	"time"
)

const (
	// Max is the last count emitted before completion.
	Max = 100
	// DefaultInterval is the delay between steps.
	DefaultInterval = 50 * time.Millisecond
	// CompletionMessage is shown when the run finishes.
	CompletionMessage = "Live demo completed!"
)

// Step is one progress state.
type Step struct {
	Count    int    `json:"count"`
	Percent  int    `json:"percent"`
	Markdown string `json:"markdown"`
}

// Completion is emitted once after the last step.
type Completion struct {
	Message  string `json:"message"`
	Balloons bool   `json:"balloons"`
}

// Emitter receives progress events. Exactly one of step and done is non-nil.
type Emitter func(step *Step, done *Completion) error

// NewStep builds the progress state for count i.
func NewStep(i int) Step {
	return Step{
		Count:    i,
		Percent:  i,
		Markdown: Markdown(i),
	}
}

// Markdown is the headline text for count i.
func Markdown(i int) string {
	return fmt.Sprintf("### Count: **%d** %%", i)
}

// Done returns the completion signal.
func Done() Completion {
	return Completion{Message: CompletionMessage, Balloons: true}
}

// Run emits steps 0..Max, one per tick, then the completion signal. The first
// step is emitted immediately. Run returns ctx.Err() when cancelled and any
// error returned by emit.
func Run(ctx context.Context, interval time.Duration, emit Emitter) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i <= Max; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		step := NewStep(i)
		if err := emit(&step, nil); err != nil {
			return fmt.Errorf("emit step %d: %w", i, err)
		}
	}

	done := Done()
	if err := emit(nil, &done); err != nil {
		return fmt.Errorf("emit completion: %w", err)
	}
	return nil
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Policy decides what a failed collaborator call means for the operation that made it.
type Policy int

const (
	// FailFast aborts the operation with ErrCollaboratorUnavailable.
	FailFast Policy = iota
	// FailSilent absorbs the failure, returns the zero value and marks the result degraded.
	FailSilent
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case FailSilent:
		return "fail_silent"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Result is the uniform outcome of a collaborator call.
type Result[T any] struct {
	Value    T
	Err      error
	Degraded bool
}

// Collaborator describes a remote dependency and the policy applied to its failures.
type Collaborator struct {
	Name    string
	Policy  Policy
	Timeout time.Duration
	// Passthrough lists business refusals returned unchanged under FailFast.
	Passthrough []error
	Logger      *slog.Logger
}

// Call runs fn under the collaborator's timeout and translates its failure according to the policy.
func Call[T any](ctx context.Context, c Collaborator, op string, fn func(context.Context) (T, error)) Result[T] {
	callCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	value, err := fn(callCtx)
	if err == nil {
		return Result[T]{Value: value}
	}

	for _, refusal := range c.Passthrough {
		if errors.Is(err, refusal) {
			return Result[T]{Err: err}
		}
	}

	attrs := []slog.Attr{
		slog.String("collaborator", c.Name),
		slog.String("operation", op),
		slog.String("policy", c.Policy.String()),
		slog.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
		slog.String("error", err.Error()),
	}
	var zero T
	switch c.Policy {
	case FailSilent:
		c.log(ctx, slog.LevelWarn, "collaborator call degraded", append(attrs, slog.Bool("degraded", true))...)
		return Result[T]{Value: zero, Degraded: true}
	default:
		c.log(ctx, slog.LevelError, "collaborator call failed", attrs...)
		return Result[T]{Err: fmt.Errorf("%w: %s %s: %w", ErrCollaboratorUnavailable, c.Name, op, err)}
	}
}

// Do is Call for operations without a return value.
func Do(ctx context.Context, c Collaborator, op string, fn func(context.Context) error) Result[struct{}] {
	return Call(ctx, c, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

func (c Collaborator) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if c.Logger == nil {
		return
	}
	c.Logger.LogAttrs(ctx, level, msg, attrs...)
}

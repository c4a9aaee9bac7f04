package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrProviderMissing is returned by a step whose provider is not configured.
	ErrProviderMissing = errors.New("provider not configured")
	// ErrEmptyReply is returned when a provider answers with blank text.
	ErrEmptyReply = errors.New("empty reply")
)

// InadequateError is returned for a reply rejected by the quality gate.
type InadequateError struct {
	Reason string
}

func (e *InadequateError) Error() string {
	return fmt.Sprintf("inadequate reply: %s", e.Reason)
}

// Attempt outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeInadequate = "inadequate"
)

// Step is one provider call in a fallback chain.
type Step struct {
	Provider ProviderID
	// Gated replies must pass IsAdequate to end the chain.
	Gated bool
	Call  func(ctx context.Context) (ProviderReply, error)
}

// Chain is an ordered list of steps tried until one produces a usable reply.
type Chain []Step

// Run calls each step once, in order. It returns the first usable reply, the
// attempts made, and false when every step failed. Steps never run in
// parallel.
func (c Chain) Run(ctx context.Context, logger *slog.Logger) (ProviderReply, []Attempt, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := make([]Attempt, 0, len(c))

	for i, step := range c {
		start := time.Now()
		reply, err := callStep(ctx, step)
		providerLatency.WithLabelValues(string(step.Provider)).Observe(time.Since(start).Seconds())

		if err == nil && strings.TrimSpace(reply.Text) == "" {
			err = ErrEmptyReply
		}
		if err == nil && step.Gated {
			if reason, bad := InadequateReason(reply.Text); bad {
				err = &InadequateError{Reason: reason}
			}
		}

		outcome := OutcomeSuccess
		var inadequate *InadequateError
		switch {
		case errors.As(err, &inadequate):
			outcome = OutcomeInadequate
		case err != nil:
			outcome = OutcomeError
		}
		providerCalls.WithLabelValues(string(step.Provider), outcome).Inc()
		attempts = append(attempts, Attempt{Provider: step.Provider, Outcome: outcome, Err: err})

		if err == nil {
			if reply.Provider == "" {
				reply.Provider = step.Provider
			}
			return reply, attempts, true
		}

		logger.Warn("Provider step failed",
			"provider", step.Provider,
			"position", i+1,
			"chainLength", len(c),
			"outcome", outcome,
			"error", err,
		)
	}

	return ProviderReply{Provider: ProviderNone}, attempts, false
}

// callStep turns a panicking provider into an ordinary step failure.
func callStep(ctx context.Context, step Step) (reply ProviderReply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider %s panicked: %v", step.Provider, r)
		}
	}()
	if step.Call == nil {
		return ProviderReply{}, ErrProviderMissing
	}
	return step.Call(ctx)
}

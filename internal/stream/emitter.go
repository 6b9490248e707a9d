package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/acme/nuvia-dialer/internal/domain"
)

// Step is one push of the emission cycle followed by a pause of Delay units.
type Step struct {
	Event domain.StatusEvent
	Delay int
}

// Sender delivers one event to a subscribed client.
type Sender interface {
	WriteJSON(v any) error
}

// WaitFunc blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type WaitFunc func(ctx context.Context, d time.Duration) error

// DefaultCycle is the demo sequence shown to the dialer front-end.
func DefaultCycle(lead domain.Lead, stageLabel string) []Step {
	return []Step{
		{Event: domain.Dialing(domain.CallInbound, 40), Delay: 3},
		{Event: domain.DialingStage(domain.CallOutbound, stageLabel, 60), Delay: 3},
		{Event: domain.Connected(domain.CallOutbound, lead), Delay: 5},
		{Event: domain.Idle(), Delay: 5},
	}
}

// Emitter pushes a fixed cycle of status events until cancelled.
type Emitter struct {
	cycle []Step
	unit  time.Duration
	wait  WaitFunc
}

// Option customizes an Emitter.
type Option func(*Emitter)

// WithWait replaces the timer-based wait.
func WithWait(wait WaitFunc) Option {
	return func(e *Emitter) { e.wait = wait }
}

// NewEmitter validates the cycle and builds an emitter that scales step delays by unit.
func NewEmitter(cycle []Step, unit time.Duration, opts ...Option) (*Emitter, error) {
	if len(cycle) == 0 {
		return nil, fmt.Errorf("stream: empty cycle")
	}
	if unit <= 0 {
		return nil, fmt.Errorf("stream: unit must be positive")
	}
	for i, step := range cycle {
		if err := step.Event.Validate(); err != nil {
			return nil, fmt.Errorf("stream: step %d: %w", i, err)
		}
		if step.Delay < 0 {
			return nil, fmt.Errorf("stream: step %d: negative delay", i)
		}
	}

	e := &Emitter{
		cycle: append([]Step(nil), cycle...),
		unit:  unit,
		wait:  sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run emits the cycle repeatedly. It returns nil once ctx is done and the
// sender's error if a push fails.
func (e *Emitter) Run(ctx context.Context, sender Sender) error {
	for {
		for _, step := range e.cycle {
			if ctx.Err() != nil {
				return nil
			}
			if err := sender.WriteJSON(step.Event); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := e.wait(ctx, time.Duration(step.Delay)*e.unit); err != nil {
				return nil
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

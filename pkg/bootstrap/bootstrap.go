package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pluginkit/pkg/observability"
)

// ErrAlreadyBootstrapped is returned by a second Run
var ErrAlreadyBootstrapped = errors.New("plugin is already bootstrapped")

// Step is one named registration of the startup sequence
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError identifies the step that aborted the sequence
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("bootstrap step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Bootstrap runs an ordered sequence of steps exactly once
type Bootstrap struct {
	steps   []Step
	log     *logrus.Logger
	metrics *observability.Metrics

	mu  sync.Mutex
	ran bool
}

// New creates a bootstrap sequence. metrics may be nil.
func New(log *logrus.Logger, metrics *observability.Metrics, steps ...Step) *Bootstrap {
	if log == nil {
		log = logrus.New()
	}

	return &Bootstrap{
		steps:   steps,
		log:     log,
		metrics: metrics,
	}
}

// Add appends steps to the sequence
func (b *Bootstrap) Add(steps ...Step) *Bootstrap {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.steps = append(b.steps, steps...)
	return b
}

// Steps returns the step names in execution order
func (b *Bootstrap) Steps() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, len(b.steps))
	for i, step := range b.steps {
		names[i] = step.Name
	}
	return names
}

// Run executes every step in order. The first failing step stops the
// sequence; later steps are not run. Run may only be called once.
func (b *Bootstrap) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.ran {
		b.mu.Unlock()
		return ErrAlreadyBootstrapped
	}
	b.ran = true
	steps := make([]Step, len(b.steps))
	copy(steps, b.steps)
	b.mu.Unlock()

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Err: err}
		}

		start := time.Now()
		err := b.runStep(ctx, step)
		duration := time.Since(start)

		if b.metrics != nil {
			b.metrics.RecordStep(step.Name, duration, err)
		}

		if err != nil {
			b.log.WithField("step", step.Name).Errorf("Bootstrap step failed: %v", err)
			return &StepError{Step: step.Name, Err: err}
		}

		b.log.WithField("step", step.Name).Debugf("Bootstrap step completed in %s", duration)
	}

	b.log.Infof("Plugin bootstrapped (%d steps)", len(steps))
	return nil
}

// runStep runs a single step, turning a panic into an error
func (b *Bootstrap) runStep(ctx context.Context, step Step) (err error) {
	defer observability.RecoverToError(b.log, "bootstrap step "+step.Name, &err)
	return step.Run(ctx)
}

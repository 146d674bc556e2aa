package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/metrics"
)

// sagaStep is one ordered action of a saga. Compensate, when set, undoes Run
// and is only invoked if Run completed.
type sagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type saga struct {
	name string
	log  *slog.Logger
}

func newSaga(name string, log *slog.Logger) *saga {
	return &saga{name: name, log: log}
}

// run executes steps in order. When a step fails, the compensations of the
// completed steps run in the order those steps ran. Compensation failures are
// logged and counted; the caller always sees the error of the failing step.
func (s *saga) run(ctx context.Context, steps ...sagaStep) error {
	start := time.Now()
	done := make([]sagaStep, 0, len(steps))

	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			s.log.Info("saga step failed", "saga", s.name, "step", step.Name, "error", err)
			s.compensate(ctx, done)
			metrics.RecordSaga(s.name, time.Since(start), err)
			return err
		}
		done = append(done, step)
	}

	metrics.RecordSaga(s.name, time.Since(start), nil)
	return nil
}

func (s *saga) compensate(ctx context.Context, done []sagaStep) {
	// Cleanup must still run if the request that started the saga went away.
	ctx = context.WithoutCancel(ctx)
	for _, step := range done {
		if step.Compensate == nil {
			continue
		}
		err := step.Compensate(ctx)
		metrics.RecordCompensation(step.Name, err)
		if err != nil {
			s.log.Warn("saga compensation failed", "saga", s.name, "step", step.Name, "error", err)
			continue
		}
		s.log.Info("saga step compensated", "saga", s.name, "step", step.Name)
	}
}

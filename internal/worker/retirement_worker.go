package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/service"
)

// RetirementWorker runs the retirement scan on a fixed cadence.
type RetirementWorker struct {
	retirements *service.RetirementService
	interval    time.Duration
	logger      *zap.Logger
	stop        chan struct{}
	done        chan struct{}
}

// NewRetirementWorker constructs the worker.
func NewRetirementWorker(retirements *service.RetirementService, interval time.Duration, logger *zap.Logger) *RetirementWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RetirementWorker{
		retirements: retirements,
		interval:    interval,
		logger:      logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the scan loop. The first scan runs immediately so a restart
// never postpones overdue retirements by a full interval.
func (w *RetirementWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		w.scan(ctx)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan(ctx)
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight scan to finish.
func (w *RetirementWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *RetirementWorker) scan(ctx context.Context) {
	result, err := w.retirements.ProcessDueRetirements(ctx, time.Now())
	if err != nil {
		w.logger.Error("retirement scan failed", zap.Error(err))
		return
	}
	if result.Processed > 0 {
		w.logger.Info("retirement scan complete",
			zap.Int("processed", result.Processed),
			zap.String("batch_id", result.BatchID),
		)
	}
}

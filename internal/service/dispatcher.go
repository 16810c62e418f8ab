package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"dealpipe/config"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull        = errors.New("dispatch queue is full")
	ErrDispatcherClosed = errors.New("dispatcher is closed")
)

// Dispatcher schedules pipeline runs asynchronously with at-least-once
// delivery. A rejected dispatch is reported synchronously so the caller can
// mark the deal failed instead of leaving it stuck.
type Dispatcher interface {
	Dispatch(dealID uuid.UUID) error
	Start(ctx context.Context)
	Stop()
}

type dispatcher struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline PipelineService
	metrics  *metrics.Metrics

	mu     sync.RWMutex
	queue  chan uuid.UUID
	closed bool
	group  *errgroup.Group
}

func NewDispatcher(cfg *config.Config, log *logger.Logger, pipeline PipelineService, m *metrics.Metrics) Dispatcher {
	return &dispatcher{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline,
		metrics:  m,
		queue:    make(chan uuid.UUID, cfg.Dispatcher.QueueSize),
	}
}

// Dispatch enqueues exactly one run for the deal. It never blocks.
func (d *dispatcher) Dispatch(dealID uuid.UUID) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.DispatchFail.Inc()
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- dealID:
		d.metrics.QueueDepth.Set(float64(len(d.queue)))
		return nil
	default:
		d.metrics.DispatchFail.Inc()
		return ErrQueueFull
	}
}

// Start launches the worker pool. Each worker drains one deal at a time to
// completion; nothing but the durable store is shared between runs.
func (d *dispatcher) Start(ctx context.Context) {
	group, groupCtx := errgroup.WithContext(ctx)
	d.group = group

	for i := 0; i < d.cfg.Dispatcher.Workers; i++ {
		worker := i
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case dealID, ok := <-d.queue:
					if !ok {
						return nil
					}
					d.metrics.QueueDepth.Set(float64(len(d.queue)))
					d.run(groupCtx, worker, dealID)
				}
			}
		})
	}

	d.log.Info("Dispatcher started",
		logger.IntField("workers", d.cfg.Dispatcher.Workers),
		logger.IntField("queue_size", d.cfg.Dispatcher.QueueSize),
	)
}

// Stop closes the queue and waits for in-flight runs to finish.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	if d.group != nil {
		_ = d.group.Wait()
	}
	d.log.Info("Dispatcher stopped")
}

// run wraps one pipeline invocation with instrumentation: start, duration
// and outcome are logged and counted.
func (d *dispatcher) run(ctx context.Context, worker int, dealID uuid.UUID) {
	d.log.InfoContext(ctx, "Starting pipeline run",
		logger.StringField("deal_id", dealID.String()),
		logger.IntField("worker", worker),
	)
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, d.cfg.Dispatcher.RunTimeout)
	defer cancel()

	result := d.pipeline.Process(runCtx, dealID)
	elapsed := time.Since(start)

	if result.Success {
		d.metrics.ObserveRun("success", "", elapsed)
		d.log.InfoContext(ctx, "Pipeline run completed",
			logger.StringField("deal_id", dealID.String()),
			logger.StringField("duration", elapsed.String()),
		)
		return
	}

	d.metrics.ObserveRun("failure", string(result.Stage), elapsed)
	d.log.ErrorContext(ctx, "Pipeline run failed",
		logger.StringField("deal_id", dealID.String()),
		logger.StringField("stage", string(result.Stage)),
		logger.StringField("error", result.Error),
		logger.StringField("duration", elapsed.String()),
	)
}

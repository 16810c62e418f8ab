package service

import (
	"context"
	"time"

	"dealpipe/config"
	"dealpipe/internal/model"
	"dealpipe/internal/repository"
	"dealpipe/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Reaper re-dispatches deals that rested in a non-terminal state for too
// long: uploaded but never picked up, or processing when a worker died
// mid-run. Redelivery is safe because pipeline runs are idempotent.
type Reaper struct {
	cfg        *config.Config
	log        *logger.Logger
	dealRepo   repository.DealRepository
	dispatcher Dispatcher
	cron       *cron.Cron
}

func NewReaper(cfg *config.Config, log *logger.Logger, dealRepo repository.DealRepository, dispatcher Dispatcher) *Reaper {
	return &Reaper{
		cfg:        cfg,
		log:        log,
		dealRepo:   dealRepo,
		dispatcher: dispatcher,
		cron:       cron.New(),
	}
}

func (r *Reaper) Start() error {
	if !r.cfg.Reaper.Enabled {
		r.log.Info("Reaper disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(r.cfg.Reaper.Schedule, r.sweep); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info("Reaper started", logger.StringField("schedule", r.cfg.Reaper.Schedule))
	return nil
}

func (r *Reaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Reaper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-r.cfg.Reaper.StuckAfter)
	for _, status := range []model.DealStatus{model.StatusUploaded, model.StatusProcessing} {
		stuck, err := r.dealRepo.FindStuck(ctx, status, cutoff)
		if err != nil {
			r.log.ErrorContext(ctx, "Failed to find stuck deals",
				logger.StringField("status", string(status)),
				logger.ErrorField(err),
			)
			continue
		}
		if len(stuck) == 0 {
			continue
		}

		r.log.InfoContext(ctx, "Re-dispatching stuck deals",
			logger.StringField("status", string(status)),
			logger.IntField("count", len(stuck)),
		)
		for _, deal := range stuck {
			if err := r.dispatcher.Dispatch(deal.ID); err != nil {
				// Leave the deal for the next sweep, the queue may have drained by then.
				r.log.WarnContext(ctx, "Failed to re-dispatch stuck deal",
					logger.StringField("deal_id", deal.ID.String()),
					logger.ErrorField(err),
				)
			}
		}
	}
}

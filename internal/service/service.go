package service

import (
	"dealpipe/config"
	"dealpipe/internal/extractor"
	"dealpipe/internal/repository"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/metrics"
	"dealpipe/pkg/storage"
)

type Service struct {
	Pipeline   PipelineService
	Persister  ResultPersister
	Dispatcher Dispatcher
	Reaper     *Reaper
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	docStore storage.DocumentStore,
	m *metrics.Metrics,
) *Service {
	persister := NewResultPersister(log, repo.DealRepo, repo.UnitOfWork)
	pipeline := NewPipelineService(
		log,
		repo.DealRepo,
		repo.GeminiAIRepo,
		persister,
		extractor.NewPDFExtractor(log),
		docStore,
	)
	dispatcher := NewDispatcher(cfg, log, pipeline, m)
	reaper := NewReaper(cfg, log, repo.DealRepo, dispatcher)

	return &Service{
		Pipeline:   pipeline,
		Persister:  persister,
		Dispatcher: dispatcher,
		Reaper:     reaper,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealpipe/internal/dto"
	"dealpipe/internal/extractor"
	"dealpipe/internal/model"
	"dealpipe/internal/repository"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PipelineService runs the full processing pipeline for one deal: load the
// deck from storage, extract text, analyze it, persist the results. Every
// invocation ends with the deal in a terminal, persisted state; no error and
// no panic escapes Process.
type PipelineService interface {
	Process(ctx context.Context, dealID uuid.UUID) dto.PipelineResult
}

type pipelineService struct {
	log       *logger.Logger
	dealRepo  repository.DealRepository
	aiRepo    repository.AIRepository
	persister ResultPersister
	extractor extractor.Extractor
	docStore  storage.DocumentStore
}

func NewPipelineService(
	log *logger.Logger,
	dealRepo repository.DealRepository,
	aiRepo repository.AIRepository,
	persister ResultPersister,
	ext extractor.Extractor,
	docStore storage.DocumentStore,
) PipelineService {
	return &pipelineService{
		log:       log,
		dealRepo:  dealRepo,
		aiRepo:    aiRepo,
		persister: persister,
		extractor: ext,
		docStore:  docStore,
	}
}

func (s *pipelineService) Process(ctx context.Context, dealID uuid.UUID) (result dto.PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			result = s.failUnexpected(ctx, dealID, fmt.Errorf("panic: %v", r))
		}
	}()

	deal, err := s.dealRepo.GetByID(ctx, dealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing exists to mark failed.
		s.log.ErrorContext(ctx, "Deal not found", logger.StringField("deal_id", dealID.String()))
		return dto.PipelineResult{
			DealID: dealID.String(),
			Stage:  dto.StageInitialization,
			Error:  fmt.Sprintf("deal %s not found", dealID),
		}
	}
	if err != nil {
		return s.failUnexpected(ctx, dealID, fmt.Errorf("failed to load deal: %w", err))
	}

	// Make the in-flight status observable before any slow work starts.
	if err := s.dealRepo.UpdateColumns(ctx, dealID, map[string]interface{}{
		"status":        model.StatusProcessing,
		"error_message": "",
	}); err != nil {
		return s.failUnexpected(ctx, dealID, fmt.Errorf("failed to mark deal processing: %w", err))
	}

	s.log.InfoContext(ctx, "Starting deal processing", logger.StringField("deal_id", dealID.String()))

	if deal.PitchDeckKey == "" {
		return s.failBusiness(ctx, dealID, dto.StageExtraction, "no pitch deck file found")
	}

	document, err := s.docStore.Get(ctx, deal.PitchDeckKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.failBusiness(ctx, dealID, dto.StageExtraction,
				fmt.Sprintf("pitch deck not found in storage: %s", deal.PitchDeckKey))
		}
		return s.failBusiness(ctx, dealID, dto.StageExtraction,
			fmt.Sprintf("pitch deck unreadable: %v", err))
	}

	extraction := s.extractor.Extract(ctx, document)
	if !extraction.OK {
		return s.failBusiness(ctx, dealID, dto.StageExtraction, extraction.Error)
	}
	s.log.DebugContext(ctx, "Extracted deck text",
		logger.StringField("deal_id", dealID.String()),
		logger.IntField("page_count", extraction.PageCount),
		logger.IntField("text_len", len(extraction.Text)),
	)

	analysis := s.aiRepo.AnalyzeDeck(ctx, extraction.Text)
	if !analysis.OK {
		return s.failBusiness(ctx, dealID, dto.StageAnalysis, analysis.Error)
	}

	if err := s.persister.Persist(ctx, dealID, analysis); err != nil {
		// A unit of work that aborts is not an anticipated business failure.
		return s.failSaving(ctx, dealID, err)
	}

	s.log.InfoContext(ctx, "Deal processing completed",
		logger.StringField("deal_id", dealID.String()),
		logger.StringField("company_name", analysis.Company.CompanyName),
	)
	return dto.PipelineResult{
		Success: true,
		DealID:  dealID.String(),
	}
}

// failBusiness records an anticipated failure: the deal goes terminal but
// retry_count stays untouched.
func (s *pipelineService) failBusiness(ctx context.Context, dealID uuid.UUID, stage dto.Stage, message string) dto.PipelineResult {
	s.log.ErrorContext(ctx, "Deal processing failed",
		logger.StringField("deal_id", dealID.String()),
		logger.StringField("stage", string(stage)),
		logger.StringField("error", message),
	)

	if err := s.dealRepo.UpdateColumns(ctx, dealID, map[string]interface{}{
		"status":        model.StatusFailed,
		"error_message": message,
		"processed_at":  time.Now().UTC(),
	}); err != nil {
		s.log.ErrorContext(ctx, "Failed to record failure on deal",
			logger.StringField("deal_id", dealID.String()),
			logger.ErrorField(err),
		)
	}

	return dto.PipelineResult{
		DealID: dealID.String(),
		Stage:  stage,
		Error:  message,
	}
}

func (s *pipelineService) failSaving(ctx context.Context, dealID uuid.UUID, cause error) dto.PipelineResult {
	return s.failFault(ctx, dealID, dto.StageSaving, cause)
}

func (s *pipelineService) failUnexpected(ctx context.Context, dealID uuid.UUID, cause error) dto.PipelineResult {
	return s.failFault(ctx, dealID, dto.StageUnexpectedError, cause)
}

// failFault records an unexpected fault: terminal state plus a retry_count
// increment so operators can spot repeat offenders.
func (s *pipelineService) failFault(ctx context.Context, dealID uuid.UUID, stage dto.Stage, cause error) dto.PipelineResult {
	s.log.ErrorContext(ctx, "Unexpected fault during deal processing",
		logger.StringField("deal_id", dealID.String()),
		logger.StringField("stage", string(stage)),
		logger.ErrorField(cause),
	)

	if err := s.dealRepo.UpdateColumns(ctx, dealID, map[string]interface{}{
		"status":        model.StatusFailed,
		"error_message": cause.Error(),
		"processed_at":  time.Now().UTC(),
		"retry_count":   gorm.Expr("retry_count + 1"),
	}); err != nil {
		s.log.ErrorContext(ctx, "Failed to record fault on deal",
			logger.StringField("deal_id", dealID.String()),
			logger.ErrorField(err),
		)
	}

	return dto.PipelineResult{
		DealID: dealID.String(),
		Stage:  stage,
		Error:  cause.Error(),
	}
}

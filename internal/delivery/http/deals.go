package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"dealpipe/internal/dto"
	"dealpipe/internal/model"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func (h *HttpAPIHandler) SetupDeals(base *echo.Group) {
	v1 := base.Group("/v1/deals")
	{
		v1.POST("", h.UploadDeal)
		v1.GET("", h.ListDeals)
		v1.GET("/:id", h.GetDeal)
		v1.GET("/:id/status", h.GetDealStatus)
		v1.POST("/:id/reprocess", h.ReprocessDeal)
	}
}

// UploadDeal accepts a pitch deck, stores it, creates the deal and hands it
// to the dispatcher. A dispatch failure marks the deal failed right away so
// it never rests in uploaded without a scheduled run.
func (h *HttpAPIHandler) UploadDeal(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("pitch_deck")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("pitch_deck file is required"))
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("only PDF files are accepted"))
	}
	if fileHeader.Size > h.cfg.Upload.MaxSizeBytes {
		return c.JSON(http.StatusRequestEntityTooLarge,
			dto.NewBaseResponse(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d byte limit", h.cfg.Upload.MaxSizeBytes), nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("failed to open uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to read uploaded file", nil))
	}

	dealID := uuid.New()
	key := fmt.Sprintf("pitch_decks/%s.pdf", dealID)

	if err := h.docStore.Put(ctx, key, data); err != nil {
		h.log.ErrorContext(ctx, "Failed to store pitch deck", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to store pitch deck", nil))
	}

	deal := &model.Deal{
		ID:           dealID,
		Status:       model.StatusUploaded,
		PitchDeckKey: key,
	}
	if err := h.dealRepo.Create(ctx, deal); err != nil {
		h.log.ErrorContext(ctx, "Failed to create deal", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to create deal", nil))
	}

	if err := h.service.Dispatcher.Dispatch(dealID); err != nil {
		h.log.ErrorContext(ctx, "Failed to dispatch deal",
			logger.StringField("deal_id", dealID.String()),
			logger.ErrorField(err),
		)
		_ = h.dealRepo.UpdateColumns(ctx, dealID, map[string]interface{}{
			"status":        model.StatusFailed,
			"error_message": fmt.Sprintf("failed to start processing: %v", err),
		})
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to start processing, please try again", nil))
	}

	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Pitch deck uploaded successfully. Processing started.", dto.UploadDealResponse{
		ID:        deal.ID.String(),
		Status:    string(deal.Status),
		Message:   "processing started",
		CreatedAt: deal.CreatedAt,
	}))
}

type listDealsRequest struct {
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Status string `query:"status" validate:"omitempty,oneof=pending uploaded processing completed failed"`
}

func (h *HttpAPIHandler) ListDeals(c echo.Context) error {
	ctx := c.Request().Context()

	var req listDealsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	opts := []utils.DBOption{
		func(db *gorm.DB) *gorm.DB { return db.Limit(req.Limit) },
	}
	if req.Status != "" {
		opts = append(opts, utils.WithWhere("status = ?", req.Status))
	}

	deals, err := h.dealRepo.List(ctx, opts...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to list deals", nil))
	}

	summaries := make([]dto.DealSummary, 0, len(deals))
	for _, d := range deals {
		summaries = append(summaries, toDealSummary(&d))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", summaries))
}

func (h *HttpAPIHandler) GetDeal(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid deal id"))
	}

	deal, err := h.dealRepo.GetDetail(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "deal not found", nil))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to load deal", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", toDealDetail(deal)))
}

func (h *HttpAPIHandler) GetDealStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid deal id"))
	}

	deal, err := h.dealRepo.GetByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "deal not found", nil))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to load deal", nil))
	}

	resp := dto.DealStatusResponse{
		ID:          deal.ID.String(),
		Status:      string(deal.Status),
		CompanyName: deal.CompanyName,
	}
	if deal.Status == model.StatusFailed {
		resp.ErrorMessage = deal.ErrorMessage
	}
	if deal.ProcessedAt.Valid {
		resp.ProcessedAt = utils.ToPointer(deal.ProcessedAt.Time)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", resp))
}

// ReprocessDeal re-dispatches a terminal deal. The pipeline reprocesses from
// scratch and overwrites prior results.
func (h *HttpAPIHandler) ReprocessDeal(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid deal id"))
	}

	if _, err := h.dealRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "deal not found", nil))
		}
		return c.JSON(http.StatusInternalServerError,
			dto.NewBaseResponse(http.StatusInternalServerError, "failed to load deal", nil))
	}

	if err := h.service.Dispatcher.Dispatch(id); err != nil {
		return c.JSON(http.StatusServiceUnavailable,
			dto.NewBaseResponse(http.StatusServiceUnavailable, fmt.Sprintf("failed to schedule reprocessing: %v", err), nil))
	}

	return c.JSON(http.StatusAccepted, dto.NewBaseResponse(http.StatusAccepted, "reprocessing scheduled", nil))
}

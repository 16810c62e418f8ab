package http

import (
	"context"

	"dealpipe/config"
	"dealpipe/internal/repository"
	"dealpipe/internal/service"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/middleware"
	"dealpipe/pkg/storage"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	log       *logger.Logger
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	dealRepo  repository.DealRepository
	docStore  storage.DocumentStore
}

func NewHttpAPIHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	e *echo.Echo,
	validator *goValidator.Validate,
	svc *service.Service,
	dealRepo repository.DealRepository,
	docStore storage.DocumentStore,
) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		echo:      e,
		validator: validator,
		service:   svc,
		dealRepo:  dealRepo,
		docStore:  docStore,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	base := h.echo.Group("/api")
	base.Use(middleware.NewRateLimiterMiddleware())
	h.SetupDeals(base)
}

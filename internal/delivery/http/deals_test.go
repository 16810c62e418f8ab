package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"dealpipe/config"
	"dealpipe/internal/model"
	"dealpipe/internal/repository"
	"dealpipe/internal/service"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/storage"

	"github.com/glebarez/sqlite"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type fakeDocStore struct {
	objects map[string][]byte
}

func (s *fakeDocStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (s *fakeDocStore) Put(ctx context.Context, key string, data []byte) error {
	s.objects[key] = data
	return nil
}

type fakeDispatcher struct {
	dispatched []uuid.UUID
	err        error
}

func (d *fakeDispatcher) Dispatch(dealID uuid.UUID) error {
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, dealID)
	return nil
}

func (d *fakeDispatcher) Start(ctx context.Context) {}
func (d *fakeDispatcher) Stop()                     {}

type handlerFixture struct {
	handler    *HttpAPIHandler
	echo       *echo.Echo
	repo       repository.DealRepository
	docStore   *fakeDocStore
	dispatcher *fakeDispatcher
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Deal{}, &model.Founder{}, &model.Assessment{}))

	cfg := &config.Config{}
	cfg.Upload.MaxSizeBytes = 1 << 20

	repo := repository.NewDealRepository(db)
	docStore := &fakeDocStore{objects: map[string][]byte{}}
	dispatcher := &fakeDispatcher{}
	e := echo.New()

	handler := NewHttpAPIHandler(
		context.Background(),
		cfg,
		logger.NewNop(),
		e,
		goValidator.New(),
		&service.Service{Dispatcher: dispatcher},
		repo,
		docStore,
	)
	return &handlerFixture{
		handler:    handler,
		echo:       e,
		repo:       repo,
		docStore:   docStore,
		dispatcher: dispatcher,
	}
}

func multipartDeck(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("pitch_deck", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDeal(t *testing.T) {
	t.Run("accepts a pdf and dispatches it", func(t *testing.T) {
		f := newHandlerFixture(t)
		body, contentType := multipartDeck(t, "acme.pdf", []byte("%PDF-1.4 fake"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/deals", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.UploadDeal(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, f.dispatcher.dispatched, 1)

		deal, err := f.repo.GetByID(context.Background(), f.dispatcher.dispatched[0])
		require.NoError(t, err)
		assert.Equal(t, model.StatusUploaded, deal.Status)
		assert.Contains(t, f.docStore.objects, deal.PitchDeckKey)
	})

	t.Run("rejects non-pdf files", func(t *testing.T) {
		f := newHandlerFixture(t)
		body, contentType := multipartDeck(t, "acme.docx", []byte("not a pdf"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/deals", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.UploadDeal(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.dispatcher.dispatched)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/deals", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.UploadDeal(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("marks the deal failed when dispatch is rejected", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.dispatcher.err = service.ErrQueueFull
		body, contentType := multipartDeck(t, "acme.pdf", []byte("%PDF-1.4 fake"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/deals", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.UploadDeal(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		deals, err := f.repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Equal(t, model.StatusFailed, deals[0].Status)
		assert.Contains(t, deals[0].ErrorMessage, "failed to start processing")
	})
}

func TestGetDealStatus(t *testing.T) {
	t.Run("omits error message unless failed", func(t *testing.T) {
		f := newHandlerFixture(t)
		ctx := context.Background()

		deal := &model.Deal{Status: model.StatusProcessing, ErrorMessage: "stale message from a prior run"}
		require.NoError(t, f.repo.Create(ctx, deal))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(deal.ID.String())

		require.NoError(t, f.handler.GetDealStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Status       string `json:"status"`
				ErrorMessage string `json:"error_message,omitempty"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "processing", resp.Data.Status)
		assert.Empty(t, resp.Data.ErrorMessage)
	})

	t.Run("includes error message when failed", func(t *testing.T) {
		f := newHandlerFixture(t)
		ctx := context.Background()

		deal := &model.Deal{Status: model.StatusFailed, ErrorMessage: "no text could be extracted from PDF"}
		require.NoError(t, f.repo.Create(ctx, deal))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(deal.ID.String())

		require.NoError(t, f.handler.GetDealStatus(c))

		var resp struct {
			Data struct {
				ErrorMessage string `json:"error_message"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "no text could be extracted from PDF", resp.Data.ErrorMessage)
	})

	t.Run("unknown deal returns not found", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())

		require.NoError(t, f.handler.GetDealStatus(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListDeals(t *testing.T) {
	t.Run("rejects unknown status filter", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/?status=bogus", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.ListDeals(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filters by status", func(t *testing.T) {
		f := newHandlerFixture(t)
		ctx := context.Background()

		require.NoError(t, f.repo.Create(ctx, &model.Deal{Status: model.StatusCompleted, CompanyName: "Acme Robotics"}))
		require.NoError(t, f.repo.Create(ctx, &model.Deal{Status: model.StatusFailed}))

		req := httptest.NewRequest(http.MethodGet, "/?status=completed", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.ListDeals(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "completed", resp.Data[0].Status)
	})
}

func TestReprocessDeal(t *testing.T) {
	t.Run("schedules a rerun for an existing deal", func(t *testing.T) {
		f := newHandlerFixture(t)
		ctx := context.Background()

		deal := &model.Deal{Status: model.StatusFailed, PitchDeckKey: "pitch_decks/acme.pdf"}
		require.NoError(t, f.repo.Create(ctx, deal))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(deal.ID.String())

		require.NoError(t, f.handler.ReprocessDeal(c))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, []uuid.UUID{deal.ID}, f.dispatcher.dispatched)
	})

	t.Run("rejects when the queue is full", func(t *testing.T) {
		f := newHandlerFixture(t)
		ctx := context.Background()

		deal := &model.Deal{Status: model.StatusFailed}
		require.NoError(t, f.repo.Create(ctx, deal))
		f.dispatcher.err = service.ErrQueueFull

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(deal.ID.String())

		require.NoError(t, f.handler.ReprocessDeal(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

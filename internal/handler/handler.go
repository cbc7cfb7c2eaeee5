// Package handler содержит HTTP-обработчики API микросайта клуба.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/clubsite-analytics/internal/analytics"
	"github.com/mmeshcher/clubsite-analytics/internal/middleware"
	"github.com/mmeshcher/clubsite-analytics/internal/model"
	"github.com/mmeshcher/clubsite-analytics/internal/repository"
	"github.com/mmeshcher/clubsite-analytics/internal/slots"
	"github.com/mmeshcher/clubsite-analytics/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	GetClub(ctx context.Context) (*model.Club, error)
	UpdateSettings(ctx context.Context, settings model.Settings) error
	AddCourt(ctx context.Context, draft model.CourtDraft) (*model.Court, error)
	RemoveCourt(ctx context.Context, id string) error
	AddMerchItem(ctx context.Context, draft model.MerchItemDraft) (*model.MerchItem, error)
	RemoveMerchItem(ctx context.Context, id string) error
	ListSlots(ctx context.Context, day time.Time) ([]model.Slot, error)
	GetAnalytics(ctx context.Context, today time.Time) (*model.Report, error)
	CreateSnapshot(ctx context.Context, today time.Time) (*model.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error)
}

// Handler реализует HTTP-обработчики API микросайта клуба.
type Handler struct {
	service         Service
	logger          *zap.Logger
	adminMiddleware *middleware.AdminMiddleware
	metricsHandler  http.Handler
	location        *time.Location
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// Даты из запросов разбираются в часовом поясе loc; metrics может быть nil.
func NewHandler(s Service, logger *zap.Logger, admin *middleware.AdminMiddleware, metrics http.Handler, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service:         s,
		logger:          logger,
		adminMiddleware: admin,
		metricsHandler:  metrics,
		location:        loc,
	}
}

// GetClub возвращает клуб: корты, товары и настройки.
func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	club, err := h.service.GetClub(r.Context())
	if err != nil {
		h.writeError(w, "get club error", err)
		return
	}

	writeJSON(w, http.StatusOK, club)
}

// GetSlots возвращает сетку слотов на день из параметра date.
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	day, ok := h.parseDate(r.URL.Query().Get("date"))
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.service.ListSlots(r.Context(), day)
	if err != nil {
		h.writeError(w, "list slots error", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// GetAnalytics возвращает отчёт аналитики за период, заканчивающийся днём today.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	today, ok := h.parseDate(r.URL.Query().Get("today"))
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	report, err := h.service.GetAnalytics(r.Context(), today)
	if err != nil {
		h.writeError(w, "get analytics error", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// UpdateSettings сохраняет настройки клуба.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.Settings
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateSettings(r.Context(), req); err != nil {
		h.writeError(w, "update settings error", err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// AddCourt добавляет корт клуба.
func (h *Handler) AddCourt(w http.ResponseWriter, r *http.Request) {
	var req model.CourtDraft
	if !decodeJSON(w, r, &req) {
		return
	}

	court, err := h.service.AddCourt(r.Context(), req)
	if err != nil {
		h.writeError(w, "add court error", err)
		return
	}

	writeJSON(w, http.StatusCreated, court)
}

// RemoveCourt удаляет корт клуба.
func (h *Handler) RemoveCourt(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveCourt(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "remove court error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMerchItem добавляет товар в магазин клуба.
func (h *Handler) AddMerchItem(w http.ResponseWriter, r *http.Request) {
	var req model.MerchItemDraft
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.AddMerchItem(r.Context(), req)
	if err != nil {
		h.writeError(w, "add merch item error", err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// RemoveMerchItem удаляет товар из магазина клуба.
func (h *Handler) RemoveMerchItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveMerchItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "remove merch item error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateSnapshot сохраняет текущий отчёт аналитики в архив.
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	today, ok := h.parseDate(r.URL.Query().Get("today"))
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	snap, err := h.service.CreateSnapshot(r.Context(), today)
	if err != nil {
		h.writeError(w, "create snapshot error", err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

// ListSnapshots возвращает последние снимки аналитики.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		limit = n
	}

	snaps, err := h.service.ListSnapshots(r.Context(), limit)
	if err != nil {
		h.writeError(w, "list snapshots error", err)
		return
	}

	if len(snaps) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, snaps)
}

// GetSnapshot возвращает снимок аналитики вместе с отчётом.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "get snapshot error", err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// parseDate разбирает дату YYYY-MM-DD. Пустая строка даёт нулевое время, то есть «сегодня».
func (h *Handler) parseDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation(analytics.DateLayout, v, h.location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidSettings), errors.Is(err, analytics.ErrInvalidConfig),
		errors.Is(err, slots.ErrInvalidGrid), errors.Is(err, validation.ErrInvalidCourt),
		errors.Is(err, validation.ErrInvalidMerchItem):
		http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
	case errors.Is(err, analytics.ErrInvalidReference):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	case errors.Is(err, repository.ErrClubNotFound), errors.Is(err, repository.ErrSnapshotNotFound),
		errors.Is(err, repository.ErrCourtNotFound), errors.Is(err, repository.ErrMerchItemNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		h.logger.Error(msg, zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// decodeJSON разбирает тело запроса в v, отклоняя неизвестные поля. При ошибке отвечает 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package service реализует бизнес-логику микросайта клуба.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/clubsite-analytics/internal/analytics"
	"github.com/mmeshcher/clubsite-analytics/internal/cache"
	"github.com/mmeshcher/clubsite-analytics/internal/metrics"
	"github.com/mmeshcher/clubsite-analytics/internal/model"
	"github.com/mmeshcher/clubsite-analytics/internal/repository"
	"github.com/mmeshcher/clubsite-analytics/internal/slots"
	"github.com/mmeshcher/clubsite-analytics/internal/validation"
)

const (
	defaultSnapshotLimit = 20
	maxSnapshotLimit     = 100

	defaultCourtSurface = "Césped sintético"
	defaultMerchName    = "Nuevo producto"
	defaultMerchPrice   = int64(10000)
	defaultMerchStock   = 10
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	GetClub(ctx context.Context) (*model.Club, error)
	UpdateSettings(ctx context.Context, s model.Settings) error
	AddCourt(ctx context.Context, c model.Court) (*model.Court, error)
	RemoveCourt(ctx context.Context, id string) error
	AddMerchItem(ctx context.Context, m model.MerchItem) (*model.MerchItem, error)
	RemoveMerchItem(ctx context.Context, id string) error
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error)
}

// ReportCache описывает кэш готовых отчётов.
type ReportCache interface {
	Get(ctx context.Context, key cache.Key) (*model.Report, bool, error)
	Set(ctx context.Context, key cache.Key, report *model.Report) error
}

// Options задаёт параметры симуляции и часы сервиса.
type Options struct {
	Seed            int64
	Days            int
	Location        *time.Location
	RefreshInterval time.Duration
	Now             func() time.Time
}

// Service содержит бизнес-логику микросайта клуба.
type Service struct {
	repo    Repository
	cache   ReportCache
	metrics *metrics.AnalyticsMetrics
	logger  *zap.Logger
	opts    Options
}

// NewService создаёт сервис. reportCache и m могут быть nil.
func NewService(repo Repository, reportCache ReportCache, m *metrics.AnalyticsMetrics, logger *zap.Logger, opts Options) *Service {
	if opts.Days == 0 {
		opts.Days = analytics.DefaultDays
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:    repo,
		cache:   reportCache,
		metrics: m,
		logger:  logger,
		opts:    opts,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

func (s *Service) today() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// GetClub возвращает клуб для публичной страницы.
func (s *Service) GetClub(ctx context.Context) (*model.Club, error) {
	return s.repo.GetClub(ctx)
}

// UpdateSettings проверяет и сохраняет настройки клуба.
func (s *Service) UpdateSettings(ctx context.Context, settings model.Settings) error {
	if err := validation.ValidateSettings(settings); err != nil {
		return err
	}
	return s.repo.UpdateSettings(ctx, settings)
}

// AddCourt добавляет корт. Без имени корт называется «Cancha N» по порядку, без покрытия получает искусственную траву.
func (s *Service) AddCourt(ctx context.Context, draft model.CourtDraft) (*model.Court, error) {
	court := model.Court{
		Name:    strings.TrimSpace(draft.Name),
		Surface: draft.Surface,
		Indoor:  draft.Indoor,
	}

	if court.Name == "" {
		club, err := s.repo.GetClub(ctx)
		if err != nil {
			return nil, err
		}
		court.Name = fmt.Sprintf("Cancha %d", len(club.Courts)+1)
	}
	if court.Surface == "" {
		court.Surface = defaultCourtSurface
	}

	if err := validation.ValidateCourt(court); err != nil {
		return nil, err
	}
	return s.repo.AddCourt(ctx, court)
}

// RemoveCourt удаляет корт клуба.
func (s *Service) RemoveCourt(ctx context.Context, id string) error {
	return s.repo.RemoveCourt(ctx, id)
}

// AddMerchItem добавляет товар в магазин клуба, заполняя незаданные поля значениями по умолчанию.
func (s *Service) AddMerchItem(ctx context.Context, draft model.MerchItemDraft) (*model.MerchItem, error) {
	item := model.MerchItem{
		Name:  strings.TrimSpace(draft.Name),
		Price: defaultMerchPrice,
		Stock: defaultMerchStock,
	}
	if item.Name == "" {
		item.Name = defaultMerchName
	}
	if draft.Price != nil {
		item.Price = *draft.Price
	}
	if draft.Stock != nil {
		item.Stock = *draft.Stock
	}

	if err := validation.ValidateMerchItem(item); err != nil {
		return nil, err
	}
	return s.repo.AddMerchItem(ctx, item)
}

// RemoveMerchItem удаляет товар из магазина клуба.
func (s *Service) RemoveMerchItem(ctx context.Context, id string) error {
	return s.repo.RemoveMerchItem(ctx, id)
}

// ListSlots возвращает сетку слотов на день day; нулевой day означает сегодня.
func (s *Service) ListSlots(ctx context.Context, day time.Time) ([]model.Slot, error) {
	club, err := s.repo.GetClub(ctx)
	if err != nil {
		return nil, err
	}

	if day.IsZero() {
		day = s.today()
	}

	return slots.Build(day, club.Settings.OpenHour, club.Settings.CloseHour, club.Settings.SlotMinutes)
}

// GetAnalytics возвращает отчёт аналитики за период, заканчивающийся днём today.
// Нулевой today означает текущую дату в часовом поясе сервиса.
func (s *Service) GetAnalytics(ctx context.Context, today time.Time) (*model.Report, error) {
	club, err := s.repo.GetClub(ctx)
	if err != nil {
		return nil, err
	}

	if today.IsZero() {
		today = s.today()
	}

	key := cache.Key{
		Seed:              s.opts.Seed,
		Days:              s.opts.Days,
		PrepaymentPercent: club.Settings.PrepaymentPercent,
		Reference:         today,
	}

	if s.cache != nil {
		report, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.ObserveCacheLookup("error")
			s.logger.Warn("report cache lookup failed", zap.Error(err), zap.String("key", key.String()))
		case ok:
			s.metrics.ObserveCacheLookup("hit")
			return report, nil
		default:
			s.metrics.ObserveCacheLookup("miss")
		}
	}

	started := time.Now()
	report, err := analytics.Simulate(club.Settings.Config(), analytics.Options{
		Seed:  s.opts.Seed,
		Days:  s.opts.Days,
		Today: today,
	})
	s.metrics.ObserveSimulation(time.Since(started).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("simulate analytics: %w", err)
	}
	report.GeneratedAt = s.opts.Now().UTC()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report); err != nil {
			s.logger.Warn("report cache store failed", zap.Error(err), zap.String("key", key.String()))
		}
	}

	return report, nil
}

// CreateSnapshot строит отчёт и сохраняет его в архив.
func (s *Service) CreateSnapshot(ctx context.Context, today time.Time) (*model.Snapshot, error) {
	report, err := s.GetAnalytics(ctx, today)
	if err != nil {
		return nil, err
	}

	snap := model.Snapshot{
		ID:                uuid.NewString(),
		PrepaymentPercent: report.PrepaymentPercent,
		ReferenceDate:     report.Reference,
		Report:            report,
		CreatedAt:         s.opts.Now().UTC(),
	}

	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	s.metrics.ObserveSnapshot()

	return &snap, nil
}

// ListSnapshots возвращает последние сохранённые снимки. Лимит приводится к диапазону [1, 100].
func (s *Service) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	if limit > maxSnapshotLimit {
		limit = maxSnapshotLimit
	}
	return s.repo.ListSnapshots(ctx, limit)
}

// GetSnapshot возвращает снимок по идентификатору.
func (s *Service) GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrSnapshotNotFound
	}
	return s.repo.GetSnapshot(ctx, id)
}

// StartReportRefresh периодически прогревает кэш отчётом за текущий день.
// Блокируется до отмены ctx; без кэша или интервала возвращается сразу.
func (s *Service) StartReportRefresh(ctx context.Context) {
	if s.cache == nil || s.opts.RefreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()

	s.refreshReport(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshReport(ctx)
		}
	}
}

func (s *Service) refreshReport(ctx context.Context) {
	if _, err := s.GetAnalytics(ctx, time.Time{}); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("report refresh failed", zap.Error(err))
	}
}

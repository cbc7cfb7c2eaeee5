// Package repository содержит реализации хранилища клуба и снимков аналитики.
package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrClubNotFound возвращается, если клуб отсутствует в хранилище.
	ErrClubNotFound = errors.New("club not found")
	// ErrSnapshotNotFound возвращается, если снимок аналитики не найден.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrCourtNotFound возвращается, если у клуба нет корта с таким идентификатором.
	ErrCourtNotFound = errors.New("court not found")
	// ErrMerchItemNotFound возвращается, если у клуба нет товара с таким идентификатором.
	ErrMerchItemNotFound = errors.New("merch item not found")
)

// pgxPool описывает подмножество методов pgxpool.Pool, которое использует репозиторий.
type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool   pgxPool
	clubID string
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return newPostgresRepository(pool), nil
}

func newPostgresRepository(pool pgxPool) *PostgresRepository {
	return &PostgresRepository{
		pool:   pool,
		clubID: DemoClubID,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при конфликтах сериализации, взаимоблокировках и обрывах соединения.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(r.delays) {
			break
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// GetClub возвращает клуб вместе с кортами, товарами и настройками.
func (r *PostgresRepository) GetClub(ctx context.Context) (*model.Club, error) {
	c := model.Club{ID: r.clubID}
	err := r.pool.QueryRow(ctx,
		`SELECT name, city, slot_minutes, open_hour, close_hour, prepayment_percent, cancellation_hours
		 FROM clubs
		 WHERE id = $1`,
		r.clubID,
	).Scan(
		&c.Name, &c.City,
		&c.Settings.SlotMinutes, &c.Settings.OpenHour, &c.Settings.CloseHour,
		&c.Settings.PrepaymentPercent, &c.Settings.CancellationHours,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}

	courts, err := r.getCourts(ctx)
	if err != nil {
		return nil, err
	}
	c.Courts = courts

	merch, err := r.getMerch(ctx)
	if err != nil {
		return nil, err
	}
	c.Merch = merch

	return &c, nil
}

func (r *PostgresRepository) getCourts(ctx context.Context) ([]model.Court, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, surface, indoor
		 FROM courts
		 WHERE club_id = $1
		 ORDER BY position`,
		r.clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("select courts: %w", err)
	}
	defer rows.Close()

	res := []model.Court{}
	for rows.Next() {
		var c model.Court
		if err := rows.Scan(&c.ID, &c.Name, &c.Surface, &c.Indoor); err != nil {
			return nil, fmt.Errorf("scan court: %w", err)
		}
		res = append(res, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) getMerch(ctx context.Context) ([]model.MerchItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, stock
		 FROM merch_items
		 WHERE club_id = $1
		 ORDER BY position`,
		r.clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("select merch: %w", err)
	}
	defer rows.Close()

	res := []model.MerchItem{}
	for rows.Next() {
		var m model.MerchItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Stock); err != nil {
			return nil, fmt.Errorf("scan merch item: %w", err)
		}
		res = append(res, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateSettings сохраняет настройки клуба.
func (r *PostgresRepository) UpdateSettings(ctx context.Context, s model.Settings) error {
	return r.withRetry(ctx, func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE clubs
			 SET slot_minutes = $2, open_hour = $3, close_hour = $4,
			     prepayment_percent = $5, cancellation_hours = $6, updated_at = NOW()
			 WHERE id = $1`,
			r.clubID, s.SlotMinutes, s.OpenHour, s.CloseHour, s.PrepaymentPercent, s.CancellationHours,
		)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrClubNotFound
		}
		return nil
	})
}

// AddCourt добавляет корт в конец списка. Идентификатор вида cN назначается по следующей позиции.
func (r *PostgresRepository) AddCourt(ctx context.Context, c model.Court) (*model.Court, error) {
	err := r.withRetry(ctx, func() error {
		err := r.pool.QueryRow(ctx,
			`INSERT INTO courts (id, club_id, name, surface, indoor, position)
			 SELECT 'c' || next.pos, $1, $2, $3, $4, next.pos
			 FROM (SELECT COALESCE(MAX(position), 0) + 1 AS pos FROM courts WHERE club_id = $1) AS next
			 RETURNING id`,
			r.clubID, c.Name, c.Surface, c.Indoor,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert court: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, mapForeignKey(err)
	}
	return &c, nil
}

// RemoveCourt удаляет корт клуба.
func (r *PostgresRepository) RemoveCourt(ctx context.Context, id string) error {
	return r.withRetry(ctx, func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM courts WHERE club_id = $1 AND id = $2`,
			r.clubID, id,
		)
		if err != nil {
			return fmt.Errorf("delete court: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCourtNotFound
		}
		return nil
	})
}

// AddMerchItem добавляет товар в конец каталога. Идентификатор вида mN назначается по следующей позиции.
func (r *PostgresRepository) AddMerchItem(ctx context.Context, m model.MerchItem) (*model.MerchItem, error) {
	err := r.withRetry(ctx, func() error {
		err := r.pool.QueryRow(ctx,
			`INSERT INTO merch_items (id, club_id, name, price, stock, position)
			 SELECT 'm' || next.pos, $1, $2, $3, $4, next.pos
			 FROM (SELECT COALESCE(MAX(position), 0) + 1 AS pos FROM merch_items WHERE club_id = $1) AS next
			 RETURNING id`,
			r.clubID, m.Name, m.Price, m.Stock,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert merch item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, mapForeignKey(err)
	}
	return &m, nil
}

// RemoveMerchItem удаляет товар из каталога клуба.
func (r *PostgresRepository) RemoveMerchItem(ctx context.Context, id string) error {
	return r.withRetry(ctx, func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM merch_items WHERE club_id = $1 AND id = $2`,
			r.clubID, id,
		)
		if err != nil {
			return fmt.Errorf("delete merch item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrMerchItemNotFound
		}
		return nil
	})
}

// mapForeignKey превращает нарушение ссылки на clubs в ErrClubNotFound.
func mapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return ErrClubNotFound
	}
	return err
}

// SaveSnapshot сохраняет отчёт аналитики.
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	payload, err := json.Marshal(snap.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO analytics_snapshots (id, club_id, prepayment_percent, reference_date, report, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			snap.ID, r.clubID, snap.PrepaymentPercent, snap.ReferenceDate, payload, snap.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		return nil
	})
}

// ListSnapshots возвращает последние снимки без тела отчёта, новые первыми.
func (r *PostgresRepository) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, prepayment_percent, reference_date, created_at
		 FROM analytics_snapshots
		 WHERE club_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		r.clubID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer rows.Close()

	var res []model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		if err := rows.Scan(&s.ID, &s.PrepaymentPercent, &s.ReferenceDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		res = append(res, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetSnapshot возвращает снимок вместе с отчётом.
func (r *PostgresRepository) GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	var (
		s       model.Snapshot
		payload []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, prepayment_percent, reference_date, report, created_at
		 FROM analytics_snapshots
		 WHERE club_id = $1 AND id = $2`,
		r.clubID, id,
	).Scan(&s.ID, &s.PrepaymentPercent, &s.ReferenceDate, &payload, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	s.Report = &report

	return &s, nil
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
)

// MemoryRepository хранит клуб и снимки в памяти процесса. Используется, когда DATABASE_URI не задан.
type MemoryRepository struct {
	mu        sync.RWMutex
	club      model.Club
	snapshots map[string]model.Snapshot
	courtSeq  int
	merchSeq  int
}

// NewMemoryRepository создаёт хранилище, заполненное клубом club.
func NewMemoryRepository(club model.Club) *MemoryRepository {
	r := &MemoryRepository{
		club:      cloneClub(club),
		snapshots: make(map[string]model.Snapshot),
	}
	for _, c := range club.Courts {
		r.courtSeq = max(r.courtSeq, idSeq(c.ID, "c"))
	}
	for _, m := range club.Merch {
		r.merchSeq = max(r.merchSeq, idSeq(m.ID, "m"))
	}
	return r
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error {
	return nil
}

// GetClub возвращает копию клуба.
func (r *MemoryRepository) GetClub(ctx context.Context) (*model.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := cloneClub(r.club)
	return &c, nil
}

// UpdateSettings заменяет настройки клуба.
func (r *MemoryRepository) UpdateSettings(ctx context.Context, s model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.club.Settings = s
	return nil
}

// AddCourt добавляет корт и назначает ему следующий идентификатор вида cN.
func (r *MemoryRepository) AddCourt(ctx context.Context, c model.Court) (*model.Court, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courtSeq++
	c.ID = fmt.Sprintf("c%d", r.courtSeq)
	r.club.Courts = append(r.club.Courts, c)
	return &c, nil
}

// RemoveCourt удаляет корт по идентификатору.
func (r *MemoryRepository) RemoveCourt(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.club.Courts {
		if c.ID == id {
			r.club.Courts = append(r.club.Courts[:i], r.club.Courts[i+1:]...)
			return nil
		}
	}
	return ErrCourtNotFound
}

// AddMerchItem добавляет товар и назначает ему следующий идентификатор вида mN.
func (r *MemoryRepository) AddMerchItem(ctx context.Context, m model.MerchItem) (*model.MerchItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.merchSeq++
	m.ID = fmt.Sprintf("m%d", r.merchSeq)
	r.club.Merch = append(r.club.Merch, m)
	return &m, nil
}

// RemoveMerchItem удаляет товар по идентификатору.
func (r *MemoryRepository) RemoveMerchItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.club.Merch {
		if m.ID == id {
			r.club.Merch = append(r.club.Merch[:i], r.club.Merch[i+1:]...)
			return nil
		}
	}
	return ErrMerchItemNotFound
}

// SaveSnapshot сохраняет снимок аналитики.
func (r *MemoryRepository) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[snap.ID] = snap
	return nil
}

// ListSnapshots возвращает до limit последних снимков без отчётов, новые первыми.
func (r *MemoryRepository) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Snapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		s.Report = nil
		res = append(res, s)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}

	return res, nil
}

// GetSnapshot возвращает снимок по идентификатору.
func (r *MemoryRepository) GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.snapshots[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return &s, nil
}

func cloneClub(c model.Club) model.Club {
	out := c
	out.Courts = append([]model.Court(nil), c.Courts...)
	out.Merch = append([]model.MerchItem(nil), c.Merch...)
	return out
}

// idSeq возвращает числовую часть идентификатора prefixN или 0.
func idSeq(id, prefix string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || !strings.HasPrefix(id, prefix) {
		return 0
	}
	return n
}

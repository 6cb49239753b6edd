package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/google/uuid"
)

type memoryState struct {
	candidates map[uuid.UUID]model.Candidate
	items      map[uuid.UUID]model.ActionItem
}

func (st *memoryState) clone() *memoryState {
	next := &memoryState{
		candidates: make(map[uuid.UUID]model.Candidate, len(st.candidates)),
		items:      make(map[uuid.UUID]model.ActionItem, len(st.items)),
	}
	for id, c := range st.candidates {
		next.candidates[id] = c.Clone()
	}
	for id, item := range st.items {
		next.items[id] = item
	}
	return next
}

type stateAccess interface {
	read(fn func(st *memoryState) error) error
	write(fn func(st *memoryState) error) error
}

// MemoryStore keeps everything in process. It is used by tests and by the
// server when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memoryState
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			candidates: make(map[uuid.UUID]model.Candidate),
			items:      make(map[uuid.UUID]model.ActionItem),
		},
		now: time.Now,
	}
}

func (s *MemoryStore) read(fn func(st *memoryState) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

func (s *MemoryStore) write(fn func(st *memoryState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *MemoryStore) Candidates() CandidateRepository {
	return &memoryCandidates{access: s, now: s.now}
}

func (s *MemoryStore) ActionItems() ActionItemRepository {
	return &memoryActionItems{access: s}
}

// Atomic runs fn against a copy of the state and swaps it in only when fn
// succeeds. The store stays locked for the duration.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{state: s.state.clone(), now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

type memoryTx struct {
	state *memoryState
	now   func() time.Time
}

func (t *memoryTx) read(fn func(st *memoryState) error) error  { return fn(t.state) }
func (t *memoryTx) write(fn func(st *memoryState) error) error { return fn(t.state) }

func (t *memoryTx) Candidates() CandidateRepository {
	return &memoryCandidates{access: t, now: t.now}
}

func (t *memoryTx) ActionItems() ActionItemRepository {
	return &memoryActionItems{access: t}
}

func (t *memoryTx) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

type memoryCandidates struct {
	access stateAccess
	now    func() time.Time
}

func (r *memoryCandidates) Create(ctx context.Context, c *model.Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.access.write(func(st *memoryState) error {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		now := r.now()
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		st.candidates[c.ID] = c.Clone()
		return nil
	})
}

func (r *memoryCandidates) Update(ctx context.Context, c *model.Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.access.write(func(st *memoryState) error {
		existing, ok := st.candidates[c.ID]
		if !ok {
			return ErrNotFound
		}
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = r.now()
		st.candidates[c.ID] = c.Clone()
		return nil
	})
}

func (r *memoryCandidates) FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var found model.Candidate
	err := r.access.read(func(st *memoryState) error {
		c, ok := st.candidates[id]
		if !ok {
			return ErrNotFound
		}
		found = c.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *memoryCandidates) FindByEmailAndJobTitle(ctx context.Context, email, jobTitle string) ([]model.Candidate, error) {
	email = strings.TrimSpace(email)
	jobTitle = strings.TrimSpace(jobTitle)

	var out []model.Candidate
	err := r.access.read(func(st *memoryState) error {
		for _, c := range st.candidates {
			if strings.EqualFold(c.Email, email) && strings.EqualFold(c.JobTitle, jobTitle) {
				out = append(out, c.Clone())
			}
		}
		return nil
	})
	sortCandidates(out)
	return out, err
}

func (r *memoryCandidates) List(ctx context.Context, filter CandidateFilter) ([]model.Candidate, int64, error) {
	var all []model.Candidate
	err := r.access.read(func(st *memoryState) error {
		for _, c := range st.candidates {
			if !matchesCandidate(c, filter) {
				continue
			}
			all = append(all, c.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sortCandidates(all)
	return paginate(all, filter.Page, filter.PageSize), int64(len(all)), nil
}

func (r *memoryCandidates) CountByStatus(ctx context.Context) (map[model.CandidateStatus]int64, error) {
	counts := make(map[model.CandidateStatus]int64)
	err := r.access.read(func(st *memoryState) error {
		for _, c := range st.candidates {
			counts[c.Status]++
		}
		return nil
	})
	return counts, err
}

func (r *memoryCandidates) CountByFitCategory(ctx context.Context) (map[model.FitCategory]int64, error) {
	counts := make(map[model.FitCategory]int64)
	err := r.access.read(func(st *memoryState) error {
		for _, c := range st.candidates {
			if c.ScreeningResult != nil {
				counts[c.ScreeningResult.FitCategory]++
			}
		}
		return nil
	})
	return counts, err
}

func matchesCandidate(c model.Candidate, filter CandidateFilter) bool {
	if filter.Status != "" && c.Status != filter.Status {
		return false
	}
	if filter.FitCategory != "" && (c.ScreeningResult == nil || c.ScreeningResult.FitCategory != filter.FitCategory) {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		return strings.Contains(strings.ToLower(c.Name), search) || strings.Contains(strings.ToLower(c.JobTitle), search)
	}
	return true
}

type memoryActionItems struct {
	access stateAccess
}

func (r *memoryActionItems) Create(ctx context.Context, item *model.ActionItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.access.write(func(st *memoryState) error {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *memoryActionItems) FindByID(ctx context.Context, id uuid.UUID) (*model.ActionItem, error) {
	var found model.ActionItem
	err := r.access.read(func(st *memoryState) error {
		item, ok := st.items[id]
		if !ok {
			return ErrNotFound
		}
		found = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *memoryActionItems) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.access.write(func(st *memoryState) error {
		if _, ok := st.items[id]; !ok {
			return ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

func (r *memoryActionItems) DeleteByCandidate(ctx context.Context, candidateID uuid.UUID, types ...model.ActionItemType) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var removed int64
	err := r.access.write(func(st *memoryState) error {
		for id, item := range st.items {
			if item.CandidateID != candidateID || !matchesType(item.Type, types) {
				continue
			}
			delete(st.items, id)
			removed++
		}
		return nil
	})
	return removed, err
}

func (r *memoryActionItems) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.ActionItem, error) {
	items, _, err := r.list(ActionItemFilter{CandidateID: candidateID})
	return items, err
}

func (r *memoryActionItems) List(ctx context.Context, filter ActionItemFilter) ([]model.ActionItem, int64, error) {
	items, total, err := r.list(filter)
	if err != nil {
		return nil, 0, err
	}
	return paginate(items, filter.Page, filter.PageSize), total, nil
}

func (r *memoryActionItems) list(filter ActionItemFilter) ([]model.ActionItem, int64, error) {
	var out []model.ActionItem
	err := r.access.read(func(st *memoryState) error {
		for _, item := range st.items {
			if filter.Type != "" && item.Type != filter.Type {
				continue
			}
			if filter.CandidateID != uuid.Nil && item.CandidateID != filter.CandidateID {
				continue
			}
			out = append(out, item)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, int64(len(out)), err
}

func (r *memoryActionItems) CountByType(ctx context.Context) (map[model.ActionItemType]int64, error) {
	counts := make(map[model.ActionItemType]int64)
	err := r.access.read(func(st *memoryState) error {
		for _, item := range st.items {
			counts[item.Type]++
		}
		return nil
	})
	return counts, err
}

func matchesType(t model.ActionItemType, types []model.ActionItemType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

func sortCandidates(cs []model.Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID.String() < cs[j].ID.String()
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}

func paginate[T any](all []T, page, pageSize int) []T {
	page, pageSize = NormalizePage(page, pageSize)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []T{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

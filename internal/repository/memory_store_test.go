package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCandidate(t *testing.T, s Store, email string, createdAt time.Time) *model.Candidate {
	t.Helper()
	c := &model.Candidate{
		Name:      "Jane",
		Email:     email,
		JobTitle:  "Backend Engineer",
		Status:    model.StatusPending,
		CreatedAt: createdAt,
	}
	require.NoError(t, s.Candidates().Create(context.Background(), c))
	return c
}

func TestMemoryStore_CandidateRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	c := seedCandidate(t, s, "jane@example.com", time.Time{})
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	c.Status = model.StatusScreened
	c.ScreeningResult = &model.ScreeningResult{FitScore: 60}
	require.NoError(t, s.Candidates().Update(ctx, c))

	got, err := s.Candidates().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScreened, got.Status)
	assert.Equal(t, 60, got.ScreeningResult.FitScore)

	got.ScreeningResult.FitScore = 1
	again, err := s.Candidates().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, again.ScreeningResult.FitScore)

	_, err = s.Candidates().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Candidates().Update(ctx, &model.Candidate{ID: uuid.New()}), ErrNotFound)
}

func TestMemoryStore_AtomicRollsBack(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	c := seedCandidate(t, s, "jane@example.com", time.Time{})

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(tx Store) error {
		c.Status = model.StatusInvited
		c.ScreeningResult = &model.ScreeningResult{FitScore: 95}
		if err := tx.Candidates().Update(ctx, c); err != nil {
			return err
		}
		if err := tx.ActionItems().Create(ctx, &model.ActionItem{CandidateID: c.ID, Type: model.ItemReview}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Candidates().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.ScreeningResult)

	items, err := s.ActionItems().ListByCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStore_AtomicCommits(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	c := seedCandidate(t, s, "jane@example.com", time.Time{})

	err := s.Atomic(ctx, func(tx Store) error {
		return tx.ActionItems().Create(ctx, &model.ActionItem{CandidateID: c.ID, Type: model.ItemReview})
	})
	require.NoError(t, err)

	counts, err := s.ActionItems().CountByType(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[model.ItemReview])
}

func TestMemoryStore_DeleteByCandidate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	c := seedCandidate(t, s, "jane@example.com", time.Time{})
	other := seedCandidate(t, s, "john@example.com", time.Time{})

	for _, it := range []model.ActionItem{
		{CandidateID: c.ID, Type: model.ItemReview},
		{CandidateID: c.ID, Type: model.ItemPendingInvite},
		{CandidateID: c.ID, Type: model.ItemDuplicate},
		{CandidateID: other.ID, Type: model.ItemReview},
	} {
		it := it
		require.NoError(t, s.ActionItems().Create(ctx, &it))
	}

	removed, err := s.ActionItems().DeleteByCandidate(ctx, c.ID, model.DecisionItemTypes...)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	left, err := s.ActionItems().ListByCandidate(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, model.ItemDuplicate, left[0].Type)

	removed, err = s.ActionItems().DeleteByCandidate(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestMemoryStore_ListPaginatesNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedCandidate(t, s, "c@example.com", base.Add(time.Duration(i)*time.Hour))
	}

	page, total, err := s.Candidates().List(ctx, CandidateFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(4*time.Hour), page[0].CreatedAt)

	page, _, err = s.Candidates().List(ctx, CandidateFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, _, err = s.Candidates().List(ctx, CandidateFilter{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, total, err = s.Candidates().List(ctx, CandidateFilter{Status: model.StatusInvited})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestMemoryStore_FindByEmailAndJobTitle(t *testing.T) {
	s := NewMemoryStore()
	seedCandidate(t, s, "Jane@Example.com", time.Time{})
	seedCandidate(t, s, "john@example.com", time.Time{})

	found, err := s.Candidates().FindByEmailAndJobTitle(context.Background(), "jane@example.com", " backend engineer ")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	_, size = NormalizePage(2, 500)
	assert.Equal(t, 100, size)
}

func TestMemoryStore_FitCategoryFilterSkipsUnscored(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedCandidate(t, s, "pending@example.com", time.Time{})
	scored := seedCandidate(t, s, "scored@example.com", time.Time{})
	scored.Status = model.StatusScreened
	scored.ScreeningResult = &model.ScreeningResult{FitScore: 60, FitCategory: model.FitMedium}
	require.NoError(t, s.Candidates().Update(ctx, scored))

	page, total, err := s.Candidates().List(ctx, CandidateFilter{FitCategory: model.FitMedium})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, scored.ID, page[0].ID)

	counts, err := s.Candidates().CountByFitCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.FitCategory]int64{model.FitMedium: 1}, counts)
}

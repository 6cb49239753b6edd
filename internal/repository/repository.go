package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

// CandidateFilter narrows List. Search matches name or job title,
// case-insensitively; FitCategory only matches screened candidates.
type CandidateFilter struct {
	Status      model.CandidateStatus
	FitCategory model.FitCategory
	Search      string
	Page        int
	PageSize    int
}

type ActionItemFilter struct {
	Type        model.ActionItemType
	CandidateID uuid.UUID
	Page        int
	PageSize    int
}

// CandidateRepository persists candidates. Update writes status and
// screening result in a single row write.
type CandidateRepository interface {
	Create(ctx context.Context, c *model.Candidate) error
	Update(ctx context.Context, c *model.Candidate) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	FindByEmailAndJobTitle(ctx context.Context, email, jobTitle string) ([]model.Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]model.Candidate, int64, error)
	CountByStatus(ctx context.Context) (map[model.CandidateStatus]int64, error)
	CountByFitCategory(ctx context.Context) (map[model.FitCategory]int64, error)
}

type ActionItemRepository interface {
	Create(ctx context.Context, item *model.ActionItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ActionItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByCandidate removes the candidate's items of the given types, or
	// all of them when no type is given.
	DeleteByCandidate(ctx context.Context, candidateID uuid.UUID, types ...model.ActionItemType) (int64, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.ActionItem, error)
	List(ctx context.Context, filter ActionItemFilter) ([]model.ActionItem, int64, error)
	CountByType(ctx context.Context) (map[model.ActionItemType]int64, error)
}

// Store groups both repositories. Writes made inside Atomic become visible
// together or not at all.
type Store interface {
	Candidates() CandidateRepository
	ActionItems() ActionItemRepository
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

// NormalizePage clamps paging input to page >= 1 and 1..100 items per page.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

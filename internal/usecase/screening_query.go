package usecase

import (
	"context"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/fadilmartias/recruitai/internal/repository"
	"github.com/google/uuid"
)

type CandidateDetail struct {
	Candidate   *model.Candidate
	ActionItems []model.ActionItem
}

type CandidatePage struct {
	Candidates []model.Candidate
	Page       int
	PageSize   int
	Total      int64
}

type ActionItemPage struct {
	ActionItems []model.ActionItem
	Page        int
	PageSize    int
	Total       int64
}

// Stats counts every status and item type, including those with no rows.
type Stats struct {
	TotalCandidates  int64
	ByStatus         map[model.CandidateStatus]int64
	ByFitCategory    map[model.FitCategory]int64
	TotalActionItems int64
	ByActionItemType map[model.ActionItemType]int64
}

func (uc *ScreeningUsecase) GetCandidate(ctx context.Context, id uuid.UUID) (*CandidateDetail, error) {
	candidate, err := uc.loadCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.store.ActionItems().ListByCandidate(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "list action items", Cause: err}
	}
	return &CandidateDetail{Candidate: candidate, ActionItems: items}, nil
}

func (uc *ScreeningUsecase) ListCandidates(ctx context.Context, filter repository.CandidateFilter) (*CandidatePage, error) {
	filter.Page, filter.PageSize = repository.NormalizePage(filter.Page, filter.PageSize)
	candidates, total, err := uc.store.Candidates().List(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list candidates", Cause: err}
	}
	return &CandidatePage{Candidates: candidates, Page: filter.Page, PageSize: filter.PageSize, Total: total}, nil
}

func (uc *ScreeningUsecase) ListActionItems(ctx context.Context, filter repository.ActionItemFilter) (*ActionItemPage, error) {
	filter.Page, filter.PageSize = repository.NormalizePage(filter.Page, filter.PageSize)
	items, total, err := uc.store.ActionItems().List(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list action items", Cause: err}
	}
	return &ActionItemPage{ActionItems: items, Page: filter.Page, PageSize: filter.PageSize, Total: total}, nil
}

func (uc *ScreeningUsecase) Stats(ctx context.Context) (*Stats, error) {
	byStatus, err := uc.store.Candidates().CountByStatus(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "count candidates", Cause: err}
	}
	byFit, err := uc.store.Candidates().CountByFitCategory(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "count fit categories", Cause: err}
	}
	byType, err := uc.store.ActionItems().CountByType(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "count action items", Cause: err}
	}

	stats := &Stats{
		ByStatus:         make(map[model.CandidateStatus]int64),
		ByFitCategory:    make(map[model.FitCategory]int64),
		ByActionItemType: make(map[model.ActionItemType]int64),
	}
	for _, s := range model.CandidateStatuses() {
		stats.ByStatus[s] = byStatus[s]
		stats.TotalCandidates += byStatus[s]
	}
	for _, c := range model.FitCategories() {
		stats.ByFitCategory[c] = byFit[c]
	}
	for _, t := range model.ActionItemTypes() {
		stats.ByActionItemType[t] = byType[t]
		stats.TotalActionItems += byType[t]
	}
	return stats, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionItemGormRepository struct {
	db *gorm.DB
}

func NewActionItemRepository(db *gorm.DB) *ActionItemGormRepository {
	return &ActionItemGormRepository{db}
}

func (r *ActionItemGormRepository) Create(ctx context.Context, item *model.ActionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ActionItemGormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ActionItem, error) {
	var item model.ActionItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ActionItemGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.ActionItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ActionItemGormRepository) DeleteByCandidate(ctx context.Context, candidateID uuid.UUID, types ...model.ActionItemType) (int64, error) {
	q := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID)
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		q = q.Where("type IN ?", names)
	}
	res := q.Delete(&model.ActionItem{})
	return res.RowsAffected, res.Error
}

func (r *ActionItemGormRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.ActionItem, error) {
	var items []model.ActionItem
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ActionItemGormRepository) List(ctx context.Context, filter ActionItemFilter) ([]model.ActionItem, int64, error) {
	page, pageSize := NormalizePage(filter.Page, filter.PageSize)

	q := r.db.WithContext(ctx).Model(&model.ActionItem{})
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if filter.CandidateID != uuid.Nil {
		q = q.Where("candidate_id = ?", filter.CandidateID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.ActionItem
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *ActionItemGormRepository) CountByType(ctx context.Context) (map[model.ActionItemType]int64, error) {
	var rows []struct {
		Type  model.ActionItemType
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&model.ActionItem{}).
		Select("type, COUNT(*) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ActionItemType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Total
	}
	return counts, nil
}

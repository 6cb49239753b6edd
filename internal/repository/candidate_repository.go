package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type CandidateGormRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateGormRepository {
	return &CandidateGormRepository{db}
}

func (r *CandidateGormRepository) Create(ctx context.Context, c *model.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CandidateGormRepository) Update(ctx context.Context, c *model.Candidate) error {
	res := r.db.WithContext(ctx).Model(c).Select("*").Omit("created_at").Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CandidateGormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CandidateGormRepository) FindByEmailAndJobTitle(ctx context.Context, email, jobTitle string) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ? AND LOWER(job_title) = ?", strings.ToLower(strings.TrimSpace(email)), strings.ToLower(strings.TrimSpace(jobTitle))).
		Order("created_at DESC").
		Find(&candidates).Error
	return candidates, err
}

func (r *CandidateGormRepository) List(ctx context.Context, filter CandidateFilter) ([]model.Candidate, int64, error) {
	page, pageSize := NormalizePage(filter.Page, filter.PageSize)

	q := r.db.WithContext(ctx).Model(&model.Candidate{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.FitCategory != "" {
		q = q.Where("screening_result->>'fit_category' = ?", string(filter.FitCategory))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(job_title) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var candidates []model.Candidate
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&candidates).Error
	return candidates, total, err
}

func (r *CandidateGormRepository) CountByStatus(ctx context.Context) (map[model.CandidateStatus]int64, error) {
	var rows []struct {
		Status model.CandidateStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.CandidateStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *CandidateGormRepository) CountByFitCategory(ctx context.Context) (map[model.FitCategory]int64, error) {
	var rows []struct {
		FitCategory model.FitCategory
		Total       int64
	}
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).
		Select("screening_result->>'fit_category' AS fit_category, COUNT(*) AS total").
		Where("screening_result IS NOT NULL").
		Group("screening_result->>'fit_category'").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.FitCategory]int64, len(rows))
	for _, row := range rows {
		counts[row.FitCategory] = row.Total
	}
	return counts, nil
}

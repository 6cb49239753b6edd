package repository

import (
	"context"

	"github.com/fadilmartias/recruitai/internal/model"
	"gorm.io/gorm"
)

// GormStore is the postgres-backed Store.
type GormStore struct {
	db          *gorm.DB
	candidates  *CandidateGormRepository
	actionItems *ActionItemGormRepository
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:          db,
		candidates:  NewCandidateRepository(db),
		actionItems: NewActionItemRepository(db),
	}
}

func (s *GormStore) Candidates() CandidateRepository {
	return s.candidates
}

func (s *GormStore) ActionItems() ActionItemRepository {
	return s.actionItems
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Candidate{}, &model.ActionItem{})
}

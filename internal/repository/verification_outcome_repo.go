package repository

import (
	"context"

	"verifai/internal/entity"

	"gorm.io/gorm"
)

type VerificationOutcomeRepository interface {
	Create(ctx context.Context, outcome *entity.VerificationOutcome) error
	List(ctx context.Context) ([]entity.VerificationOutcome, error)
	ListByTokenIDs(ctx context.Context, tokenIDs []string) ([]entity.VerificationOutcome, error)
	ListRecent(ctx context.Context, limit int) ([]entity.VerificationOutcome, error)
	CountByState(ctx context.Context, state entity.VerificationState) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type verificationOutcomeRepository struct {
	db *gorm.DB
}

func NewVerificationOutcomeRepository(db *gorm.DB) VerificationOutcomeRepository {
	return &verificationOutcomeRepository{db: db}
}

func (r *verificationOutcomeRepository) Create(ctx context.Context, o *entity.VerificationOutcome) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *verificationOutcomeRepository) List(ctx context.Context) ([]entity.VerificationOutcome, error) {
	var outcomes []entity.VerificationOutcome
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&outcomes).Error
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *verificationOutcomeRepository) ListByTokenIDs(ctx context.Context, tokenIDs []string) ([]entity.VerificationOutcome, error) {
	if len(tokenIDs) == 0 {
		return []entity.VerificationOutcome{}, nil
	}
	var outcomes []entity.VerificationOutcome
	err := r.db.WithContext(ctx).
		Where("token_id IN ?", tokenIDs).
		Order("created_at DESC").
		Find(&outcomes).Error
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *verificationOutcomeRepository) ListRecent(ctx context.Context, limit int) ([]entity.VerificationOutcome, error) {
	var outcomes []entity.VerificationOutcome
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&outcomes).Error
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *verificationOutcomeRepository) CountByState(ctx context.Context, state entity.VerificationState) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.VerificationOutcome{}).
		Where("verification_state = ?", state).
		Count(&count).Error
	return count, err
}

func (r *verificationOutcomeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.VerificationOutcome{}).
		Count(&count).Error
	return count, err
}

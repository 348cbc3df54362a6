package repository

import (
	"context"
	"errors"
	"time"

	"verifai/internal/entity"

	"gorm.io/gorm"
)

type VerificationTokenRepository interface {
	Create(ctx context.Context, token *entity.VerificationToken) error
	FindByID(ctx context.Context, id string) (*entity.VerificationToken, error)
	List(ctx context.Context) ([]entity.VerificationToken, error)
	ListByIssuingKey(ctx context.Context, keyID string) ([]entity.VerificationToken, error)
	CountByStatus(ctx context.Context, status entity.TokenStatus) (int64, error)

	// Consume atomically transitions an active, unused token to a terminal
	// status. It reports false when no row matched, meaning the token is
	// missing, already used, or no longer active; callers re-read the row
	// to tell those apart. The conditional update is the only consumption
	// path, so concurrent submissions against one token serialize in the
	// database rather than in process memory.
	Consume(ctx context.Context, id string, target entity.TokenStatus, markUsed bool) (bool, error)
}

type verificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) Create(ctx context.Context, t *entity.VerificationToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *verificationTokenRepository) FindByID(ctx context.Context, id string) (*entity.VerificationToken, error) {
	var token entity.VerificationToken
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&token).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &token, err
}

func (r *verificationTokenRepository) List(ctx context.Context) ([]entity.VerificationToken, error) {
	var tokens []entity.VerificationToken
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *verificationTokenRepository) ListByIssuingKey(ctx context.Context, keyID string) ([]entity.VerificationToken, error) {
	var tokens []entity.VerificationToken
	err := r.db.WithContext(ctx).
		Where("issuing_key_id = ?", keyID).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *verificationTokenRepository) CountByStatus(ctx context.Context, status entity.TokenStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.VerificationToken{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *verificationTokenRepository) Consume(
	ctx context.Context,
	id string,
	target entity.TokenStatus,
	markUsed bool,
) (bool, error) {
	updates := map[string]any{"status": target}
	if markUsed {
		now := time.Now()
		updates["used"] = true
		updates["used_at"] = &now
	}

	result := r.db.WithContext(ctx).
		Model(&entity.VerificationToken{}).
		Where("id = ? AND status = ? AND used = false", id, entity.TokenStatusActive).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"verifai/internal/entity"

	"gorm.io/gorm"
)

type APIKeyRepository interface {
	Create(ctx context.Context, key *entity.APIKey) error
	FindByID(ctx context.Context, id string) (*entity.APIKey, error)
	FindByHash(ctx context.Context, keyHash string) (*entity.APIKey, error)
	List(ctx context.Context) ([]entity.APIKey, error)
	Update(ctx context.Context, key *entity.APIKey) error
	TouchUsage(ctx context.Context, id string) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *entity.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepository) FindByID(ctx context.Context, id string) (*entity.APIKey, error) {
	var key entity.APIKey
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&key).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &key, err
}

func (r *apiKeyRepository) FindByHash(ctx context.Context, keyHash string) (*entity.APIKey, error) {
	var key entity.APIKey
	err := r.db.WithContext(ctx).
		Where("key_hash = ?", keyHash).
		First(&key).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &key, err
}

func (r *apiKeyRepository) List(ctx context.Context) ([]entity.APIKey, error) {
	var keys []entity.APIKey
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepository) Update(ctx context.Context, key *entity.APIKey) error {
	return r.db.WithContext(ctx).Save(key).Error
}

func (r *apiKeyRepository) TouchUsage(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.APIKey{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_used_at": &now,
			"usage_count":  gorm.Expr("usage_count + 1"),
		}).
		Error
}

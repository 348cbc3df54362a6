package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"verifai/internal/entity"
	"verifai/internal/repository"
	"verifai/internal/utils"

	"gorm.io/datatypes"
)

const apiKeyPrefix = "verifai_live_"

var defaultKeyPermissions = []string{"verification:create", "verification:read"}

type CreateAPIKeyInput struct {
	Name          string
	Company       string
	ExpiresInDays int
	Permissions   []string
	RateLimit     int
	Environment   string
}

// CreateAPIKeyResult carries the raw key exactly once; it is never stored
// or shown again.
type CreateAPIKeyResult struct {
	RawKey string
	Key    *entity.APIKey
}

type APIKeyService struct {
	keys  repository.APIKeyRepository
	clock Clock
}

func NewAPIKeyService(keys repository.APIKeyRepository, clock Clock) *APIKeyService {
	return &APIKeyService{keys: keys, clock: clock}
}

func (s *APIKeyService) Create(ctx context.Context, input CreateAPIKeyInput) (*CreateAPIKeyResult, error) {
	if err := requireFields(map[string]string{
		"name":    input.Name,
		"company": input.Company,
	}); err != nil {
		return nil, err
	}

	randomPart, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, err
	}
	rawKey := apiKeyPrefix + randomPart

	idPart, err := utils.GenerateRandomToken(8)
	if err != nil {
		return nil, err
	}

	permissions := input.Permissions
	if len(permissions) == 0 {
		permissions = defaultKeyPermissions
	}
	permissionsJSON, err := json.Marshal(permissions)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var expiresAt *time.Time
	if input.ExpiresInDays > 0 {
		t := now.Add(time.Duration(input.ExpiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	rateLimit := input.RateLimit
	if rateLimit <= 0 {
		rateLimit = 1000
	}
	environment := input.Environment
	if strings.TrimSpace(environment) == "" {
		environment = "production"
	}

	key := &entity.APIKey{
		ID:          "key_" + idPart,
		Name:        input.Name,
		Company:     input.Company,
		KeyPrefix:   rawKey[:20] + "...",
		KeyHash:     utils.HashAPIKey(rawKey),
		Active:      true,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
		Permissions: datatypes.JSON(permissionsJSON),
		RateLimit:   rateLimit,
		Environment: environment,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, err
	}
	return &CreateAPIKeyResult{RawKey: rawKey, Key: key}, nil
}

// Authenticate resolves a raw API key to its active record and bumps its
// usage counters.
func (s *APIKeyService) Authenticate(ctx context.Context, rawKey string) (*entity.APIKey, error) {
	if strings.TrimSpace(rawKey) == "" {
		return nil, fmt.Errorf("%w: missing api key", ErrUnauthorized)
	}
	key, err := s.keys.FindByHash(ctx, utils.HashAPIKey(rawKey))
	if err != nil {
		return nil, err
	}
	if key == nil || !key.Usable(s.now()) {
		return nil, fmt.Errorf("%w: invalid api key", ErrUnauthorized)
	}
	if err := s.keys.TouchUsage(ctx, key.ID); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *APIKeyService) List(ctx context.Context) ([]entity.APIKey, error) {
	return s.keys.List(ctx)
}

type UpdateAPIKeyInput struct {
	Name        *string
	Active      *bool
	Permissions []string
	RateLimit   *int
}

func (s *APIKeyService) Update(ctx context.Context, id string, input UpdateAPIKeyInput) (*entity.APIKey, error) {
	key, err := s.keys.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("%w: api key not found", ErrNotFound)
	}

	if input.Name != nil {
		key.Name = *input.Name
	}
	if input.Active != nil {
		key.Active = *input.Active
	}
	if input.Permissions != nil {
		permissionsJSON, err := json.Marshal(input.Permissions)
		if err != nil {
			return nil, err
		}
		key.Permissions = datatypes.JSON(permissionsJSON)
	}
	if input.RateLimit != nil {
		key.RateLimit = *input.RateLimit
	}
	if err := s.keys.Update(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *APIKeyService) Deactivate(ctx context.Context, id string) error {
	key, err := s.keys.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if key == nil {
		return fmt.Errorf("%w: api key not found", ErrNotFound)
	}
	key.Active = false
	if key.ExpiresAt == nil {
		now := s.now()
		key.ExpiresAt = &now
	}
	return s.keys.Update(ctx, key)
}

func (s *APIKeyService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

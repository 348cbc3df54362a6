package dto

import (
	"encoding/json"
	"time"

	"verifai/internal/entity"
)

type CreateAPIKeyRequest struct {
	Name          string   `json:"name" validate:"required"`
	Company       string   `json:"company" validate:"required"`
	ExpiresInDays int      `json:"expiresInDays" validate:"omitempty,gt=0"`
	Permissions   []string `json:"permissions"`
	RateLimit     int      `json:"rateLimit" validate:"omitempty,gt=0"`
	Environment   string   `json:"environment"`
}

type CreateAPIKeyResponse struct {
	Message    string         `json:"message"`
	Warning    string         `json:"warning"`
	Status     string         `json:"status"`
	APIKey     string         `json:"apiKey"`
	APIKeyData APIKeyResponse `json:"apiKeyData"`
}

type UpdateAPIKeyRequest struct {
	Name        *string  `json:"name"`
	Active      *bool    `json:"active"`
	Permissions []string `json:"permissions"`
	RateLimit   *int     `json:"rateLimit" validate:"omitempty,gt=0"`
}

type APIKeyResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Company     string          `json:"company"`
	KeyPrefix   string          `json:"keyPrefix"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	LastUsedAt  *time.Time      `json:"lastUsedAt,omitempty"`
	UsageCount  int64           `json:"usageCount"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
	RateLimit   int             `json:"rateLimit"`
	Environment string          `json:"environment"`
}

func APIKeyResponseFromEntity(key *entity.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          key.ID,
		Name:        key.Name,
		Company:     key.Company,
		KeyPrefix:   key.KeyPrefix,
		Active:      key.Active,
		CreatedAt:   key.CreatedAt,
		ExpiresAt:   key.ExpiresAt,
		LastUsedAt:  key.LastUsedAt,
		UsageCount:  key.UsageCount,
		Permissions: json.RawMessage(key.Permissions),
		RateLimit:   key.RateLimit,
		Environment: key.Environment,
	}
}

func APIKeyResponsesFromEntities(keys []entity.APIKey) []APIKeyResponse {
	responses := make([]APIKeyResponse, 0, len(keys))
	for i := range keys {
		responses = append(responses, APIKeyResponseFromEntity(&keys[i]))
	}
	return responses
}

package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"verifai/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKeyRepo struct {
	mu    sync.Mutex
	items map[string]entity.APIKey
}

func newMemoryKeyRepo() *memoryKeyRepo {
	return &memoryKeyRepo{items: make(map[string]entity.APIKey)}
}

func (r *memoryKeyRepo) Create(_ context.Context, key *entity.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key.ID] = *key
	return nil
}

func (r *memoryKeyRepo) FindByID(_ context.Context, id string) (*entity.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &key, nil
}

func (r *memoryKeyRepo) FindByHash(_ context.Context, keyHash string) (*entity.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.items {
		if key.KeyHash == keyHash {
			k := key
			return &k, nil
		}
	}
	return nil, nil
}

func (r *memoryKeyRepo) List(_ context.Context) ([]entity.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]entity.APIKey, 0, len(r.items))
	for _, key := range r.items {
		keys = append(keys, key)
	}
	return keys, nil
}

func (r *memoryKeyRepo) Update(_ context.Context, key *entity.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key.ID] = *key
	return nil
}

func (r *memoryKeyRepo) TouchUsage(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.items[id]
	if !ok {
		return nil
	}
	now := time.Now()
	key.LastUsedAt = &now
	key.UsageCount++
	r.items[id] = key
	return nil
}

func newKeyServiceFixture() (*APIKeyService, *memoryKeyRepo, *fakeClock) {
	repo := newMemoryKeyRepo()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewAPIKeyService(repo, clock), repo, clock
}

func TestCreateAPIKey(t *testing.T) {
	svc, repo, clock := newKeyServiceFixture()

	result, err := svc.Create(context.Background(), CreateAPIKeyInput{
		Name:          "CI integration",
		Company:       "Acme Corp",
		ExpiresInDays: 30,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.RawKey, "verifai_live_"))
	assert.True(t, strings.HasPrefix(result.Key.ID, "key_"))
	assert.Equal(t, result.RawKey[:20]+"...", result.Key.KeyPrefix)
	assert.Len(t, result.Key.KeyHash, 64)
	assert.True(t, result.Key.Active)
	assert.Equal(t, 1000, result.Key.RateLimit)
	assert.Equal(t, "production", result.Key.Environment)
	require.NotNil(t, result.Key.ExpiresAt)
	assert.Equal(t, clock.now.Add(30*24*time.Hour), *result.Key.ExpiresAt)

	stored, err := repo.FindByID(context.Background(), result.Key.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, result.RawKey, stored.KeyHash)
}

func TestCreateAPIKeyMissingName(t *testing.T) {
	svc, _, _ := newKeyServiceFixture()
	_, err := svc.Create(context.Background(), CreateAPIKeyInput{Company: "Acme Corp"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthenticateAPIKey(t *testing.T) {
	svc, repo, _ := newKeyServiceFixture()

	result, err := svc.Create(context.Background(), CreateAPIKeyInput{
		Name:    "CI integration",
		Company: "Acme Corp",
	})
	require.NoError(t, err)

	key, err := svc.Authenticate(context.Background(), result.RawKey)
	require.NoError(t, err)
	assert.Equal(t, result.Key.ID, key.ID)

	stored, err := repo.FindByID(context.Background(), key.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.UsageCount)
	assert.NotNil(t, stored.LastUsedAt)
}

func TestAuthenticateUnknownKey(t *testing.T) {
	svc, _, _ := newKeyServiceFixture()
	_, err := svc.Authenticate(context.Background(), "verifai_live_nonsense")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateExpiredKey(t *testing.T) {
	svc, _, clock := newKeyServiceFixture()

	result, err := svc.Create(context.Background(), CreateAPIKeyInput{
		Name:          "CI integration",
		Company:       "Acme Corp",
		ExpiresInDays: 1,
	})
	require.NoError(t, err)

	clock.now = clock.now.Add(48 * time.Hour)
	_, err = svc.Authenticate(context.Background(), result.RawKey)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeactivateAPIKey(t *testing.T) {
	svc, repo, _ := newKeyServiceFixture()

	result, err := svc.Create(context.Background(), CreateAPIKeyInput{
		Name:    "CI integration",
		Company: "Acme Corp",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), result.Key.ID))

	stored, err := repo.FindByID(context.Background(), result.Key.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	_, err = svc.Authenticate(context.Background(), result.RawKey)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateAPIKey(t *testing.T) {
	svc, _, _ := newKeyServiceFixture()

	result, err := svc.Create(context.Background(), CreateAPIKeyInput{
		Name:    "CI integration",
		Company: "Acme Corp",
	})
	require.NoError(t, err)

	name := "Renamed key"
	rateLimit := 250
	updated, err := svc.Update(context.Background(), result.Key.ID, UpdateAPIKeyInput{
		Name:      &name,
		RateLimit: &rateLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed key", updated.Name)
	assert.Equal(t, 250, updated.RateLimit)
}

func TestUpdateUnknownAPIKey(t *testing.T) {
	svc, _, _ := newKeyServiceFixture()
	_, err := svc.Update(context.Background(), "key_missing", UpdateAPIKeyInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

package service

import (
	"context"
	"testing"

	"verifai/internal/entity"
	"verifai/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserRepo struct {
	items map[uuid.UUID]entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{items: make(map[uuid.UUID]entity.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	r.items[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.items {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Verify(hash string, password string) bool {
	return hash == "plain:"+password
}

func newAuthFixture() (*AuthService, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	jwt := utils.JWTManager{Secret: []byte("test-secret"), Issuer: "verifai"}
	return NewAuthService(repo, plainHasher{}, jwt), repo
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc, _ := newAuthFixture()

	first, err := svc.Register(context.Background(), "Admin@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, entity.UserRoleAdmin, first.User.Role)
	assert.Equal(t, "admin@example.com", first.User.Email)
	assert.NotEmpty(t, first.AccessToken)

	second, err := svc.Register(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, entity.UserRoleUser, second.User.Role)
}

func TestRegisterExistingEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	first, err := svc.Register(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)

	// Correct password behaves as a login.
	again, err := svc.Register(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	_, err = svc.Register(context.Background(), "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Positive(t, result.ExpiresIn)

	_, err = svc.Login(context.Background(), "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginMissingCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetUser(t *testing.T) {
	svc, _ := newAuthFixture()

	result, err := svc.Register(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, result.User.Email, user.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

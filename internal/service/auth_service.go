package service

import (
	"context"
	"fmt"
	"time"

	"verifai/internal/entity"
	"verifai/internal/repository"
	"verifai/internal/utils"

	"github.com/google/uuid"
)

type AuthService struct {
	users        repository.UserRepository
	passwordHash PasswordHasher
	accessTokens utils.JWTManager
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	User        *entity.User
}

func NewAuthService(users repository.UserRepository, passwordHash PasswordHasher, accessTokens utils.JWTManager) *AuthService {
	return &AuthService{
		users:        users,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
	}
}

// Register creates a user, the first one as admin. Registering an existing
// email with the correct password behaves as a login.
func (s *AuthService) Register(ctx context.Context, email string, password string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !s.passwordHash.Verify(existing.PasswordHash, password) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return s.issueTokens(existing)
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := entity.UserRoleUser
	if count == 0 {
		role = entity.UserRoleAdmin
	}

	hash, err := s.passwordHash.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.passwordHash.Verify(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issueTokens(user)
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginResult, error) {
	token, ttl, err := s.accessTokens.IssueAccessToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(ttl / time.Second),
		User:        user,
	}, nil
}

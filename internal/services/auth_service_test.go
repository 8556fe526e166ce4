package services

import (
	"context"
	"testing"
	"time"

	"github.com/dsrealty/estate-api/internal/config"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
	updatedUser     *models.User
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.mockFindByEmail != nil {
		return m.mockFindByEmail(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.updatedUser = user
	return nil
}

// Mock RefreshTokenRepository
type mockRefreshTokenRepository struct {
	repository.RefreshTokenRepository
	created []models.RefreshToken
	deleted []string
	tokens  map[string]*models.RefreshToken
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	m.created = append(m.created, *token)
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.tokens[token]; ok {
		return rt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 24,
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)

	userRepo := &mockUserRepository{}
	userRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			ID:                1,
			Email:             email,
			EncryptedPassword: hash,
			Role:              models.RoleAdmin,
			Status:            models.StatusActive,
		}, nil
	}
	rtRepo := &mockRefreshTokenRepository{}

	service := NewAuthService(userRepo, rtRepo, testConfig())

	result, err := service.Login(context.Background(), "admin@dsrealty.in", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Len(t, rtRepo.created, 1)

	// Login stamps last_login_at.
	assert.NotNil(t, userRepo.updatedUser)
	assert.NotNil(t, userRepo.updatedUser.LastLoginAt)

	// The JWT carries the identity claims.
	token, err := jwt.Parse(result.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(1), claims["user_id"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := HashPassword("secret123")

	userRepo := &mockUserRepository{}
	userRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			ID:                1,
			Email:             email,
			EncryptedPassword: hash,
			Status:            models.StatusActive,
		}, nil
	}

	service := NewAuthService(userRepo, &mockRefreshTokenRepository{}, testConfig())

	_, err := service.Login(context.Background(), "admin@dsrealty.in", "wrong")
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginInactiveAccount(t *testing.T) {
	hash, _ := HashPassword("secret123")

	userRepo := &mockUserRepository{}
	userRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			ID:                1,
			Email:             email,
			EncryptedPassword: hash,
			Status:            models.StatusSuspended,
		}, nil
	}

	service := NewAuthService(userRepo, &mockRefreshTokenRepository{}, testConfig())

	_, err := service.Login(context.Background(), "admin@dsrealty.in", "secret123")
	assert.EqualError(t, err, "account inactive or suspended")
}

func TestRefreshTokenRotation(t *testing.T) {
	userRepo := &mockUserRepository{}
	userRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Status: models.StatusActive}, nil
	}

	future := time.Now().Add(time.Hour)
	rtRepo := &mockRefreshTokenRepository{
		tokens: map[string]*models.RefreshToken{
			"old-token": {UserID: 1, Token: "old-token", ExpiresAt: &future},
		},
	}

	service := NewAuthService(userRepo, rtRepo, testConfig())

	result, err := service.RefreshToken(context.Background(), "old-token")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "old-token", result.RefreshToken)

	// The old token is dropped and a fresh one stored.
	assert.Contains(t, rtRepo.deleted, "old-token")
	assert.Len(t, rtRepo.created, 1)
}

func TestRefreshTokenExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	rtRepo := &mockRefreshTokenRepository{
		tokens: map[string]*models.RefreshToken{
			"stale": {UserID: 1, Token: "stale", ExpiresAt: &past},
		},
	}

	service := NewAuthService(&mockUserRepository{}, rtRepo, testConfig())

	_, err := service.RefreshToken(context.Background(), "stale")
	assert.EqualError(t, err, "token expired")
	assert.Contains(t, rtRepo.deleted, "stale")
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.True(t, VerifyPassword("secret123", hash))
	assert.False(t, VerifyPassword("other", hash))
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestGenerateRecoveryCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateRecoveryCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 20 draws from a million combinations colliding into one value
	// would mean the generator is broken.
	assert.Greater(t, len(seen), 1)
}

func TestVerifyRecoveryCode(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		user  *models.User
		code  string
		valid bool
	}{
		{
			name: "valid code within window",
			user: &models.User{
				ResetPasswordToken:  strPtr("482913"),
				ResetPasswordSentAt: timePtr(now.Add(-5 * time.Minute)),
			},
			code:  "482913",
			valid: true,
		},
		{
			name: "wrong code",
			user: &models.User{
				ResetPasswordToken:  strPtr("482913"),
				ResetPasswordSentAt: timePtr(now.Add(-5 * time.Minute)),
			},
			code:  "000000",
			valid: false,
		},
		{
			name: "expired code",
			user: &models.User{
				ResetPasswordToken:  strPtr("482913"),
				ResetPasswordSentAt: timePtr(now.Add(-16 * time.Minute)),
			},
			code:  "482913",
			valid: false,
		},
		{
			name:  "no code issued",
			user:  &models.User{},
			code:  "482913",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{
				mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
					return tt.user, nil
				},
			}
			svc := NewUserService(repo, nil, nil, nil)

			valid, err := svc.VerifyRecoveryCode(context.Background(), "agent@dsrealty.in", tt.code)
			assert.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestVerifyRecoveryCodeUnknownEmail(t *testing.T) {
	repo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewUserService(repo, nil, nil, nil)

	valid, err := svc.VerifyRecoveryCode(context.Background(), "nobody@dsrealty.in", "482913")
	assert.NoError(t, err)
	assert.False(t, valid)
}

func TestUpdatePasswordWithCode(t *testing.T) {
	user := &models.User{
		Email:               "agent@dsrealty.in",
		EncryptedPassword:   "old-hash",
		ResetPasswordToken:  strPtr("482913"),
		ResetPasswordSentAt: timePtr(time.Now().Add(-time.Minute)),
	}
	repo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := NewUserService(repo, nil, nil, nil)

	err := svc.UpdatePasswordWithCode(context.Background(), "agent@dsrealty.in", "482913", "brand-new-pass")
	assert.NoError(t, err)
	assert.NotNil(t, repo.updatedUser)
	assert.Nil(t, repo.updatedUser.ResetPasswordToken)
	assert.Nil(t, repo.updatedUser.ResetPasswordSentAt)
	assert.True(t, VerifyPassword("brand-new-pass", repo.updatedUser.EncryptedPassword))
}

func TestUpdatePasswordWithCodeRejectsBadCode(t *testing.T) {
	user := &models.User{
		Email:               "agent@dsrealty.in",
		EncryptedPassword:   "old-hash",
		ResetPasswordToken:  strPtr("482913"),
		ResetPasswordSentAt: timePtr(time.Now().Add(-time.Minute)),
	}
	repo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := NewUserService(repo, nil, nil, nil)

	err := svc.UpdatePasswordWithCode(context.Background(), "agent@dsrealty.in", "111111", "brand-new-pass")
	assert.ErrorIs(t, err, ErrInvalidRecoveryCode)
	assert.Nil(t, repo.updatedUser)
	assert.Equal(t, "old-hash", user.EncryptedPassword)
}

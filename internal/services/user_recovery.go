package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dsrealty/estate-api/pkg/logger"
)

// recoveryCodeTTL is how long a reset code stays usable after it is sent.
const recoveryCodeTTL = 15 * time.Minute

// GenerateRecoveryCode generates a 6-digit random code
func GenerateRecoveryCode() (string, error) {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}
	return string(code), nil
}

// SendRecoveryCode generates a reset code for the account behind the email
// and mails it out. Unknown emails return nil so the endpoint never reveals
// which addresses have accounts.
func (s *UserService) SendRecoveryCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	code, err := GenerateRecoveryCode()
	if err != nil {
		return fmt.Errorf("failed to generate recovery code: %w", err)
	}

	if err := s.repo.SetResetCode(ctx, user.ID, code, time.Now()); err != nil {
		return fmt.Errorf("failed to save recovery code: %w", err)
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailService.SendRecoveryCode(ctx, user, code)
	})

	return nil
}

// VerifyRecoveryCode reports whether the code matches the one issued for the
// email and is still within its validity window.
func (s *UserService) VerifyRecoveryCode(ctx context.Context, email, code string) (bool, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}

	if user.ResetPasswordToken == nil || user.ResetPasswordSentAt == nil {
		return false, nil
	}
	if *user.ResetPasswordToken != code {
		logger.Info("recovery code mismatch", "user_id", user.ID)
		return false, nil
	}
	if time.Since(*user.ResetPasswordSentAt) > recoveryCodeTTL {
		logger.Info("recovery code expired", "user_id", user.ID)
		return false, nil
	}

	return true, nil
}

// UpdatePasswordWithCode sets a new password after verifying the reset code,
// then clears the code so it cannot be replayed.
func (s *UserService) UpdatePasswordWithCode(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)

	valid, err := s.VerifyRecoveryCode(ctx, email, code)
	if err != nil {
		return err
	}
	if !valid {
		return ErrInvalidRecoveryCode
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.EncryptedPassword = hashedPassword
	user.ResetPasswordToken = nil
	user.ResetPasswordSentAt = nil

	return s.repo.Update(ctx, user)
}

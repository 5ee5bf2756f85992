package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"band-backend/apperrors"
	"band-backend/models"
	"band-backend/utils"
)

const resetTokenBytes = 32

// ResetTokenStore persists at most one reset token per admin.
type ResetTokenStore interface {
	Replace(ctx context.Context, token *models.ResetToken) error
	FindByAdminID(ctx context.Context, adminID uint) (*models.ResetToken, error)
	DeleteByAdminID(ctx context.Context, adminID uint) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ResetNotifier delivers the reset link.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, admin models.Admin, link string, ttl time.Duration) error
}

type PasswordResetService struct {
	admins      AdminStore
	tokens      ResetTokenStore
	auth        *AuthService
	notifier    ResetNotifier
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
}

func NewPasswordResetService(
	admins AdminStore,
	tokens ResetTokenStore,
	auth *AuthService,
	notifier ResetNotifier,
	frontendURL string,
	ttl time.Duration,
) *PasswordResetService {
	return &PasswordResetService{
		admins:      admins,
		tokens:      tokens,
		auth:        auth,
		notifier:    notifier,
		frontendURL: frontendURL,
		ttl:         ttl,
		now:         auth.now,
	}
}

// PurgeExpired deletes every token older than the ttl.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteCreatedBefore(ctx, s.now().Add(-s.ttl))
}

// RequestReset issues a fresh token for the admin registered under email and
// mails the link. An unknown email is not an error, so callers cannot tell
// registered addresses apart.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.Validation("Email is required")
	}

	if n, err := s.PurgeExpired(ctx); err != nil {
		slog.Warn("purge expired reset tokens failed", "error", err)
	} else if n > 0 {
		slog.Info("purged expired reset tokens", "count", n)
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		slog.Info("password reset requested for unknown email", "email", utils.MaskEmail(email))
		return nil
	}
	if err != nil {
		return err
	}

	secret, err := utils.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return apperrors.Dependency("Failed to generate reset token", err)
	}
	hash, err := s.auth.HashSecret(secret)
	if err != nil {
		return err
	}

	if err := s.tokens.Replace(ctx, &models.ResetToken{
		AdminID:   admin.ID,
		TokenHash: hash,
		CreatedAt: s.now(),
	}); err != nil {
		return err
	}

	link := utils.BuildResetLink(s.frontendURL, admin.ID, secret)
	return s.notifier.SendPasswordReset(ctx, *admin, link, s.ttl)
}

// ResetPassword consumes the token issued to userID and stores newPassword.
// Every token problem surfaces as the same InvalidOrExpiredToken error.
func (s *PasswordResetService) ResetPassword(ctx context.Context, userID, token, newPassword string) error {
	adminID, ok := utils.ParseID(userID)
	if !ok || token == "" {
		return apperrors.InvalidOrExpiredToken()
	}

	record, err := s.tokens.FindByAdminID(ctx, adminID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.InvalidOrExpiredToken()
	}
	if err != nil {
		return err
	}

	if record.Expired(s.now(), s.ttl) {
		if err := s.tokens.DeleteByAdminID(ctx, adminID); err != nil {
			slog.Warn("delete expired reset token failed", "admin_id", adminID, "error", err)
		}
		return apperrors.InvalidOrExpiredToken()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.TokenHash), []byte(token)); err != nil {
		return apperrors.InvalidOrExpiredToken()
	}

	if newPassword == "" {
		return apperrors.Validation("Password is required")
	}

	// the admin may have been removed since the token was issued
	if _, err := s.admins.FindByID(ctx, adminID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if err := s.tokens.DeleteByAdminID(ctx, adminID); err != nil {
			slog.Warn("delete orphaned reset token failed", "admin_id", adminID, "error", err)
		}
		return apperrors.InvalidOrExpiredToken()
	}
	hash, err := s.auth.HashSecret(newPassword)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, adminID, hash); err != nil {
		return err
	}
	if err := s.tokens.DeleteByAdminID(ctx, adminID); err != nil {
		return err
	}

	slog.Info("admin password reset", "admin_id", adminID)
	return nil
}

package usersrv

import (
	"context"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// Retention cutoffs for the periodic purges. Tokens are kept a grace
// period past expiry so support can still answer "what happened";
// stale sessions are kept 90 days for audit.
const (
	verificationRetention = 48 * time.Hour
	resetRetention        = 24 * time.Hour
	sessionRetention      = 90 * 24 * time.Hour
)

// CleanupService purges expired verification tokens, reset tokens and
// stale sessions. Each purge is independent and idempotent; one
// failing does not stop the others.
type CleanupService struct {
	verificationRepo user.VerificationTokenRepository
	resetRepo        user.ResetTokenRepository
	sessionRepo      user.SessionRepository
}

func NewCleanupService(
	verificationRepo user.VerificationTokenRepository,
	resetRepo user.ResetTokenRepository,
	sessionRepo user.SessionRepository,
) *CleanupService {
	return &CleanupService{
		verificationRepo: verificationRepo,
		resetRepo:        resetRepo,
		sessionRepo:      sessionRepo,
	}
}

// PurgeVerificationTokens removes verification tokens expired more
// than 48 hours ago.
func (s *CleanupService) PurgeVerificationTokens(ctx context.Context) (int64, error) {
	return s.verificationRepo.DeleteExpiredBefore(ctx, time.Now().UTC().Add(-verificationRetention))
}

// PurgeResetTokens removes reset tokens expired more than 24 hours ago.
func (s *CleanupService) PurgeResetTokens(ctx context.Context) (int64, error) {
	return s.resetRepo.DeleteExpiredBefore(ctx, time.Now().UTC().Add(-resetRetention))
}

// PurgeStaleSessions removes sessions revoked more than 90 days ago.
// Expired but unrevoked sessions are left in place.
func (s *CleanupService) PurgeStaleSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteStale(ctx, time.Now().UTC().Add(-sessionRetention))
}

// RunAll executes the three purges, logging counts. Errors are logged
// and swallowed so a failing purge never takes the sweep down.
func (s *CleanupService) RunAll(ctx context.Context) {
	if n, err := s.PurgeVerificationTokens(ctx); err != nil {
		logx.WithError(err).Error("Verification token purge failed")
	} else if n > 0 {
		logx.WithField("purged", n).Info("Purged expired verification tokens")
	}

	if n, err := s.PurgeResetTokens(ctx); err != nil {
		logx.WithError(err).Error("Reset token purge failed")
	} else if n > 0 {
		logx.WithField("purged", n).Info("Purged expired reset tokens")
	}

	if n, err := s.PurgeStaleSessions(ctx); err != nil {
		logx.WithError(err).Error("Stale session purge failed")
	} else if n > 0 {
		logx.WithField("purged", n).Info("Purged stale sessions")
	}
}

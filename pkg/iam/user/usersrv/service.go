package usersrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/iam/auth"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
	"github.com/vishesh711/Auth-SDK/pkg/limitx"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// placeholderSessionID is encoded into the first refresh token during
// login, before the session row exists. The token is re-encoded with
// the real session id immediately after.
const placeholderSessionID = "00000000-0000-0000-0000-000000000000"

// tokenBytes is the entropy of verification and reset tokens.
const tokenBytes = 32

// AuthService implements the end-user credential and session
// lifecycle for registered applications.
type AuthService struct {
	userRepo         user.UserRepository
	sessionRepo      user.SessionRepository
	verificationRepo user.VerificationTokenRepository
	resetRepo        user.ResetTokenRepository
	appRepo          application.ApplicationRepository
	tx               user.TxRunner
	hasher           *cryptox.PasswordHasher
	tokens           auth.TokenService
	guard            user.LoginGuard
	mailer           user.Mailer
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

type Deps struct {
	UserRepo         user.UserRepository
	SessionRepo      user.SessionRepository
	VerificationRepo user.VerificationTokenRepository
	ResetRepo        user.ResetTokenRepository
	AppRepo          application.ApplicationRepository
	Tx               user.TxRunner
	Hasher           *cryptox.PasswordHasher
	Tokens           auth.TokenService
	Guard            user.LoginGuard
	Mailer           user.Mailer
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

func NewAuthService(deps Deps) *AuthService {
	if deps.AccessTokenTTL == 0 {
		deps.AccessTokenTTL = 15 * time.Minute
	}
	if deps.RefreshTokenTTL == 0 {
		deps.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:         deps.UserRepo,
		sessionRepo:      deps.SessionRepo,
		verificationRepo: deps.VerificationRepo,
		resetRepo:        deps.ResetRepo,
		appRepo:          deps.AppRepo,
		tx:               deps.Tx,
		hasher:           deps.Hasher,
		tokens:           deps.Tokens,
		guard:            deps.Guard,
		mailer:           deps.Mailer,
		accessTokenTTL:   deps.AccessTokenTTL,
		refreshTokenTTL:  deps.RefreshTokenTTL,
	}
}

// ============================================================================
// Registration and Verification
// ============================================================================

// Register creates an unverified user under the given application and
// emails a verification link.
func (s *AuthService) Register(ctx context.Context, appID kernel.AppID, req user.RegisterRequest) (*user.UserDTO, error) {
	app, err := s.activeApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if ok, reason := s.hasher.ValidateStrength(req.Password); !ok {
		return nil, user.ErrInvalidPassword(reason)
	}

	existing, err := s.userRepo.FindByEmail(ctx, appID, email)
	if storeFailed(err) {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrEmailExists()
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	now := time.Now().UTC()
	newUser := user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		AppID:        appID,
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   false,
		IsActive:     true,
		Metadata:     req.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	rawToken, verification, err := s.newVerificationToken(newUser.ID)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, newUser); err != nil {
			return err
		}
		return s.verificationRepo.Save(ctx, *verification)
	})
	if err != nil {
		return nil, err
	}

	s.sendVerificationEmail(ctx, email, app.Name, rawToken)

	logx.WithFields(logx.Fields{
		"user_id": newUser.ID.String(),
		"app_id":  appID.String(),
	}).Info("User registered")

	dto := newUser.ToDTO()
	return &dto, nil
}

// VerifyEmail consumes a verification token. Unknown, used, expired
// and cross-application tokens all fail with the same generic error.
func (s *AuthService) VerifyEmail(ctx context.Context, appID kernel.AppID, rawToken string) error {
	token, err := s.verificationRepo.FindByHash(ctx, cryptox.HashToken(rawToken))
	if storeFailed(err) {
		return err
	}
	if err != nil || token == nil || !token.IsValid() {
		return user.ErrInvalidToken()
	}

	u, err := s.userRepo.FindByID(ctx, token.UserID)
	if storeFailed(err) {
		return err
	}
	if err != nil || u == nil || u.AppID != appID {
		return user.ErrInvalidToken()
	}

	token.MarkUsed()
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.verificationRepo.Update(ctx, *token); err != nil {
			return err
		}
		return s.userRepo.Update(ctx, *u)
	})
}

// RequestEmailVerification re-sends the verification link. An unknown
// email is a silent no-op so the endpoint cannot be used to probe for
// accounts; an already-verified account is a conflict the caller's own
// user can see about themselves.
func (s *AuthService) RequestEmailVerification(ctx context.Context, appID kernel.AppID, email string) error {
	app, err := s.activeApp(ctx, appID)
	if err != nil {
		return err
	}

	u, err := s.userRepo.FindByEmail(ctx, appID, normalizeEmail(email))
	if storeFailed(err) {
		return err
	}
	if err != nil || u == nil {
		return nil
	}
	if u.IsVerified {
		return user.ErrAlreadyVerified()
	}

	rawToken, verification, err := s.newVerificationToken(u.ID)
	if err != nil {
		return err
	}
	if err := s.verificationRepo.Save(ctx, *verification); err != nil {
		return err
	}

	s.sendVerificationEmail(ctx, u.Email, app.Name, rawToken)
	return nil
}

// ============================================================================
// Login / Refresh / Logout
// ============================================================================

// Login authenticates an end user and opens a session.
//
// Ordering matters: the lockout check short-circuits before any
// credential work; a missing user still burns a bcrypt verification;
// failed attempts are only recorded when a client IP is present.
func (s *AuthService) Login(ctx context.Context, appID kernel.AppID, req user.LoginRequest) (*user.LoginResponse, error) {
	if _, err := s.activeApp(ctx, appID); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	if req.IPAddress != "" {
		locked, err := s.guard.CheckLockout(ctx, email, req.IPAddress)
		if err != nil {
			logx.WithError(err).Warn("Lockout check failed, continuing")
		} else if locked {
			return nil, limitx.ErrAccountLocked()
		}
	}

	u, err := s.userRepo.FindByEmail(ctx, appID, email)
	if storeFailed(err) {
		// A store failure is not a wrong password: no dummy bcrypt burn,
		// no failed-attempt bookkeeping.
		return nil, err
	}
	if err != nil || u == nil {
		s.hasher.Verify(req.Password, cryptox.DummyDigest)
		s.recordFailure(ctx, email, req.IPAddress)
		return nil, user.ErrInvalidCredentials()
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		s.recordFailure(ctx, email, req.IPAddress)
		return nil, user.ErrInvalidCredentials()
	}

	if !u.IsActive {
		return nil, user.ErrAccountDisabled()
	}
	if !u.IsVerified {
		return nil, user.ErrEmailNotVerified()
	}

	if req.IPAddress != "" {
		if err := s.guard.ClearAttempts(ctx, email, req.IPAddress); err != nil {
			logx.WithError(err).Warn("Failed to clear login attempts")
		}
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now

	pair, err := s.openSession(ctx, u, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	return &user.LoginResponse{TokenPair: *pair, User: u.ToDTO()}, nil
}

// openSession creates the session row and the token pair. The refresh
// token is first encoded with a placeholder session id, hashed into
// the new row, then re-encoded with the real id once the row exists.
func (s *AuthService) openSession(ctx context.Context, u *user.User, ip, userAgent string) (*user.TokenPair, error) {
	placeholder, err := s.tokens.GenerateRefreshToken(u.ID, u.AppID, kernel.NewSessionID(placeholderSessionID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := user.Session{
		ID:               kernel.NewSessionID(uuid.NewString()),
		UserID:           u.ID,
		AppID:            u.AppID,
		RefreshTokenHash: cryptox.HashToken(placeholder),
		UserAgent:        userAgent,
		IPAddress:        ip,
		ExpiresAt:        now.Add(s.refreshTokenTTL),
		CreatedAt:        now,
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID, u.AppID, session.ID)
	if err != nil {
		return nil, err
	}
	session.RefreshTokenHash = cryptox.HashToken(refreshToken)

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Update(ctx, *u); err != nil {
			return err
		}
		return s.sessionRepo.Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(u.ID, u.AppID, u.Email)
	if err != nil {
		return nil, err
	}

	return &user.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
	}, nil
}

// Refresh mints a new access token from a refresh token. The refresh
// token is not rotated; two concurrent refreshes both succeed.
func (s *AuthService) Refresh(ctx context.Context, appID kernel.AppID, refreshToken string) (*user.TokenPair, error) {
	claims, err := s.tokens.VerifyToken(refreshToken)
	if err != nil || claims == nil || !claims.IsRefresh() || claims.AppID != appID {
		return nil, user.ErrInvalidToken()
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if storeFailed(err) {
		return nil, err
	}
	if err != nil || session == nil || !session.IsValid() {
		return nil, user.ErrInvalidToken()
	}
	if session.UserID != claims.UserID || session.AppID != appID {
		return nil, user.ErrInvalidToken()
	}
	if !cryptox.VerifyTokenHash(refreshToken, session.RefreshTokenHash) {
		return nil, user.ErrInvalidToken()
	}

	u, err := s.userRepo.FindByID(ctx, session.UserID)
	if storeFailed(err) {
		return nil, err
	}
	if err != nil || u == nil || !u.IsActive {
		return nil, user.ErrInvalidToken()
	}

	accessToken, err := s.tokens.GenerateAccessToken(u.ID, u.AppID, u.Email)
	if err != nil {
		return nil, err
	}

	return &user.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
	}, nil
}

// Logout revokes the session behind a refresh token. An invalid or
// already-dead token is a successful logout, not an error.
func (s *AuthService) Logout(ctx context.Context, appID kernel.AppID, refreshToken string) error {
	claims, err := s.tokens.VerifyToken(refreshToken)
	if err != nil || claims == nil || !claims.IsRefresh() || claims.AppID != appID {
		return nil
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if storeFailed(err) {
		return err
	}
	if err != nil || session == nil || session.RevokedAt != nil {
		return nil
	}
	if !cryptox.VerifyTokenHash(refreshToken, session.RefreshTokenHash) {
		return nil
	}

	session.Revoke()
	return s.sessionRepo.Update(ctx, *session)
}

// ============================================================================
// Password Reset
// ============================================================================

// RequestPasswordReset emails a reset link. Unknown emails are silent
// no-ops.
func (s *AuthService) RequestPasswordReset(ctx context.Context, appID kernel.AppID, email string) error {
	app, err := s.activeApp(ctx, appID)
	if err != nil {
		return err
	}

	u, err := s.userRepo.FindByEmail(ctx, appID, normalizeEmail(email))
	if storeFailed(err) {
		return err
	}
	if err != nil || u == nil {
		return nil
	}

	rawToken, err := cryptox.GenerateSecureToken(tokenBytes)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	reset := user.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: cryptox.HashToken(rawToken),
		ExpiresAt: now.Add(user.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.resetRepo.Save(ctx, reset); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, u.Email, app.Name, rawToken); err != nil {
		logx.WithError(err).WithField("user_id", u.ID.String()).Error("Failed to send password reset email")
	}
	return nil
}

// ConfirmPasswordReset sets a new password and revokes every session
// of the user, logging them out everywhere.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, appID kernel.AppID, rawToken, newPassword string) error {
	if ok, reason := s.hasher.ValidateStrength(newPassword); !ok {
		return user.ErrInvalidPassword(reason)
	}

	token, err := s.resetRepo.FindByHash(ctx, cryptox.HashToken(rawToken))
	if storeFailed(err) {
		return err
	}
	if err != nil || token == nil || !token.IsValid() {
		return user.ErrInvalidToken()
	}

	u, err := s.userRepo.FindByID(ctx, token.UserID)
	if storeFailed(err) {
		return err
	}
	if err != nil || u == nil || u.AppID != appID {
		return user.ErrInvalidToken()
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	token.MarkUsed()
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.resetRepo.Update(ctx, *token); err != nil {
			return err
		}
		if err := s.userRepo.Update(ctx, *u); err != nil {
			return err
		}
		return s.sessionRepo.RevokeAllForUser(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	logx.WithField("user_id", u.ID.String()).Info("Password reset completed, all sessions revoked")
	return nil
}

// ============================================================================
// Introspection
// ============================================================================

// IntrospectToken verifies an end-user access token on behalf of an
// application backend. A bad token or inactive user yields
// active=false; a store failure is an error, not a verdict.
func (s *AuthService) IntrospectToken(ctx context.Context, appID kernel.AppID, accessToken string) (*user.IntrospectionResult, error) {
	claims, err := s.tokens.VerifyToken(accessToken)
	if err != nil || claims == nil || !claims.IsAccess() || claims.AppID != appID {
		return &user.IntrospectionResult{Active: false}, nil
	}

	u, err := s.userRepo.FindByID(ctx, claims.UserID)
	if storeFailed(err) {
		return nil, err
	}
	if err != nil || u == nil || !u.IsActive {
		return &user.IntrospectionResult{Active: false}, nil
	}

	return &user.IntrospectionResult{
		Active: true,
		UserID: claims.UserID,
		Email:  claims.Email,
		Expiry: &claims.ExpiresAt,
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

// storeFailed reports whether a repository error is an infrastructure
// failure rather than a domain miss. Repositories signal misses with
// typed domain errors; internal or untyped errors mean the store
// itself broke and must surface to the caller unchanged.
func storeFailed(err error) bool {
	if err == nil {
		return false
	}
	var e *errx.Error
	if errx.As(err, &e) {
		return e.Type == errx.TypeInternal
	}
	return true
}

func (s *AuthService) activeApp(ctx context.Context, appID kernel.AppID) (*application.Application, error) {
	app, err := s.appRepo.FindByAppID(ctx, appID)
	if storeFailed(err) {
		return nil, err
	}
	if err != nil || app == nil || !app.IsActive {
		return nil, application.ErrApplicationNotFound()
	}
	return app, nil
}

func (s *AuthService) newVerificationToken(userID kernel.UserID) (string, *user.EmailVerificationToken, error) {
	rawToken, err := cryptox.GenerateSecureToken(tokenBytes)
	if err != nil {
		return "", nil, err
	}
	now := time.Now().UTC()
	return rawToken, &user.EmailVerificationToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: cryptox.HashToken(rawToken),
		ExpiresAt: now.Add(user.VerificationTokenTTL),
		CreatedAt: now,
	}, nil
}

// sendVerificationEmail delivers the link, logging and dropping any
// failure: registration must not fail because the mail provider is down.
func (s *AuthService) sendVerificationEmail(ctx context.Context, to, appName, rawToken string) {
	if err := s.mailer.SendVerificationEmail(ctx, to, appName, rawToken); err != nil {
		logx.WithError(err).WithField("to", to).Error("Failed to send verification email")
	}
}

func (s *AuthService) recordFailure(ctx context.Context, email, ip string) {
	if ip == "" {
		return
	}
	locked, _, err := s.guard.RecordFailedAttempt(ctx, email, ip)
	if err != nil {
		logx.WithError(err).Warn("Failed to record login attempt")
		return
	}
	if locked {
		logx.WithFields(logx.Fields{"email": email, "ip": ip}).Warn("Account locked after repeated failures")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

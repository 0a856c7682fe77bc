package iamcontainer

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/vishesh711/Auth-SDK/pkg/config"
	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey/apikeyinfra"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey/apikeysrv"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application/applicationinfra"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application/applicationsrv"
	"github.com/vishesh711/Auth-SDK/pkg/iam/auth"
	"github.com/vishesh711/Auth-SDK/pkg/iam/developer/developerinfra"
	"github.com/vishesh711/Auth-SDK/pkg/iam/developer/developersrv"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user/userinfra"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user/usersrv"
	"github.com/vishesh711/Auth-SDK/pkg/limitx"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies this bounded context requires.
// No hidden globals, no ambient state — everything comes through here.
// ---------------------------------------------------------------------------

type Deps struct {
	DB    *sqlx.DB
	Redis *redis.Client
	Cfg   *config.Config

	// Mailer is a cross-context dependency injected as an interface so
	// the IAM module has zero knowledge of the concrete email provider.
	Mailer user.Mailer
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module.
// Only expose what other modules or cmd/ actually need.
// Internal repos, infra details, etc. stay private.
// ---------------------------------------------------------------------------

type Container struct {
	// Services — available for cross-module consumption
	PortalService      *developersrv.PortalService
	ApplicationService *applicationsrv.ApplicationService
	APIKeyService      *apikeysrv.APIKeyService
	AuthService        *usersrv.AuthService
	TokenService       auth.TokenService

	// Middleware — needed by cmd/ to protect route groups
	PortalMiddleware *auth.TokenMiddleware
	APIKeyMiddleware *auth.APIKeyMiddleware

	// Background services
	CleanupService  *usersrv.CleanupService
	cleanupInterval time.Duration
}

// ---------------------------------------------------------------------------
// New: constructs the entire IAM dependency graph.
// Order matters: infra → repos → services → middleware.
// ---------------------------------------------------------------------------

func New(deps Deps) (*Container, error) {
	logx.Info("Initializing IAM container...")

	c := &Container{cleanupInterval: deps.Cfg.Cleanup.Interval}

	// ── Repositories ─────────────────────────────────────────────────────

	devRepo := developerinfra.NewPostgresDeveloperRepository(deps.DB)
	appRepo := applicationinfra.NewPostgresApplicationRepository(deps.DB)
	keyRepo := apikeyinfra.NewPostgresAPIKeyRepository(deps.DB)
	userRepo := userinfra.NewPostgresUserRepository(deps.DB)
	sessionRepo := userinfra.NewPostgresSessionRepository(deps.DB)
	verificationRepo := userinfra.NewPostgresVerificationTokenRepository(deps.DB)
	resetRepo := userinfra.NewPostgresResetTokenRepository(deps.DB)
	txRunner := userinfra.NewTxRunner(deps.DB)

	// ── Infrastructure services ──────────────────────────────────────────

	tokenService, err := auth.NewJWTService(
		deps.Cfg.JWT.PrivateKeyBase64,
		deps.Cfg.JWT.PublicKeyBase64,
		deps.Cfg.JWT.AccessTokenTTL,
		deps.Cfg.JWT.RefreshTokenTTL,
		deps.Cfg.JWT.Issuer,
	)
	if err != nil {
		return nil, err
	}
	c.TokenService = tokenService

	cipher, err := cryptox.NewSecretCipher(deps.Cfg.Encryption.AppSecretKeyBase64)
	if err != nil {
		return nil, err
	}

	hasher := cryptox.NewPasswordHasher(
		deps.Cfg.Password.BcryptCost,
		deps.Cfg.Password.RequireComplexity,
	)

	guard := limitx.NewBruteForceGuard(
		deps.Redis,
		deps.Cfg.Lockout.MaxAttempts,
		deps.Cfg.Lockout.Duration,
	)

	apiLimiter := limitx.NewRateLimiter(
		deps.Redis,
		deps.Cfg.RateLimit.RequestsPerWindow,
		deps.Cfg.RateLimit.Window,
	)

	// ── Domain services ──────────────────────────────────────────────────

	c.PortalService = developersrv.NewPortalService(devRepo, hasher, tokenService)
	c.ApplicationService = applicationsrv.NewApplicationService(appRepo, cipher)
	c.APIKeyService = apikeysrv.NewAPIKeyService(keyRepo, appRepo)

	c.AuthService = usersrv.NewAuthService(usersrv.Deps{
		UserRepo:         userRepo,
		SessionRepo:      sessionRepo,
		VerificationRepo: verificationRepo,
		ResetRepo:        resetRepo,
		AppRepo:          appRepo,
		Tx:               txRunner,
		Hasher:           hasher,
		Tokens:           tokenService,
		Guard:            guard,
		Mailer:           deps.Mailer,
		AccessTokenTTL:   deps.Cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL:  deps.Cfg.JWT.RefreshTokenTTL,
	})

	// ── Middleware ────────────────────────────────────────────────────────

	c.PortalMiddleware = auth.NewTokenMiddleware(tokenService)
	c.APIKeyMiddleware = auth.NewAPIKeyMiddleware(c.APIKeyService, apiLimiter)

	// ── Background services ──────────────────────────────────────────────

	c.CleanupService = usersrv.NewCleanupService(verificationRepo, resetRepo, sessionRepo)

	logx.Info("IAM container initialized")
	return c, nil
}

// StartBackgroundServices runs the periodic purge loop until ctx ends.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	interval := c.cleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanupService.RunAll(ctx)
			}
		}
	}()
	logx.WithField("interval", interval.String()).Info("IAM cleanup service started")
}

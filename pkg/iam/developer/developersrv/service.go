package developersrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/auth"
	"github.com/vishesh711/Auth-SDK/pkg/iam/developer"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// PortalService handles developer signup and portal login.
type PortalService struct {
	devRepo      developer.DeveloperRepository
	hasher       *cryptox.PasswordHasher
	tokenService auth.TokenService
}

func NewPortalService(
	devRepo developer.DeveloperRepository,
	hasher *cryptox.PasswordHasher,
	tokenService auth.TokenService,
) *PortalService {
	return &PortalService{
		devRepo:      devRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

// Signup registers a developer account. Portal signup reports email
// conflicts directly; anti-enumeration applies to end users, not to
// tenant operators.
func (s *PortalService) Signup(ctx context.Context, req developer.SignupRequest) (*developer.DeveloperDTO, error) {
	email := normalizeEmail(req.Email)

	if ok, reason := s.hasher.ValidateStrength(req.Password); !ok {
		return nil, developer.ErrInvalidPassword(reason)
	}

	if existing, err := s.devRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, developer.ErrEmailExists()
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	now := time.Now().UTC()
	dev := developer.Developer{
		ID:           kernel.NewDeveloperID(uuid.NewString()),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.devRepo.Save(ctx, dev); err != nil {
		return nil, err
	}

	logx.WithField("developer_id", dev.ID.String()).Info("Developer account created")

	dto := dev.ToDTO()
	return &dto, nil
}

// Login verifies portal credentials and issues a portal access token.
// A missing account still burns a bcrypt verification so response
// timing does not reveal whether the email is registered.
func (s *PortalService) Login(ctx context.Context, req developer.LoginRequest) (*developer.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	dev, err := s.devRepo.FindByEmail(ctx, email)
	if err != nil || dev == nil {
		s.hasher.Verify(req.Password, cryptox.DummyDigest)
		return nil, developer.ErrInvalidCredentials()
	}

	if !s.hasher.Verify(req.Password, dev.PasswordHash) {
		return nil, developer.ErrInvalidCredentials()
	}

	if !dev.IsActive {
		return nil, developer.ErrAccountDisabled()
	}

	accessToken, err := s.tokenService.GenerateAccessToken(
		kernel.NewUserID(dev.ID.String()),
		kernel.PortalAppID,
		dev.Email,
	)
	if err != nil {
		return nil, err
	}

	return &developer.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		Developer:   dev.ToDTO(),
	}, nil
}

// GetProfile returns the developer's own account.
func (s *PortalService) GetProfile(ctx context.Context, id kernel.DeveloperID) (*developer.DeveloperDTO, error) {
	dev, err := s.devRepo.FindByID(ctx, id)
	if err != nil || dev == nil {
		return nil, developer.ErrDeveloperNotFound()
	}

	dto := dev.ToDTO()
	return &dto, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

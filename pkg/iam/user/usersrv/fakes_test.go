package usersrv_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"sync"
	"testing"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/iam/auth"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ----------------------------------------------------------------------------
// Repositories
// ----------------------------------------------------------------------------

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[kernel.UserID]user.User
	lookups int
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[kernel.UserID]user.User)}
}

func (f *fakeUserRepo) Save(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.AppID == u.AppID && existing.Email == u.Email {
			return user.ErrEmailExists()
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, appID kernel.AppID, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.AppID == appID && u.Email == email {
			v := u
			return &v, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

func (f *fakeUserRepo) Update(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return user.ErrUserNotFound()
	}
	f.byID[u.ID] = u
	return nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	byID map[kernel.SessionID]user.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: make(map[kernel.SessionID]user.Session)}
}

func (f *fakeSessionRepo) Save(_ context.Context, s user.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, id kernel.SessionID) (*user.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, user.ErrInvalidToken()
	}
	return &s, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s user.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[s.ID]; !ok {
		return user.ErrInvalidToken()
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) RevokeAllForUser(_ context.Context, userID kernel.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for id, s := range f.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			f.byID[id] = s
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.byID {
		if s.RevokedAt != nil && s.RevokedAt.Before(cutoff) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) activeCount(userID kernel.UserID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeVerificationRepo struct {
	mu     sync.Mutex
	byHash map[string]user.EmailVerificationToken
	err    error
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{byHash: make(map[string]user.EmailVerificationToken)}
}

func (f *fakeVerificationRepo) Save(_ context.Context, t user.EmailVerificationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[t.TokenHash] = t
	return nil
}

func (f *fakeVerificationRepo) FindByHash(_ context.Context, hash string) (*user.EmailVerificationToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byHash[hash]
	if !ok {
		return nil, user.ErrInvalidToken()
	}
	return &t, nil
}

func (f *fakeVerificationRepo) Update(_ context.Context, t user.EmailVerificationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[t.TokenHash] = t
	return nil
}

func (f *fakeVerificationRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for hash, t := range f.byHash {
		if t.ExpiresAt.Before(cutoff) {
			delete(f.byHash, hash)
			n++
		}
	}
	return n, nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	byHash map[string]user.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byHash: make(map[string]user.PasswordResetToken)}
}

func (f *fakeResetRepo) Save(_ context.Context, t user.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[t.TokenHash] = t
	return nil
}

func (f *fakeResetRepo) FindByHash(_ context.Context, hash string) (*user.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byHash[hash]
	if !ok {
		return nil, user.ErrInvalidToken()
	}
	return &t, nil
}

func (f *fakeResetRepo) Update(_ context.Context, t user.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[t.TokenHash] = t
	return nil
}

func (f *fakeResetRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for hash, t := range f.byHash {
		if t.ExpiresAt.Before(cutoff) {
			delete(f.byHash, hash)
			n++
		}
	}
	return n, nil
}

type fakeAppRepo struct {
	byAppID map[kernel.AppID]application.Application
}

func (f *fakeAppRepo) Save(_ context.Context, app application.Application) error {
	f.byAppID[app.AppID] = app
	return nil
}

func (f *fakeAppRepo) FindByID(_ context.Context, id string, developerID kernel.DeveloperID) (*application.Application, error) {
	for _, app := range f.byAppID {
		if app.ID == id && app.DeveloperID == developerID {
			return &app, nil
		}
	}
	return nil, application.ErrApplicationNotFound()
}

func (f *fakeAppRepo) FindByAppID(_ context.Context, appID kernel.AppID) (*application.Application, error) {
	app, ok := f.byAppID[appID]
	if !ok {
		return nil, application.ErrApplicationNotFound()
	}
	return &app, nil
}

func (f *fakeAppRepo) FindByDeveloper(_ context.Context, _ kernel.DeveloperID) ([]*application.Application, error) {
	return nil, nil
}

func (f *fakeAppRepo) Update(_ context.Context, app application.Application) error {
	f.byAppID[app.AppID] = app
	return nil
}

func (f *fakeAppRepo) Delete(_ context.Context, _ string, _ kernel.DeveloperID) error {
	return nil
}

// ----------------------------------------------------------------------------
// Collaborators
// ----------------------------------------------------------------------------

// noopTx runs the function directly; the fakes have no transactions.
type noopTx struct{}

func (noopTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeGuard struct {
	mu       sync.Mutex
	locked   bool
	checks   int
	failures int
	clears   int
}

func (g *fakeGuard) CheckLockout(_ context.Context, _, _ string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checks++
	return g.locked, nil
}

func (g *fakeGuard) RecordFailedAttempt(_ context.Context, _, _ string) (bool, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures++
	return false, 5 - g.failures, nil
}

func (g *fakeGuard) ClearAttempts(_ context.Context, _, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clears++
	return nil
}

type fakeMailer struct {
	mu                 sync.Mutex
	verificationTokens []string
	resetTokens        []string
}

func (m *fakeMailer) SendVerificationEmail(_ context.Context, _, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verificationTokens = append(m.verificationTokens, token)
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, _, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func (m *fakeMailer) lastVerificationToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.verificationTokens) == 0 {
		return ""
	}
	return m.verificationTokens[len(m.verificationTokens)-1]
}

func (m *fakeMailer) lastResetToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resetTokens) == 0 {
		return ""
	}
	return m.resetTokens[len(m.resetTokens)-1]
}

// ----------------------------------------------------------------------------
// Shared JWT service
// ----------------------------------------------------------------------------

var (
	jwtOnce sync.Once
	jwtSvc  *auth.JWTService
	jwtErr  error
)

// sharedJWTService builds one RS256 service for the whole package so
// each test does not pay for RSA key generation.
func sharedJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			jwtErr = err
			return
		}
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			jwtErr = err
			return
		}
		pemB64 := base64.StdEncoding.EncodeToString(
			pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
		jwtSvc, jwtErr = auth.NewJWTService(pemB64, "", 0, 0, "")
	})
	if jwtErr != nil {
		t.Fatalf("failed to build JWT service: %v", jwtErr)
	}
	return jwtSvc
}

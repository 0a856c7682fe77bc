package apikeysrv_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey/apikeysrv"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

type fakeKeyRepo struct {
	mu     sync.Mutex
	byID   map[string]apikey.APIKey
	byHash map[string]string // hash -> id
	touched []string
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{
		byID:   make(map[string]apikey.APIKey),
		byHash: make(map[string]string),
	}
}

func (f *fakeKeyRepo) Save(_ context.Context, key apikey.APIKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[key.ID] = key
	f.byHash[key.KeyHash] = key.ID
	return nil
}

func (f *fakeKeyRepo) FindByID(_ context.Context, id, applicationID string) (*apikey.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, ok := f.byID[id]
	if !ok || key.ApplicationID != applicationID {
		return nil, apikey.ErrAPIKeyNotFound()
	}
	return &key, nil
}

func (f *fakeKeyRepo) FindByHash(_ context.Context, keyHash string) (*apikey.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byHash[keyHash]
	if !ok {
		return nil, apikey.ErrAPIKeyNotFound()
	}
	key := f.byID[id]
	return &key, nil
}

func (f *fakeKeyRepo) FindByApplication(_ context.Context, applicationID string) ([]*apikey.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []*apikey.APIKey
	for _, key := range f.byID {
		if key.ApplicationID == applicationID {
			k := key
			keys = append(keys, &k)
		}
	}
	return keys, nil
}

func (f *fakeKeyRepo) UpdateLastUsed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeKeyRepo) touchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.touched)
}

type fakeAppRepo struct {
	apps map[string]application.Application
}

func (f *fakeAppRepo) Save(_ context.Context, app application.Application) error {
	f.apps[app.ID] = app
	return nil
}

func (f *fakeAppRepo) FindByID(_ context.Context, id string, developerID kernel.DeveloperID) (*application.Application, error) {
	app, ok := f.apps[id]
	if !ok || app.DeveloperID != developerID {
		return nil, application.ErrApplicationNotFound()
	}
	return &app, nil
}

func (f *fakeAppRepo) FindByAppID(_ context.Context, appID kernel.AppID) (*application.Application, error) {
	for _, app := range f.apps {
		if app.AppID == appID {
			return &app, nil
		}
	}
	return nil, application.ErrApplicationNotFound()
}

func (f *fakeAppRepo) FindByDeveloper(_ context.Context, developerID kernel.DeveloperID) ([]*application.Application, error) {
	var apps []*application.Application
	for _, app := range f.apps {
		if app.DeveloperID == developerID {
			a := app
			apps = append(apps, &a)
		}
	}
	return apps, nil
}

func (f *fakeAppRepo) Update(_ context.Context, app application.Application) error {
	f.apps[app.ID] = app
	return nil
}

func (f *fakeAppRepo) Delete(_ context.Context, id string, _ kernel.DeveloperID) error {
	delete(f.apps, id)
	return nil
}

var (
	devID = kernel.NewDeveloperID("dev-1")
	appID = kernel.NewAppID("app-public-id")
)

func newService() (*apikeysrv.APIKeyService, *fakeKeyRepo) {
	keyRepo := newFakeKeyRepo()
	appRepo := &fakeAppRepo{apps: map[string]application.Application{
		"app-row-1": {
			ID:          "app-row-1",
			AppID:       appID,
			DeveloperID: devID,
			Name:        "My App",
			IsActive:    true,
		},
	}}
	return apikeysrv.NewAPIKeyService(keyRepo, appRepo), keyRepo
}

func TestCreateAPIKey(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.CreateAPIKey(context.Background(), devID, "app-row-1", apikey.CreateAPIKeyRequest{Name: "backend"})
	if err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}

	if !strings.HasPrefix(resp.Key, "dk_") {
		t.Errorf("key missing prefix: %q", resp.Key)
	}
	if !strings.HasPrefix(resp.Key, strings.TrimSuffix(resp.APIKey.KeyPrefix, "...")) {
		t.Errorf("display prefix %q does not match key", resp.APIKey.KeyPrefix)
	}

	stored := repo.byID[resp.APIKey.ID]
	if stored.KeyHash != cryptox.HashToken(resp.Key) {
		t.Error("stored hash must be the SHA-256 of the plaintext key")
	}
	if stored.KeyHash == resp.Key {
		t.Error("plaintext key must not be stored")
	}
}

func TestCreateAPIKeyForeignApplication(t *testing.T) {
	svc, _ := newService()

	_, err := svc.CreateAPIKey(context.Background(), kernel.NewDeveloperID("dev-2"), "app-row-1", apikey.CreateAPIKeyRequest{})
	if !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Errorf("expected application not found, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	resp, err := svc.CreateAPIKey(ctx, devID, "app-row-1", apikey.CreateAPIKeyRequest{})
	if err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}

	gotAppID, err := svc.ValidateKey(ctx, resp.Key)
	if err != nil {
		t.Fatalf("ValidateKey failed: %v", err)
	}
	if gotAppID != appID {
		t.Errorf("expected app id %q, got %q", appID, gotAppID)
	}

	// Last-used touch happens off the request path.
	deadline := time.Now().Add(time.Second)
	for repo.touchCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if repo.touchCount() == 0 {
		t.Error("expected last_used_at touch after validation")
	}
}

func TestValidateKeyRejectsBadInput(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.ValidateKey(ctx, "not-a-key")
	if !errx.IsCode(err, apikey.CodeAPIKeyInvalid) {
		t.Errorf("expected invalid key for bad format, got %v", err)
	}

	_, err = svc.ValidateKey(ctx, "dk_completely-unknown-key-material")
	if !errx.IsCode(err, apikey.CodeAPIKeyInvalid) {
		t.Errorf("expected invalid key for unknown key, got %v", err)
	}
}

func TestValidateKeyRevoked(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	resp, err := svc.CreateAPIKey(ctx, devID, "app-row-1", apikey.CreateAPIKeyRequest{})
	if err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}
	if err := svc.RevokeAPIKey(ctx, devID, "app-row-1", resp.APIKey.ID); err != nil {
		t.Fatalf("RevokeAPIKey failed: %v", err)
	}

	_, err = svc.ValidateKey(ctx, resp.Key)
	if !errx.IsCode(err, apikey.CodeAPIKeyRevoked) {
		t.Errorf("expected revoked error, got %v", err)
	}
}

func TestListAPIKeys(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateAPIKey(ctx, devID, "app-row-1", apikey.CreateAPIKeyRequest{}); err != nil {
			t.Fatalf("CreateAPIKey failed: %v", err)
		}
	}

	keys, err := svc.ListAPIKeys(ctx, devID, "app-row-1")
	if err != nil {
		t.Fatalf("ListAPIKeys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %d", len(keys))
	}

	_, err = svc.ListAPIKeys(ctx, kernel.NewDeveloperID("dev-2"), "app-row-1")
	if !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Errorf("expected application not found for foreign developer, got %v", err)
	}
}

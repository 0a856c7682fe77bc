package applicationsrv_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application/applicationsrv"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

type fakeApplicationRepo struct {
	byID map[string]application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[string]application.Application)}
}

func (f *fakeApplicationRepo) Save(_ context.Context, app application.Application) error {
	f.byID[app.ID] = app
	return nil
}

func (f *fakeApplicationRepo) FindByID(_ context.Context, id string, developerID kernel.DeveloperID) (*application.Application, error) {
	app, ok := f.byID[id]
	if !ok || app.DeveloperID != developerID {
		return nil, application.ErrApplicationNotFound()
	}
	return &app, nil
}

func (f *fakeApplicationRepo) FindByAppID(_ context.Context, appID kernel.AppID) (*application.Application, error) {
	for _, app := range f.byID {
		if app.AppID == appID {
			return &app, nil
		}
	}
	return nil, application.ErrApplicationNotFound()
}

func (f *fakeApplicationRepo) FindByDeveloper(_ context.Context, developerID kernel.DeveloperID) ([]*application.Application, error) {
	var apps []*application.Application
	for _, app := range f.byID {
		if app.DeveloperID == developerID {
			a := app
			apps = append(apps, &a)
		}
	}
	return apps, nil
}

func (f *fakeApplicationRepo) Update(_ context.Context, app application.Application) error {
	existing, ok := f.byID[app.ID]
	if !ok || existing.DeveloperID != app.DeveloperID {
		return application.ErrApplicationNotFound()
	}
	f.byID[app.ID] = app
	return nil
}

func (f *fakeApplicationRepo) Delete(_ context.Context, id string, developerID kernel.DeveloperID) error {
	app, ok := f.byID[id]
	if !ok || app.DeveloperID != developerID {
		return application.ErrApplicationNotFound()
	}
	delete(f.byID, id)
	return nil
}

func newService(t *testing.T) (*applicationsrv.ApplicationService, *fakeApplicationRepo, *cryptox.SecretCipher) {
	t.Helper()
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	cipher, err := cryptox.NewSecretCipher(key)
	if err != nil {
		t.Fatalf("NewSecretCipher failed: %v", err)
	}
	repo := newFakeApplicationRepo()
	return applicationsrv.NewApplicationService(repo, cipher), repo, cipher
}

var devID = kernel.NewDeveloperID("dev-1")

func TestCreateApplication(t *testing.T) {
	svc, repo, cipher := newService(t)

	resp, err := svc.CreateApplication(context.Background(), devID, application.CreateApplicationRequest{
		Name:        "My App",
		Environment: application.EnvProduction,
	})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if len(resp.Application.AppID.String()) != 32 {
		t.Errorf("expected 32-char app_id, got %d chars", len(resp.Application.AppID.String()))
	}
	if len(resp.AppSecret) != 64 {
		t.Errorf("expected 64-char secret, got %d chars", len(resp.AppSecret))
	}
	if resp.Application.Environment != application.EnvProduction {
		t.Errorf("unexpected environment %q", resp.Application.Environment)
	}

	stored := repo.byID[resp.Application.ID]
	if stored.EncryptedSecret == resp.AppSecret {
		t.Error("secret must be encrypted at rest")
	}
	decrypted, err := cipher.Decrypt(stored.EncryptedSecret)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if decrypted != resp.AppSecret {
		t.Error("stored secret does not decrypt to the returned plaintext")
	}
}

func TestCreateApplicationDefaultsToDevelopment(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.CreateApplication(context.Background(), devID, application.CreateApplicationRequest{Name: "My App"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if resp.Application.Environment != application.EnvDevelopment {
		t.Errorf("expected development default, got %q", resp.Application.Environment)
	}
}

func TestCreateApplicationValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "  "})
	if !errx.IsCode(err, application.CodeInvalidName) {
		t.Errorf("expected invalid name, got %v", err)
	}

	_, err = svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "ok", Environment: "staging"})
	if !errx.IsCode(err, application.CodeInvalidEnvironment) {
		t.Errorf("expected invalid environment, got %v", err)
	}
}

func TestGetApplicationCrossTenant(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "My App"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	// Another developer probing the same id must see NOT_FOUND, not a
	// permission error.
	_, err = svc.GetApplication(ctx, resp.Application.ID, kernel.NewDeveloperID("dev-2"))
	if !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Errorf("expected not found for foreign developer, got %v", err)
	}

	if _, err := svc.GetApplication(ctx, resp.Application.ID, devID); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
}

func TestRevealSecret(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "My App"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	revealed, err := svc.RevealSecret(ctx, resp.Application.ID, devID)
	if err != nil {
		t.Fatalf("RevealSecret failed: %v", err)
	}
	if revealed.AppSecret != resp.AppSecret {
		t.Error("revealed secret does not match the created one")
	}

	_, err = svc.RevealSecret(ctx, resp.Application.ID, kernel.NewDeveloperID("dev-2"))
	if !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Errorf("expected not found for foreign developer, got %v", err)
	}
}

func TestRotateSecret(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "My App"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	rotated, err := svc.RotateSecret(ctx, resp.Application.ID, devID)
	if err != nil {
		t.Fatalf("RotateSecret failed: %v", err)
	}
	if rotated.AppSecret == resp.AppSecret {
		t.Error("rotation must produce a fresh secret")
	}

	revealed, err := svc.RevealSecret(ctx, resp.Application.ID, devID)
	if err != nil {
		t.Fatalf("RevealSecret failed: %v", err)
	}
	if revealed.AppSecret != rotated.AppSecret {
		t.Error("reveal after rotation must return the new secret")
	}
}

func TestDeleteApplication(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "My App"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if err := svc.DeleteApplication(ctx, resp.Application.ID, devID); err != nil {
		t.Fatalf("DeleteApplication failed: %v", err)
	}
	_, err = svc.GetApplication(ctx, resp.Application.ID, devID)
	if !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestListApplicationsScopedToDeveloper(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateApplication(ctx, devID, application.CreateApplicationRequest{Name: "App"}); err != nil {
			t.Fatalf("CreateApplication failed: %v", err)
		}
	}
	if _, err := svc.CreateApplication(ctx, kernel.NewDeveloperID("dev-2"), application.CreateApplicationRequest{Name: "Other"}); err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	apps, err := svc.ListApplications(ctx, devID)
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(apps) != 3 {
		t.Errorf("expected 3 applications, got %d", len(apps))
	}
}

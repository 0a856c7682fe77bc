package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vishesh711/Auth-SDK/pkg/iam"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/iam/auth"
	"github.com/vishesh711/Auth-SDK/pkg/iam/developer"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ============================================================================
// Developer portal routes (bearer portal tokens)
// ============================================================================

func registerPortalRoutes(app *fiber.App, container *Container) {
	portal := app.Group("/portal")
	svc := container.IAM.PortalService
	apps := container.IAM.ApplicationService
	keys := container.IAM.APIKeyService

	portal.Post("/signup", func(c *fiber.Ctx) error {
		var req developer.SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		dto, err := svc.Signup(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(dto)
	})

	portal.Post("/login", func(c *fiber.Ctx) error {
		var req developer.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		resp, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	authed := portal.Group("",
		container.IAM.PortalMiddleware.Authenticate(),
		container.IAM.PortalMiddleware.RequirePortal(),
	)

	authed.Get("/me", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		dto, err := svc.GetProfile(c.UserContext(), devID)
		if err != nil {
			return err
		}
		return c.JSON(dto)
	})

	// ── Applications ─────────────────────────────────────────────────────

	authed.Post("/applications", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		var req application.CreateApplicationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		resp, err := apps.CreateApplication(c.UserContext(), devID, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	authed.Get("/applications", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		list, err := apps.ListApplications(c.UserContext(), devID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"applications": list})
	})

	authed.Get("/applications/:id", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		dto, err := apps.GetApplication(c.UserContext(), c.Params("id"), devID)
		if err != nil {
			return err
		}
		return c.JSON(dto)
	})

	authed.Delete("/applications/:id", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		if err := apps.DeleteApplication(c.UserContext(), c.Params("id"), devID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	authed.Get("/applications/:id/secret", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		resp, err := apps.RevealSecret(c.UserContext(), c.Params("id"), devID)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	authed.Post("/applications/:id/secret/rotate", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		resp, err := apps.RotateSecret(c.UserContext(), c.Params("id"), devID)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	// ── API keys ─────────────────────────────────────────────────────────

	authed.Post("/applications/:id/api-keys", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		var req apikey.CreateAPIKeyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		resp, err := keys.CreateAPIKey(c.UserContext(), devID, c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	authed.Get("/applications/:id/api-keys", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		list, err := keys.ListAPIKeys(c.UserContext(), devID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"api_keys": list})
	})

	authed.Delete("/applications/:id/api-keys/:keyID", func(c *fiber.Ctx) error {
		devID, err := portalDeveloper(c)
		if err != nil {
			return err
		}
		if err := keys.RevokeAPIKey(c.UserContext(), devID, c.Params("id"), c.Params("keyID")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// ============================================================================
// End-user auth routes (X-API-Key authenticated, called by app backends)
// ============================================================================

type tokenRequest struct {
	Token string `json:"token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func registerAuthRoutes(app *fiber.App, container *Container) {
	v1 := app.Group("/v1/auth", container.IAM.APIKeyMiddleware.Authenticate())
	svc := container.IAM.AuthService

	v1.Post("/register", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req user.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		dto, err := svc.Register(c.UserContext(), appID, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(dto)
	})

	v1.Post("/login", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req user.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		// Client network facts come from the proxied request headers,
		// not the JSON body.
		req.IPAddress = c.Get("X-Forwarded-For", c.IP())
		req.UserAgent = c.Get("User-Agent")
		resp, err := svc.Login(c.UserContext(), appID, req)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		pair, err := svc.Refresh(c.UserContext(), appID, req.RefreshToken)
		if err != nil {
			return err
		}
		return c.JSON(pair)
	})

	v1.Post("/logout", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := svc.Logout(c.UserContext(), appID, req.RefreshToken); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Logged out"})
	})

	v1.Post("/verify-email", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := svc.VerifyEmail(c.UserContext(), appID, req.Token); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Email verified"})
	})

	v1.Post("/verify-email/resend", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req emailRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := svc.RequestEmailVerification(c.UserContext(), appID, req.Email); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "If the account exists, a verification email has been sent"})
	})

	v1.Post("/password-reset/request", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req emailRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := svc.RequestPasswordReset(c.UserContext(), appID, req.Email); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "If the account exists, a reset email has been sent"})
	})

	v1.Post("/password-reset/confirm", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req resetConfirmRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := svc.ConfirmPasswordReset(c.UserContext(), appID, req.Token, req.NewPassword); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Password updated"})
	})

	v1.Post("/introspect", func(c *fiber.Ctx) error {
		appID, err := callerApp(c)
		if err != nil {
			return err
		}
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		result, err := svc.IntrospectToken(c.UserContext(), appID, req.Token)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}

// ============================================================================
// Context helpers
// ============================================================================

func portalDeveloper(c *fiber.Ctx) (kernel.DeveloperID, error) {
	authCtx, ok := auth.AuthFromLocals(c)
	if !ok || authCtx.DeveloperID == nil {
		return "", iam.ErrUnauthorized()
	}
	return *authCtx.DeveloperID, nil
}

func callerApp(c *fiber.Ctx) (kernel.AppID, error) {
	authCtx, ok := auth.AuthFromLocals(c)
	if !ok || !authCtx.IsAPIKey {
		return "", iam.ErrUnauthorized()
	}
	return authCtx.AppID, nil
}

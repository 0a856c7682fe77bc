package notifx

import (
	"context"
	"net/url"
	"strings"
)

// Template names registered by NewAuthMailer.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplatePasswordReset = "password_reset"
)

const verifyEmailSubject = `Verify your email{{if .AppName}} for {{.AppName}}{{end}}`

const verifyEmailBody = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>Confirm your email address</h2>
<p>Thanks for signing up{{if .AppName}} for {{.AppName}}{{end}}. Click the button below to verify your email address.</p>
<p style="margin: 24px 0;">
<a href="{{.Link}}" style="background-color: #2563eb; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Verify Email</a>
</p>
<p>Or copy this link into your browser:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p style="color: #666; font-size: 13px;">This link expires in 48 hours. If you did not create an account, you can ignore this email.</p>
</body>
</html>`

const passwordResetSubject = `Reset your password{{if .AppName}} for {{.AppName}}{{end}}`

const passwordResetBody = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>Password reset requested</h2>
<p>We received a request to reset the password for your account{{if .AppName}} on {{.AppName}}{{end}}. Click the button below to choose a new password.</p>
<p style="margin: 24px 0;">
<a href="{{.Link}}" style="background-color: #2563eb; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Reset Password</a>
</p>
<p>Or copy this link into your browser:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p style="color: #666; font-size: 13px;">This link expires in 1 hour. If you did not request a password reset, you can ignore this email and your password will stay unchanged.</p>
</body>
</html>`

type authEmailData struct {
	AppName string
	Link    string
}

// AuthMailer sends the account lifecycle emails. Links are built from
// the configured base URL with the raw token as a query parameter.
type AuthMailer struct {
	client  *Client
	baseURL string
}

func NewAuthMailer(client *Client, baseURL string) (*AuthMailer, error) {
	reg := client.Templates()
	if err := reg.Register(TemplateVerifyEmail, verifyEmailSubject, verifyEmailBody); err != nil {
		return nil, err
	}
	if err := reg.Register(TemplatePasswordReset, passwordResetSubject, passwordResetBody); err != nil {
		return nil, err
	}
	return &AuthMailer{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// SendVerificationEmail delivers the email verification link.
func (m *AuthMailer) SendVerificationEmail(ctx context.Context, to, appName, token string) error {
	_, err := m.client.SendTemplated(ctx, []string{to}, TemplateVerifyEmail, authEmailData{
		AppName: appName,
		Link:    m.baseURL + "/verify-email?token=" + url.QueryEscape(token),
	})
	return err
}

// SendPasswordResetEmail delivers the password reset link.
func (m *AuthMailer) SendPasswordResetEmail(ctx context.Context, to, appName, token string) error {
	_, err := m.client.SendTemplated(ctx, []string{to}, TemplatePasswordReset, authEmailData{
		AppName: appName,
		Link:    m.baseURL + "/reset-password?token=" + url.QueryEscape(token),
	})
	return err
}

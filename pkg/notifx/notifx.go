package notifx

import (
	"context"
	"strings"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// EmailSender is the provider port. Implementations live in
// notifxses, notifxconsole, etc.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error)
}

// Client sends emails through a provider, rendering registered
// templates and retrying transient failures with exponential backoff.
type Client struct {
	provider   EmailSender
	templates  *TemplateRegistry
	from       string
	maxRetries int
	sleep      func(time.Duration)
}

type Option func(*Client)

// WithMaxRetries sets how many delivery attempts are made before
// giving up. Values below 1 are clamped to 1.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.maxRetries = n
	}
}

// WithTemplateRegistry replaces the client's template registry.
func WithTemplateRegistry(reg *TemplateRegistry) Option {
	return func(c *Client) {
		if reg != nil {
			c.templates = reg
		}
	}
}

func NewClient(provider EmailSender, from string, opts ...Option) *Client {
	c := &Client{
		provider:   provider,
		templates:  NewTemplateRegistry(),
		from:       from,
		maxRetries: 3,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Templates exposes the client's template registry for registration.
func (c *Client) Templates() *TemplateRegistry {
	return c.templates
}

// Send delivers a message, retrying failed attempts with exponential
// backoff (1s, 2s, 4s, ...). The last provider error is returned if
// all attempts fail.
func (c *Client) Send(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	if c.provider == nil {
		return nil, ErrRegistry.New(ErrNoProvider)
	}
	if msg.From == "" {
		msg.From = c.from
	}
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			c.sleep(time.Second << (attempt - 1))
		}

		result, err := c.provider.SendEmail(ctx, msg)
		if err == nil {
			result.Attempts = attempt + 1
			return result, nil
		}
		lastErr = err
		logx.WithFields(logx.Fields{
			"to":      strings.Join(msg.To, ","),
			"subject": msg.Subject,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Email delivery attempt failed")
	}
	return nil, ErrRegistry.NewWithCause(ErrSendFailed, lastErr).
		WithDetail("attempts", c.maxRetries)
}

// SendTemplated renders the named template with data and delivers it.
func (c *Client) SendTemplated(ctx context.Context, to []string, templateName string, data any) (*SendResult, error) {
	subject, body, err := c.templates.Render(templateName, data)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, EmailMessage{
		To:       to,
		Subject:  subject,
		HTMLBody: body,
	})
}

func validateMessage(msg EmailMessage) error {
	if msg.From == "" {
		return ErrRegistry.NewWithMessage(ErrInvalidMessage, "sender address is required")
	}
	if len(msg.To) == 0 {
		return ErrRegistry.NewWithMessage(ErrInvalidMessage, "at least one recipient is required")
	}
	if msg.Subject == "" {
		return ErrRegistry.NewWithMessage(ErrInvalidMessage, "subject is required")
	}
	if msg.TextBody == "" && msg.HTMLBody == "" {
		return ErrRegistry.NewWithMessage(ErrInvalidMessage, "message body is required")
	}
	return nil
}

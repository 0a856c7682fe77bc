package notifx

import "time"

// EmailMessage is a provider-agnostic outbound email.
type EmailMessage struct {
	From     string
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// SendResult reports the outcome of a send attempt.
type SendResult struct {
	MessageID string
	Provider  string
	SentAt    time.Time
	Attempts  int
}

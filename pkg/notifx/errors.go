package notifx

import (
	"net/http"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("NOTIFX")

var (
	ErrSendFailed       = ErrRegistry.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "failed to send email")
	ErrInvalidMessage   = ErrRegistry.Register("INVALID_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "invalid email message")
	ErrTemplateNotFound = ErrRegistry.Register("TEMPLATE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "email template not found")
	ErrTemplateParse    = ErrRegistry.Register("TEMPLATE_PARSE", errx.TypeInternal, http.StatusInternalServerError, "failed to parse email template")
	ErrTemplateRender   = ErrRegistry.Register("TEMPLATE_RENDER", errx.TypeInternal, http.StatusInternalServerError, "failed to render email template")
	ErrNoProvider       = ErrRegistry.Register("NO_PROVIDER", errx.TypeConfiguration, http.StatusInternalServerError, "no email provider configured")
)

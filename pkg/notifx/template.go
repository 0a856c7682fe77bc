package notifx

import (
	"bytes"
	"html/template"
	"sync"
)

// EmailTemplate pairs a subject line with an HTML body template. Both
// are html/template sources and share the same data.
type EmailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// TemplateRegistry holds named email templates. Safe for concurrent use.
type TemplateRegistry struct {
	templates map[string]*EmailTemplate
	mu        sync.RWMutex
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*EmailTemplate),
	}
}

// Register parses and stores a template under the given name,
// replacing any previous registration.
func (r *TemplateRegistry) Register(name, subject, body string) error {
	subjTmpl, err := template.New(name + ":subject").Parse(subject)
	if err != nil {
		return ErrRegistry.NewWithCause(ErrTemplateParse, err).WithDetail("template", name)
	}
	bodyTmpl, err := template.New(name + ":body").Parse(body)
	if err != nil {
		return ErrRegistry.NewWithCause(ErrTemplateParse, err).WithDetail("template", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = &EmailTemplate{subject: subjTmpl, body: bodyTmpl}
	return nil
}

// Render executes the named template and returns the subject and HTML body.
func (r *TemplateRegistry) Render(name string, data any) (subject, body string, err error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", "", ErrRegistry.New(ErrTemplateNotFound).WithDetail("template", name)
	}

	var subjBuf, bodyBuf bytes.Buffer
	if err := tmpl.subject.Execute(&subjBuf, data); err != nil {
		return "", "", ErrRegistry.NewWithCause(ErrTemplateRender, err).WithDetail("template", name)
	}
	if err := tmpl.body.Execute(&bodyBuf, data); err != nil {
		return "", "", ErrRegistry.NewWithCause(ErrTemplateRender, err).WithDetail("template", name)
	}
	return subjBuf.String(), bodyBuf.String(), nil
}

// Has reports whether a template is registered under the given name.
func (r *TemplateRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

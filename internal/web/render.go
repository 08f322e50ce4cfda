// Package web holds the view layer: embedded HTML templates and the
// cookie-backed flash messages shown after redirect-after-write flows.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/alunodb/roster-be/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is the envelope passed to every template.
type PageData struct {
	Principal *models.Principal // nil for anonymous requests
	Flash     string
	Data      any
}

// Renderer executes the embedded server-side templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded template set.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the named template with the given payload, picking up the
// request's principal and pending flash message.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, principal *models.Principal, data any) {
	page := PageData{
		Principal: principal,
		Flash:     PopFlash(w, r),
		Data:      data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := rd.tmpl.ExecuteTemplate(w, name, page); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render template")
	}
}

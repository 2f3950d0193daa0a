// Package web serves the checkout form and the static result pages. The
// result pages are pure display: they read a terminal identifier from the
// query string and never touch the database or the processor.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// Pages renders the storefront HTML.
type Pages struct {
	PublishableKey string
	Log            zerolog.Logger
	tmpl           *template.Template
}

// NewPages parses the embedded templates.
func NewPages(publishableKey string, log zerolog.Logger) (*Pages, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	return &Pages{PublishableKey: publishableKey, Log: log, tmpl: tmpl}, nil
}

// Index serves the checkout form.
func (p *Pages) Index(w http.ResponseWriter, _ *http.Request) {
	p.render(w, "index.gohtml", map[string]any{
		"PublishableKey": p.PublishableKey,
	})
}

// Success renders the payment success page. The identifier comes from the
// redirect query: hosted checkout passes session_id, the embedded card flow
// passes payment_intent.
func (p *Pages) Success(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("session_id")
	kind := "Checkout Session ID"
	if id == "" {
		id = q.Get("payment_intent")
		kind = "Payment Intent ID"
	}
	p.render(w, "success.gohtml", map[string]any{
		"ID":   id,
		"Kind": kind,
	})
}

// Cancel renders the payment cancelled page.
func (p *Pages) Cancel(w http.ResponseWriter, _ *http.Request) {
	p.render(w, "cancel.gohtml", nil)
}

func (p *Pages) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		p.Log.Error().Err(err).Str("template", name).Msg("render page")
	}
}

// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/models"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes page templates. Every page is parsed together with the
// layout and partials, so pages only define their own blocks.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page. images rewrites image URLs.
func NewRenderer(images *ImagePolicy) (*Renderer, error) {
	base, err := template.New("layout.html").
		Funcs(funcMap(images)).
		ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

// Has reports whether a page named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render writes page name with status. The page is rendered to a buffer
// first so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, v *View) {
	t, ok := r.pages[name]
	if !ok {
		logging.Error().Str("page", name).Msg("Unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", v); err != nil {
		logging.Error().Err(err).Str("page", name).Msg("Template execution failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func funcMap(images *ImagePolicy) template.FuncMap {
	return template.FuncMap{
		"image": images.URL,
		"imagePtr": func(s *string) string {
			if s == nil {
				return images.URL("")
			}
			return images.URL(*s)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"money":    cart.FormatFloat,
		"moneyDec": func(d decimal.Decimal) string { return cart.FormatCurrency(d) },
		"moneyPtr": func(f *float64) string {
			if f == nil {
				return ""
			}
			return cart.FormatFloat(*f)
		},
		"rating": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"clock": func(s string) string {
			// Backend times carry seconds ("10:00:00").
			if len(s) >= 5 {
				return s[:5]
			}
			return s
		},
		"truncate": func(s string, maxLen int) string {
			if len(s) <= maxLen {
				return s
			}
			return s[:maxLen-3] + "..."
		},
		"add": func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"steps": func() []models.TrackingStep { return models.TrackingSteps },
		"nextStatuses": models.NextStatuses,
		"isRole": func(sess *models.Session, role string) bool {
			return sess != nil && sess.Role() == models.Role(role)
		},
		"contains": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
	}
}

// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/catalog"
	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/middleware"
	"github.com/tomtom215/forkline/internal/models"
)

// Deps are the collaborators of the page handlers.
type Deps struct {
	Config   *config.Config
	Services *backend.Services
	Catalog  *catalog.Service
	Carts    *cart.Manager
	Guard    *authz.Guard
}

// Handler serves the storefront pages.
type Handler struct {
	cfg     *config.Config
	svc     *backend.Services
	catalog *catalog.Service
	carts   *cart.Manager
	guard   *authz.Guard
	images  *ImagePolicy
	render  *Renderer
	static  http.Handler
}

// New parses the templates and builds the page handlers.
func New(d Deps) (*Handler, error) {
	if d.Config == nil || d.Services == nil || d.Catalog == nil || d.Carts == nil || d.Guard == nil {
		return nil, errors.New("web: missing dependency")
	}

	images := NewImagePolicy(d.Config.Images.RemoteHosts)
	render, err := NewRenderer(images)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &Handler{
		cfg:     d.Config,
		svc:     d.Services,
		catalog: d.Catalog,
		carts:   d.Carts,
		guard:   d.Guard,
		images:  images,
		render:  render,
		static:  http.StripPrefix("/static/", http.FileServerFS(static)),
	}, nil
}

// NavLink is one entry of the navigation bar or dashboard sidebar.
type NavLink struct {
	Label  string
	URL    string
	Active bool
}

// View is the data every page template receives.
type View struct {
	Title     string
	Path      string
	Session   *models.Session
	Flash     *Flash
	Nav       []NavLink
	Sidebar   []NavLink
	CartCount int
	RequestID string
	Year      int

	// Data is the page's own payload.
	Data any

	// Form echoes submitted values and Errors holds inline field errors
	// when a form is re-rendered after failed validation.
	Form   map[string]string
	Errors map[string]string
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request, title string, data any) *View {
	sess := authz.SessionFrom(r.Context())
	v := &View{
		Title:     title,
		Path:      r.URL.Path,
		Session:   sess,
		Flash:     popFlash(w, r),
		RequestID: middleware.GetRequestID(r.Context()),
		Year:      time.Now().Year(),
		Data:      data,
	}
	if key := cart.KeyFor(sess); key != "" {
		v.CartCount = h.carts.State(r.Context(), key).Count
	}
	v.Nav = nav(r.URL.Path)
	if authz.Classify(r.URL.Path) != authz.ClassPublic {
		v.Sidebar = h.sidebar(sess, r.URL.Path)
	}
	return v
}

func link(label, href, current string) NavLink {
	return NavLink{Label: label, URL: href, Active: current == href || strings.HasPrefix(current, href+"/")}
}

func nav(current string) []NavLink {
	return []NavLink{
		link("Home", "/", current),
		link("Restaurants", "/restaurants", current),
		link("Meals", "/meals", current),
	}
}

// sidebar lists the dashboard pages the session's role may open.
func (h *Handler) sidebar(sess *models.Session, current string) []NavLink {
	if sess == nil {
		return nil
	}
	var out []NavLink
	if h.guard.Can(sess, authz.ClassAuth) {
		out = append(out,
			link("Profile", "/profile", current),
			link("My Orders", "/orders", current),
			link("Cart", "/cart", current),
		)
	}
	if h.guard.Can(sess, authz.ClassProvider) {
		out = append(out,
			link("Menu", "/provider/meals", current),
			link("Incoming Orders", "/provider/orders", current),
		)
	} else {
		out = append(out, link("Become a Provider", "/provider-profile/create", current))
	}
	if h.guard.Can(sess, authz.ClassAdmin) {
		out = append(out,
			link("Users", "/admin/users", current),
			link("All Orders", "/admin/orders", current),
			link("Categories", "/admin/categories", current),
		)
	}
	return out
}

// Static serves the embedded assets under /static/.
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}

// NotFound renders the not-found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusNotFound, "not_found", h.view(w, r, "Not Found", nil))
}

type errorPage struct {
	Message string
	Retry   string
}

// fail renders the page for a backend error. A missing resource renders
// not-found, an expired session goes back to login, and anything else shows
// the retry view.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		h.NotFound(w, r)
		return
	case errors.Is(err, backend.ErrUnauthenticated):
		http.Redirect(w, r, authz.LoginURL(r.URL.Path), http.StatusFound)
		return
	}

	status := http.StatusBadGateway
	msg := backend.UserMessage(err, "Something went wrong while loading this page.")
	if errors.Is(err, backend.ErrUnavailable) {
		status = http.StatusServiceUnavailable
		msg = "The marketplace is temporarily unavailable. Please try again in a moment."
	}

	logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Page backend call failed")
	h.render.Render(w, status, "error", h.view(w, r, "Something went wrong", errorPage{
		Message: msg,
		Retry:   r.URL.RequestURI(),
	}))
}

// formErrorStatus is the status for re-rendering a form the backend refused.
func formErrorStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, backend.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// done redirects with a flash after a form post.
func done(w http.ResponseWriter, r *http.Request, to, kind, msg string) {
	setFlash(w, kind, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// back returns the local page the form was posted from: the return_to
// field, else a same-host Referer, else fallback.
func back(r *http.Request, fallback string) string {
	if to := safeLocalPath(r.PostFormValue("return_to")); to != "" {
		return to
	}
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Host == r.Host && ref.Path != "" {
		if to := safeLocalPath(ref.RequestURI()); to != "" {
			return to
		}
	}
	return fallback
}

// safeLocalPath returns p if it is a path on this site, otherwise "".
func safeLocalPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return ""
	}
	return p
}

func queryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func formInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(name)))
	return n, err == nil
}

func formValues(r *http.Request, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = r.PostFormValue(n)
	}
	return out
}

// cartKey is the cart mirror key of the request's session.
func cartKey(r *http.Request) string {
	return cart.KeyFor(authz.SessionFrom(r.Context()))
}

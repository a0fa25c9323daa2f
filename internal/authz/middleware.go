// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package authz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/models"
)

// SessionResolver looks up the backend session for the cookies carried in
// ctx, normally *backend.AuthService.
type SessionResolver interface {
	GetSession(ctx context.Context) (*models.Session, error)
}

type sessionKey struct{}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session stored by SessionMiddleware, or nil.
func SessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionKey{}).(*models.Session)
	return sess
}

// logKey is a short digest of the session so log lines can be grouped
// without writing session IDs to the log.
func logKey(sess *models.Session) string {
	sum := sha256.Sum256([]byte(sess.Session.ID + ":" + sess.User.ID))
	return hex.EncodeToString(sum[:6])
}

// SessionMiddleware forwards the request's cookies to backend calls and
// resolves the session once. A failed lookup is treated as signed out.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := backend.WithCookies(r.Context(), r.Header.Get("Cookie"))

			sess, err := resolver.GetSession(ctx)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("Session lookup failed")
				sess = nil
			}
			if sess != nil {
				ctx = logging.ContextWithSessionKey(ctx, logKey(sess))
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

// Middleware redirects requests the guard does not allow. It must run
// after SessionMiddleware.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r.URL.Path, SessionFrom(r.Context()))
		if !d.Allowed() {
			logging.Ctx(r.Context()).Debug().
				Str("path", r.URL.Path).
				Str("redirect", d.Redirect).
				Msg("Route guard redirect")
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

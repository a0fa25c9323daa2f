// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package authz

import (
	"net/url"
	"strings"

	"github.com/tomtom215/forkline/internal/metrics"
	"github.com/tomtom215/forkline/internal/models"
)

// Class groups request paths by who may open them.
type Class string

const (
	ClassPublic   Class = "public"
	ClassAuth     Class = "auth"
	ClassAdmin    Class = "admin"
	ClassProvider Class = "provider"
)

// Route prefixes per class.
var (
	AuthRoutes     = []string{"/profile", "/orders", "/cart"}
	AdminRoutes    = []string{"/admin"}
	ProviderRoutes = []string{"/provider", "/provider-profile"}
)

// MatchesAny reports whether path equals one of prefixes or lies under it.
func MatchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Classify returns the class of path. Admin is checked first.
func Classify(path string) Class {
	switch {
	case MatchesAny(path, AdminRoutes):
		return ClassAdmin
	case MatchesAny(path, ProviderRoutes):
		return ClassProvider
	case MatchesAny(path, AuthRoutes):
		return ClassAuth
	default:
		return ClassPublic
	}
}

// Decision is the outcome of a guard check. An empty Redirect means allow.
type Decision struct {
	Redirect string
}

// Allowed reports whether the request may continue.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// LoginURL is where signed-out visitors are sent from path.
func LoginURL(path string) string {
	return "/login?callbackUrl=" + url.QueryEscape(path)
}

// Guard decides whether a session may open a path.
type Guard struct {
	enforcer *Enforcer
}

// NewGuard creates a guard over enforcer.
func NewGuard(enforcer *Enforcer) *Guard {
	return &Guard{enforcer: enforcer}
}

// Decide returns the decision for sess opening path. A nil session is
// signed out. Enforcement errors deny by sending the visitor home.
func (g *Guard) Decide(path string, sess *models.Session) Decision {
	class := Classify(path)
	if class == ClassPublic {
		return Decision{}
	}
	if sess == nil || sess.User.ID == "" {
		metrics.GuardDecisions.WithLabelValues("login").Inc()
		return Decision{Redirect: LoginURL(path)}
	}

	allowed, err := g.enforcer.Allowed(sess.Role(), class)
	if err != nil || !allowed {
		metrics.GuardDecisions.WithLabelValues("home").Inc()
		return Decision{Redirect: "/"}
	}
	metrics.GuardDecisions.WithLabelValues("allow").Inc()
	return Decision{}
}

// Can reports whether sess may open pages of class. Views use it to decide
// which navigation links to show.
func (g *Guard) Can(sess *models.Session, class Class) bool {
	if class == ClassPublic {
		return true
	}
	if sess == nil {
		return false
	}
	allowed, err := g.enforcer.Allowed(sess.Role(), class)
	return err == nil && allowed
}

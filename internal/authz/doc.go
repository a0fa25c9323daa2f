// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package authz gates storefront pages by the signed-in user's role.
//
// The backend stays the authority on who may do what. This package only
// decides which pages to render and where to send visitors who should not
// see them, so a customer never lands on a half-rendered admin screen.
//
// # Path Classes
//
// Every request path falls into one class:
//
//	public    everything not listed below
//	auth      /profile, /orders, /cart
//	admin     /admin
//	provider  /provider, /provider-profile
//
// A path belongs to a prefix when it equals the prefix or continues with
// "/". "/providers" is public; "/provider/meals" is provider.
//
// # RBAC Model
//
// Class access is expressed in Casbin with role inheritance:
//
//	[request_definition]
//	r = sub, obj
//
//	[policy_definition]
//	p = sub, obj
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && r.obj == p.obj
//
// and the embedded policy grants customer the auth class, provider the
// provider class and admin the admin class, with admin inheriting provider
// and provider inheriting customer.
//
// # Decisions
//
//  1. Public paths pass.
//  2. Without a session the visitor is sent to /login?callbackUrl=<path>.
//  3. A role the policy allows passes.
//  4. Anyone else is sent to /.
//
// Decisions depend only on (role, class) and are memoized.
//
// # Sessions
//
// SessionMiddleware resolves the backend session once per request from the
// request's cookies and stores it in the context. Handlers read it with
// SessionFrom.
package authz

// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package web renders the storefront pages.

Pages are server-rendered html/template views embedded in the binary, one
file per page under templates/pages, each executed inside templates/layout.html
with the shared partials. Static assets under static/ are embedded as well and
served at /static/.

Read pages go through the cached catalog or the per-request backend services.
Form posts follow post/redirect/get: the handler performs the mutation, sets
a one-shot flash cookie and answers 303 to the page the form came from. Cart
mutations go through the cart mirror so the navbar badge reflects the change
on the next render.

Backend failures map onto pages as follows:

  - not found renders the 404 page
  - an expired session redirects to /login with a callbackUrl
  - an unavailable backend renders the retry page with 503
  - anything else renders the retry page with 502

Image URLs are checked against the configured remote host allowlist and
replaced by a local placeholder when not allowed.
*/
package web

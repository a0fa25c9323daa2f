// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"net/url"
	"strings"
)

// PlaceholderImage replaces images the storefront will not load.
const PlaceholderImage = "/static/placeholder.svg"

// ImagePolicy decides which remote image URLs may be rendered.
type ImagePolicy struct {
	hosts map[string]struct{}
}

// NewImagePolicy allows https images from the given hosts.
func NewImagePolicy(hosts []string) *ImagePolicy {
	p := &ImagePolicy{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			p.hosts[h] = struct{}{}
		}
	}
	return p
}

// Allowed reports whether raw is a site-relative path or an https URL on an
// allowlisted host.
func (p *ImagePolicy) Allowed(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}
	_, ok := p.hosts[strings.ToLower(u.Hostname())]
	return ok
}

// URL returns raw when it is allowed and the placeholder otherwise.
func (p *ImagePolicy) URL(raw string) string {
	if p.Allowed(raw) {
		return strings.TrimSpace(raw)
	}
	return PlaceholderImage
}

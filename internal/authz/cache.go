// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package authz

import (
	"sync"

	"github.com/tomtom215/forkline/internal/models"
)

// decisionCache memoizes enforcement results. Decisions only change when the
// policy does, so entries never expire on their own.
type decisionCache struct {
	mu    sync.RWMutex
	items map[string]bool
}

func newDecisionCache() *decisionCache {
	return &decisionCache{items: make(map[string]bool)}
}

func (c *decisionCache) key(role models.Role, class Class) string {
	return string(role) + ":" + string(class)
}

func (c *decisionCache) get(role models.Role, class Class) (allowed, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	allowed, ok = c.items[c.key(role, class)]
	return allowed, ok
}

func (c *decisionCache) set(role models.Role, class Class, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[c.key(role, class)] = allowed
}

func (c *decisionCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

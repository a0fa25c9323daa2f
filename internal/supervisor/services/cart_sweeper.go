// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package services

import (
	"context"
	"time"

	"github.com/tomtom215/forkline/internal/logging"
)

const defaultSweepInterval = 5 * time.Minute

// Sweeper is satisfied by *cart.Manager.
type Sweeper interface {
	// Sweep drops idle cart mirrors and reports how many it removed.
	Sweep() int
	// Sessions is the number of live mirrors.
	Sessions() int
}

// CartSweeperService periodically evicts cart mirrors whose session has
// been idle past the manager's TTL.
type CartSweeperService struct {
	carts    Sweeper
	interval time.Duration
	name     string
}

// NewCartSweeperService sweeps carts every interval (5m if non-positive).
func NewCartSweeperService(carts Sweeper, interval time.Duration) *CartSweeperService {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &CartSweeperService{
		carts:    carts,
		interval: interval,
		name:     "cart-sweeper",
	}
}

// Serve implements suture.Service.
func (s *CartSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.carts.Sweep(); n > 0 {
				logging.Debug().
					Int("removed", n).
					Int("remaining", s.carts.Sessions()).
					Msg("Swept idle cart mirrors")
			}
		}
	}
}

func (s *CartSweeperService) String() string {
	return s.name
}

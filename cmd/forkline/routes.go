// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"text/tabwriter"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/tomtom215/forkline/internal/cache"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the registered routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Routes do not depend on the cache backend.
		mem := cache.New(cfg.Cache.Revalidate, cfg.Cache.MaxEntries)
		defer mem.Close()

		a, err := build(cfg, cache.NewMemoryStore(mem))
		if err != nil {
			return err
		}
		return printRoutes(cmd.OutOrStdout(), a.router)
	},
}

func printRoutes(out io.Writer, r chi.Routes) error {
	type route struct{ method, path string }
	var routes []route
	err := chi.Walk(r, func(method, path string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, route{method, path})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk routes: %w", err)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].path != routes[j].path {
			return routes[i].path < routes[j].path
		}
		return routes[i].method < routes[j].method
	})

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, rt := range routes {
		fmt.Fprintf(tw, "%s\t%s\n", rt.method, rt.path)
	}
	return tw.Flush()
}

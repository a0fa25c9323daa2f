// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Command forkline runs the Forkline storefront: a server-rendered web
// front end and backend-for-frontend in front of the marketplace REST API.
//
// # Commands
//
//	forkline serve     run the storefront until SIGINT or SIGTERM
//	forkline routes    print the registered routes
//	forkline version   print build information
//
// # Configuration
//
// Settings are layered by koanf (highest priority wins):
//   - Environment variables (BACKEND_API, NEXT_PUBLIC_APP_URL, PORT, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// BACKEND_API is the only required setting:
//
//	export BACKEND_API=http://localhost:5000
//	export NEXT_PUBLIC_APP_URL=http://localhost:3000
//	./forkline serve
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "forkline",
	Short:         "Food delivery marketplace storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, routesCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

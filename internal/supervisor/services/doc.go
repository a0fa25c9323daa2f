// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package services adapts Forkline components to suture.Service.

Each wrapper turns a component's own lifecycle into a Serve(ctx) error
method that returns when the supervisor cancels the context:

  - HTTPServerService: the storefront's *http.Server, drained with Shutdown
  - OrderHubService: the live order status hub
  - CartSweeperService: periodic eviction of idle cart mirrors

The catalog refresher implements suture.Service itself and is added to
the tree directly.
*/
package services

// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package websocket pushes live order status changes to signed-in customers.

The backend has no push channel, so the hub polls it. Every connected user
gets one watch holding the session cookie of their most recent connection
and the last status seen for each of their orders. On each tick the hub
lists the user's orders with that cookie and sends a message for every order
whose status changed, or that appeared since the previous poll. The first
poll for a user only records statuses.

Architecture:

	┌──────────┐   poll (per user)   ┌─────────┐
	│   Hub    │ ──────────────────▶ │ backend │
	└────┬─────┘                     └─────────┘
	     │ order_status
	┌────┴─────┬─────────┐
	│ Client1  │ Client2 │   (one user may hold several tabs)
	└──────────┴─────────┘

Each client has two goroutines:
  - readPump: reads from the connection, answers "ping" messages and keeps
    the read deadline alive on pong frames
  - writePump: writes queued messages and sends ping frames every pingPeriod

Message Types:

  - order_status: {"type":"order_status","data":{"id":"...","status":"PREPARING"}}
  - pong: reply to a client "ping" message

Thread Safety:

The client and watch maps are guarded by one mutex. Sends and channel closes
both happen under it, so a poll never writes to a closed client.
*/
package websocket

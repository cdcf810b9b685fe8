// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package services provides suture.Service wrappers for Basketwise components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve method and names itself through fmt.Stringer for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Runs ListenAndServe in a goroutine
  - Calls Shutdown with a bounded timeout when the context is canceled
  - Treats http.ErrServerClosed as a clean stop

Event Bus (EventBusService):
  - Runs the watermill router of events.Bus
  - A closed bus returns suture.ErrDoNotRestart

Snapshot Warmer (SnapshotWarmerService):
  - Rebuilds the co-occurrence snapshot on startup and on an interval
  - Logs rebuild failures and keeps running; requests fall back to an
    on-demand rebuild

# Shutdown

All services return ctx.Err() after a clean stop so suture can tell a
requested shutdown from a crash.
*/
package services

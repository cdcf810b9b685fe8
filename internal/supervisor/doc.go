// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package supervisor provides process supervision for the Basketwise server
using suture v4.

# Overview

Long-running services are grouped into layers so a failure restarts only the
layer it happened in:

	RootSupervisor ("basketwise")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotWarmerService (if recommend.cache.enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventBusService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed event router does not take the HTTP server down with it; while the
bus restarts, cache invalidation requests fall back to dropping the snapshot
directly.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Logging

Supervisor events (service panics, restarts, backoff) go through sutureslog
into the slog adapter from the logging package, so they land in the same
zerolog stream as the rest of the process.

# See Also

  - internal/supervisor/services: suture.Service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor

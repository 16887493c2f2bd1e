// Package server runs the HTTP server of the story service.
//
// The server owns the listener, the middleware chain and the graceful
// shutdown sequence. Routes are supplied by the caller:
//
//	h := handlers.New(handlers.Config{...})
//	srv := server.NewServer(&cfg.Server, h,
//	    server.WithMetrics(cfg.Telemetry.Metrics.Path, collector.Handler()),
//	    server.WithTracing(),
//	)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Middleware Chain
//
// Innermost to outermost: body limit, timeout, CORS, client key, request ID,
// trace context, logging, recovery. The metrics endpoint is mounted on the
// same mux and passes through the same chain.
//
// # Graceful Shutdown
//
// Start blocks until the context is cancelled, SIGINT or SIGTERM arrives,
// Stop is called, or the listener fails. In-flight requests get
// ServerConfig.ShutdownTimeout to finish.
package server

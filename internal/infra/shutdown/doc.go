// Package shutdown coordinates graceful process termination.
//
// The server registers cleanup hooks (HTTP listener, cache stores,
// configuration watcher) and blocks in Wait until SIGINT/SIGTERM arrives,
// the parent context ends, or Trigger is called after a fatal error.
// SIGHUP runs the reload hooks instead of shutting down.
//
//	h := shutdown.NewHandler(30*time.Second, logger)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown

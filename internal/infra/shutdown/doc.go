// Package shutdown provides graceful shutdown handling.
//
// It covers the two halves of process termination:
//
//   - WithSignals: a context cancelled on SIGINT or SIGTERM
//   - Handler: cleanup hooks run in reverse registration order under a timeout
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	defer h.Run()
package shutdown

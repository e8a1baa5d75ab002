// Package httpserver runs an http.Server with graceful shutdown, timeouts
// and health probes.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled or on SIGINT/SIGTERM. Listen failures are
// wrapped with ErrStart and shutdown failures with ErrShutdown.
package httpserver

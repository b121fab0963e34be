// Package server runs an http.Handler with graceful shutdown. It hosts the mock API
// of sealedctl.
//
// Basic usage:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, handler))
//	return eg.Wait()
//
// Configuration is read from SERVER_* environment variables (see Config). A TLS key
// pair is loaded when both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set.
package server

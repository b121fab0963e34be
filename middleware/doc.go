// Package middleware provides net/http middleware for the server side of the envelope
// protocol. It backs the mock API served by sealedctl and the end-to-end tests of the
// client pipeline.
//
// All middleware follow the same pattern:
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//   - A Skip function to bypass specific requests
//
// # Envelope
//
// Envelope opens {"encryptedPayload": ...} request bodies and seals JSON replies into
// {"response": ...}. Paths on the skip list pass through untouched, mirroring the
// client.
//
//	cipher := envelope.NewCipher(secret)
//	handler := middleware.Envelope(cipher)(mux)
//
// A request envelope that cannot be opened is answered with 400 and an error reply in
// plain JSON.
//
// # Request ID
//
// RequestID reuses the caller's X-Request-ID header or generates a UUID, stores it in
// the request context and echoes it in the response:
//
//	handler = middleware.RequestID()(handler)
//	id, ok := middleware.GetRequestID(r.Context())
//
// # Logging
//
// Logging writes one structured record per request with method, path, status, size,
// duration and request ID. Bodies are never logged; sensitive headers are redacted when
// header logging is enabled.
//
//	handler = middleware.LoggingWithLogger(log)(handler)
package middleware

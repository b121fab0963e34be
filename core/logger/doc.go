// Package logger provides structured logging helpers built on log/slog.
//
// New builds a text or JSON logger whose handler masks attributes that look like
// credentials (token, secret, password, authorization, cookie, payload). The attribute
// helpers give every component the same keys:
//
//	log := logger.New(logger.WithDevelopment("sealedctl"))
//
//	log.Warn("request encryption failed, sending plain body",
//		logger.Component("transport"),
//		logger.Phase("request"),
//		logger.Method(req.Method),
//		logger.Path(req.URL.Path),
//		logger.RequestID(id),
//		logger.Error(err),
//	)
//
// Helpers return an empty slog.Attr for nil or empty inputs, which slog handlers drop,
// so call sites do not need nil checks.
//
// Capture logs in tests:
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
package logger

// Package logging wraps zap with context-aware methods.
//
// Every call takes a context; the session ID, request ID and active otel
// span IDs in it are added to the entry:
//
//	ctx = logging.WithSessionID(ctx, "tab-1")
//	logging.FromContext(ctx).Info(ctx, "citation search", zap.Int("results", n))
//
// Entries go to stdout or stderr through a redacting encoder and, when an
// otel LoggerProvider is supplied, to the otelzap bridge. Levels below
// error are sampled per level; errors never are.
package logging

// Package log provides the logging abstraction used by axiom components.
//
// The scheduler and scope packages log through the Logger interface so that
// hosts can plug in whatever logging library they already use. A zerolog
// adapter and a no-op logger are provided.
//
// # Usage
//
// Use the zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or discard everything (the default when no logger is configured):
//
//	logger := log.NewNoopLogger()
//
// Child loggers carry fields into every message:
//
//	jobLog := logger.With(log.String("job", id))
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package log

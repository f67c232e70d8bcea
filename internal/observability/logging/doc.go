// Package logging builds the process logger and carries request-scoped loggers
// through contexts.
//
// Example usage:
//
//	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.FromContext(ctx).Info("processing request")
//	}
package logging

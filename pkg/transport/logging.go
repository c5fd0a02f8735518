package transport

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that emits structured log entries for each
// relay request. The log entry includes the request ID (from context),
// model, mode, reasoning flag, duration, and whether the request
// succeeded or failed.
//
// HTTP-level detail (status codes, paths) is not available at the
// CompletionHandler level; the HTTP adapter and metrics middleware cover
// that.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next CompletionHandler) CompletionHandler {
		return CompletionHandlerFunc(func(ctx context.Context, req *CompletionRequest, w ResultWriter) error {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			err := next.HandleCompletion(ctx, req, w)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("model", req.Model),
				slog.Bool("stream", req.Stream),
				slog.Bool("reasoning", req.Reasoning),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "relay request failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "relay request completed", attrs...)
			}

			return err
		})
	}
}

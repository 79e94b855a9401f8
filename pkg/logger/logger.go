package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithScannerID adds scanner ID to logger context
func (l *Logger) WithScannerID(scannerID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("scanner_id", scannerID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Admission logging methods

// LogScanAccepted logs an accepted admission
func (l *Logger) LogScanAccepted(ctx context.Context, ticketNumber, scannerID string, scanCount int) {
	l.Logger.InfoContext(ctx,
		"Scan Accepted",
		slog.String("ticket_number", ticketNumber),
		slog.String("scanner_id", scannerID),
		slog.Int("scan_count", scanCount),
	)
}

// LogScanRejected logs a rejected admission attempt
func (l *Logger) LogScanRejected(ctx context.Context, ticketCode, scannerID, reason string) {
	l.Logger.WarnContext(ctx,
		"Scan Rejected",
		slog.String("ticket_code", ticketCode),
		slog.String("scanner_id", scannerID),
		slog.String("reason", reason),
	)
}

// LogConflictDetected logs a queued scan invalidated by server state
func (l *Logger) LogConflictDetected(ctx context.Context, localID, ticketCode, reason string) {
	l.Logger.WarnContext(ctx,
		"Conflict Detected",
		slog.String("local_id", localID),
		slog.String("ticket_code", ticketCode),
		slog.String("reason", reason),
	)
}

// Sync logging methods

// LogSyncCompleted logs the outcome of a sync pass
func (l *Logger) LogSyncCompleted(ctx context.Context, total, successful, failed int, duration time.Duration) {
	l.Logger.InfoContext(ctx,
		"Sync Completed",
		slog.Int("total", total),
		slog.Int("successful", successful),
		slog.Int("failed", failed),
		slog.Duration("duration", duration),
	)
}

// LogReconcileCompleted logs the outcome of a reconciliation pass
func (l *Logger) LogReconcileCompleted(ctx context.Context, checked, conflicts, synced int) {
	l.Logger.InfoContext(ctx,
		"Reconcile Completed",
		slog.Int("checked", checked),
		slog.Int("conflicts", conflicts),
		slog.Int("synced", synced),
	)
}

// Security logging methods

// LogAuthFailure logs failed device authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

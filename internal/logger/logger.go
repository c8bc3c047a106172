package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	agenttrace "predictive-trader/internal/trace"
)

var (
	globalLogger    *slog.Logger
	logLevel        slog.Level
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or text
	DetailedLogging bool   // Enable caller source info on debug logs
}

// Init initializes the global logger from environment variables.
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// LoadConfigFromEnv loads logging configuration from environment variables
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig initializes the logger with specific configuration
func InitWithConfig(config LogConfig) error {
	logLevel = parseLogLevel(config.Level)
	detailedLogging = config.DetailedLogging

	// Source info is added manually in logWithTrace so the caller location
	// points at the call site, not this package.
	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: false,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getTraceAttrs extracts trace ID and span ID from context for log correlation
func getTraceAttrs(ctx context.Context) []any {
	traceID, spanID, ok := agenttrace.GetTraceFields(ctx)
	if !ok {
		return nil
	}
	return []any{"trace_id", traceID, "span_id", spanID}
}

// Debug logs a debug message
func Debug(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelDebug, msg, 2, args...)
}

// DebugSkip logs a debug message attributing the caller skip frames up
func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelDebug, msg, 2+skip, args...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2, args...)
}

// InfoSkip logs an info message attributing the caller skip frames up
func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2+skip, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelWarn, msg, 2, args...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelError, msg, 2, args...)
}

// ErrorWithErr logs an error message with an error object
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	recordSpanError(ctx, err)
	allArgs := append([]any{"error", err}, args...)
	logWithTrace(ctx, slog.LevelError, msg, 2, allArgs...)
}

// ErrorWithErrSkip logs an error attributing the caller skip frames up
func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	recordSpanError(ctx, err)
	allArgs := append([]any{"error", err}, args...)
	logWithTrace(ctx, slog.LevelError, msg, 2+skip, allArgs...)
}

func recordSpanError(ctx context.Context, err error) {
	if !agenttrace.Enabled() {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func logWithTrace(ctx context.Context, level slog.Level, msg string, skip int, args ...any) {
	if globalLogger == nil {
		return
	}
	if traceAttrs := getTraceAttrs(ctx); traceAttrs != nil {
		args = append(traceAttrs, args...)
	}

	if detailedLogging {
		if pc, file, line, ok := runtime.Caller(skip); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				args = append(args, "source", slog.GroupValue(
					slog.String("function", fn.Name()),
					slog.String("file", file),
					slog.Int("line", line),
				))
			}
		}
	}

	globalLogger.Log(ctx, level, msg, args...)
}

// Decision logs a trading decision (always logged regardless of level)
func Decision(ctx context.Context, symbol, action string, confidence float64, reason string, fields ...any) {
	if agenttrace.Enabled() {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("trading_decision", trace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("action", action),
				attribute.Float64("confidence", confidence),
				attribute.String("reason", reason),
			))
		}
	}

	allFields := append([]any{
		"type", "DECISION",
		"symbol", symbol,
		"action", action,
		"confidence", confidence,
		"reason", reason,
	}, fields...)
	logWithTrace(ctx, slog.LevelInfo, "Trading decision made", 2, allFields...)
}

// Trade logs a trade execution (always logged regardless of level)
func Trade(ctx context.Context, symbol, side string, amount, price float64, orderID string, fields ...any) {
	if agenttrace.Enabled() {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("trade_executed", trace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("side", side),
				attribute.Float64("amount", amount),
				attribute.Float64("price", price),
				attribute.String("order_id", orderID),
			))
		}
	}

	allFields := append([]any{
		"type", "TRADE",
		"symbol", symbol,
		"side", side,
		"amount", amount,
		"price", price,
		"order_id", orderID,
	}, fields...)
	logWithTrace(ctx, slog.LevelInfo, "Trade executed", 2, allFields...)
}

// Risk logs a risk management event
func Risk(ctx context.Context, symbol, eventType string, fields ...any) {
	if agenttrace.Enabled() {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("risk_event", trace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("event_type", eventType),
			))
		}
	}

	allFields := append([]any{
		"type", "RISK",
		"symbol", symbol,
		"event_type", eventType,
	}, fields...)
	logWithTrace(ctx, slog.LevelWarn, "Risk event", 2, allFields...)
}

package watermillx

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

// SlogAdapter bridges watermill's logger onto slog. A record is emitted
// only when its level clears minLevel and the global OTel log provider
// reports the severity as enabled.
type SlogAdapter struct {
	logger   *slog.Logger
	minLevel slog.Level
	otel     log.Logger
}

func NewSlogAdapter(logger *slog.Logger, minLevel slog.Level) watermill.LoggerAdapter {
	return &SlogAdapter{
		logger:   logger,
		minLevel: minLevel,
		otel:     global.GetLoggerProvider().Logger("watermill"),
	}
}

func (a *SlogAdapter) enabled(level slog.Level) bool {
	if level < a.minLevel {
		return false
	}

	return a.otel.Enabled(context.Background(), log.EnabledParameters{Severity: severityOf(level)})
}

func severityOf(level slog.Level) log.Severity {
	switch {
	case level >= slog.LevelError:
		return log.SeverityError
	case level >= slog.LevelWarn:
		return log.SeverityWarn
	case level >= slog.LevelInfo:
		return log.SeverityInfo
	case level >= slog.LevelDebug:
		return log.SeverityDebug
	default:
		return log.SeverityTrace
	}
}

func (a *SlogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	if a.enabled(slog.LevelError) {
		a.logger.Error(msg, a.attrs(fields, slog.Any("error", err))...)
	}
}

func (a *SlogAdapter) Info(msg string, fields watermill.LogFields) {
	if a.enabled(slog.LevelInfo) {
		a.logger.Info(msg, a.attrs(fields)...)
	}
}

func (a *SlogAdapter) Debug(msg string, fields watermill.LogFields) {
	if a.enabled(slog.LevelDebug) {
		a.logger.Debug(msg, a.attrs(fields)...)
	}
}

// Trace maps to debug; slog has no lower level.
func (a *SlogAdapter) Trace(msg string, fields watermill.LogFields) {
	if a.enabled(slog.LevelDebug) {
		a.logger.Debug(msg, a.attrs(fields)...)
	}
}

func (a *SlogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &SlogAdapter{
		logger:   a.logger.With(a.attrs(fields)...),
		minLevel: a.minLevel,
		otel:     a.otel,
	}
}

func (a *SlogAdapter) attrs(fields watermill.LogFields, extra ...slog.Attr) []any {
	out := make([]any, 0, len(fields)+len(extra))
	for k, v := range fields {
		out = append(out, slog.Any(k, v))
	}
	for _, attr := range extra {
		out = append(out, attr)
	}

	return out
}

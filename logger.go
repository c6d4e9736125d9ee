package droidui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/lmittmann/tint"
)

// WithLogger returns a context carrying log.
func WithLogger(ctx context.Context, log logr.Logger) context.Context {
	return logr.NewContext(ctx, log)
}

// LoggerFrom returns the logger carried by ctx, or one that discards
// everything.
func LoggerFrom(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

// NewLogger returns a logger writing human-readable lines to w. At
// verbosity 0 only errors are written; each increment lowers the
// threshold by one slog level, so V(1) and V(2) messages need 3.
func NewLogger(w io.Writer, verbosity int) logr.Logger {
	return logr.FromSlogHandler(
		tint.NewHandler(w, &tint.Options{
			Level:       slog.Level(int(slog.LevelError) - 4*verbosity),
			TimeFormat:  time.DateTime,
			NoColor:     color.NoColor,
			ReplaceAttr: rewriteLevel,
		}),
	)
}

func rewriteLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var text string
	switch {
	case level >= slog.LevelError:
		text = color.RedString("ERR")
	case level >= slog.LevelWarn:
		text = color.YellowString("WRN")
	case level >= slog.LevelInfo:
		text = color.GreenString("INF")
	default:
		text = color.HiBlackString(fmt.Sprintf("V%d", slog.LevelInfo-level))
	}

	a.Value = slog.StringValue(text)

	return a
}

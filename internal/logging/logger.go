// Package logging configures the logrus logger shared by the CLI and the
// cleaning pipeline.
package logging

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup builds a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info").
// Format values: "text", "json" (default: "text").
func Setup(w io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(parseLevel(level))
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return l
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type runIDKey struct{}

// WithRunID stores a run id on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// FromContext returns an entry carrying the run id stored on ctx, if any.
func FromContext(ctx context.Context, l logrus.FieldLogger) *logrus.Entry {
	e := l.WithFields(logrus.Fields{})
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		e = e.WithField("run_id", id)
	}
	return e
}

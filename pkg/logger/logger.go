// Package logger wraps logrus with the service defaults and request
// correlation fields.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type Logger struct {
	*logrus.Logger
}

type Config struct {
	// Component is attached to every entry as the "component" field.
	Component string
	Level     string
	// Format is "json" or "text".
	Format string
	Output io.Writer
}

func New(cfg Config) *Logger {
	l := logrus.New()

	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stdout)
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Component != "" {
		l.AddHook(componentHook(cfg.Component))
	}

	return &Logger{Logger: l}
}

// NewDefault returns an info-level JSON logger for the named component.
func NewDefault(component string) *Logger {
	return New(Config{Component: component})
}

// NewForEnv picks text output for local development and JSON everywhere else.
func NewForEnv(component, env, level string) *Logger {
	format := "json"
	if env == "" || env == "development" {
		format = "text"
	}
	return New(Config{Component: component, Level: level, Format: format})
}

// NewNop discards everything. Meant for tests.
func NewNop() *Logger {
	return New(Config{Output: io.Discard, Level: "panic"})
}

// WithContext returns an entry carrying the request id and the active trace
// and span ids found in ctx.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithContext(ctx)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		entry = entry.WithFields(logrus.Fields{
			"trace_id": sc.TraceID().String(),
			"span_id":  sc.SpanID().String(),
		})
	}
	return entry
}

type componentHook string

func (h componentHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h componentHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["component"]; !ok {
		e.Data["component"] = string(h)
	}
	return nil
}

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	loggerMu   sync.RWMutex
	logger     *logrus.Entry
	fileLogger *FileLogger
)

// FileLogger is a logrus hook that appends every entry as JSON to a file
// for local-otel.
type FileLogger struct {
	mu       sync.Mutex
	file     *os.File
	encoder  *json.Encoder
	filePath string
}

// InitLogger replaces the global logger. Output goes to out, or stderr
// when out is nil.
func InitLogger(cfg *Config, out io.Writer) error {
	base := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	base.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if cfg.LogFormat == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	var hookErr error
	var hook *FileLogger
	if cfg.ExportToFile && cfg.LogsFilePath != "" {
		hook, hookErr = NewFileLogger(cfg.LogsFilePath)
		if hookErr == nil {
			base.AddHook(hook)
		}
	}

	entry := base.WithFields(logrus.Fields{
		"service.name":    cfg.ServiceName,
		"service.version": cfg.ServiceVersion,
		"environment":     cfg.Environment,
	})

	loggerMu.Lock()
	previous := fileLogger
	logger, fileLogger = entry, hook
	loggerMu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	if hookErr != nil {
		entry.WithError(hookErr).Error("Failed to create file logger")
	}
	return hookErr
}

// NewFileLogger creates a new file logger
func NewFileLogger(filePath string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &FileLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		filePath: filePath,
	}, nil
}

// Levels returns the log levels this hook is interested in
func (f *FileLogger) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire is called when a log event is fired
func (f *FileLogger) Fire(entry *logrus.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := make(map[string]interface{}, len(entry.Data)+3)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}
	data["@timestamp"] = entry.Time.Format(timestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	return f.encoder.Encode(data)
}

// Close closes the file logger
func (f *FileLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

// L returns the global logger
func L() *logrus.Entry {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger
}

// Component returns a logger tagged with component, suitable for
// sdk.Config.WithLogger.
func Component(name string) *logrus.Entry {
	return L().WithField("component", name)
}

// WithContext adds trace information to the logger
func WithContext(ctx context.Context) *logrus.Entry {
	entry := L().WithContext(ctx)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		entry = entry.WithFields(logrus.Fields{
			"trace.id": span.SpanContext().TraceID().String(),
			"span.id":  span.SpanContext().SpanID().String(),
		})
	}

	return entry
}

// WithFields adds fields to the logger
func WithFields(fields logrus.Fields) *logrus.Entry {
	return L().WithFields(fields)
}

// WithError adds an error to the logger
func WithError(err error) *logrus.Entry {
	return L().WithError(err)
}

// CloseLogger closes any open resources
func CloseLogger() error {
	loggerMu.Lock()
	f := fileLogger
	fileLogger = nil
	loggerMu.Unlock()
	if f != nil {
		return f.Close()
	}
	return nil
}

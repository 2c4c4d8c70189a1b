package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logDir = "logs"

// NewLogger builds the JSON logger used across the service. Output goes to
// stdout; when LOG_FILE is set, entries are also written asynchronously to
// logs/<LOG_FILE>.
func NewLogger(service string) *logrus.Logger {
	logger := newBaseLogger(service, os.Getenv("LOG_LEVEL"))

	fileName := os.Getenv("LOG_FILE")
	if fileName == "" {
		logger.SetOutput(os.Stdout)
		return logger
	}

	logFile := filepath.Clean(filepath.Join(logDir, fileName))
	if !strings.HasPrefix(logFile, logDir+string(filepath.Separator)) {
		log.Fatalf("invalid log file path: must be in %s directory", logDir)
	}
	if err := os.MkdirAll(logDir, 0750); err != nil {
		log.Fatalf("failed to create logs directory: %v", err)
	}
	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("failed to initialize async log writer: %v", err)
	}
	logger.SetOutput(asyncWriter)
	logger.AddHook(NewConsoleHook(os.Stdout))
	return logger
}

func newBaseLogger(service, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(parseLevel(level))
	if service != "" {
		logger.AddHook(&serviceHook{service: service})
	}
	return logger
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// NewTestLogger returns a logger writing to w, at debug level.
func NewTestLogger(w io.Writer) *logrus.Logger {
	logger := newBaseLogger("", "debug")
	logger.SetOutput(w)
	return logger
}

type serviceHook struct {
	service string
}

func (h *serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.service
	}
	return nil
}

func (h *serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger 使用 logrus 输出访问日志。
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return chimw.RequestLogger(&logFormatter{logger: logger.WithField("component", "http")})
}

type logFormatter struct {
	logger logrus.FieldLogger
}

func (f *logFormatter) NewLogEntry(r *http.Request) chimw.LogEntry {
	return &logEntry{logger: f.logger.WithFields(logrus.Fields{
		"request_id": chimw.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote":     r.RemoteAddr,
	})}
}

type logEntry struct {
	logger logrus.FieldLogger
}

func (e *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.logger.WithFields(logrus.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	}).Info("request completed")
}

func (e *logEntry) Panic(v interface{}, stack []byte) {
	e.logger.WithFields(logrus.Fields{
		"panic": v,
		"stack": string(stack),
	}).Error("request panicked")
}

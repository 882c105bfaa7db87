// Package telemetry writes the session event log as JSON lines.
package telemetry

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONLogger appends one JSON object per event. Every entry carries the
// session id it was opened with. A nil logger drops everything.
type JSONLogger struct {
	mu      sync.Mutex
	w       io.WriteCloser
	session string
	now     func() time.Time
}

// NewJSONLogger appends to path, creating parent directories. An empty path
// discards events.
func NewJSONLogger(path, sessionID string) (*JSONLogger, error) {
	if path == "" {
		return NewWriterLogger(io.Discard, sessionID), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLogger{w: f, session: sessionID, now: time.Now}, nil
}

// NewWriterLogger logs to w, which is never closed.
func NewWriterLogger(w io.Writer, sessionID string) *JSONLogger {
	return &JSONLogger{w: nopCloser{Writer: w}, session: sessionID, now: time.Now}
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := make(map[string]any, len(fields)+4)
	maps.Copy(entry, fields)
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	if l.session != "" {
		entry["session"] = l.session
	}
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"ts": entry["ts"], "level": "error", "msg": "unencodable event", "event": msg})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

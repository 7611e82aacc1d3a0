package synclog

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

// Clock returns the current time
type Clock func() time.Time

// Collector accumulates the ordered log entries returned with a sync result
type Collector struct {
	mu      sync.Mutex
	entries []models.LogEntry
	now     Clock
	logger  *logrus.Entry
}

// NewCollector creates an empty collector whose entries are also written to
// logger tagged with invocationID. A nil clock means time.Now.
func NewCollector(logger *logrus.Logger, invocationID string, now Clock) *Collector {
	if now == nil {
		now = time.Now
	}
	return &Collector{
		entries: make([]models.LogEntry, 0, 16),
		now:     now,
		logger:  logger.WithField("invocation_id", invocationID),
	}
}

func (c *Collector) Info(message string, data any) {
	c.append(models.LogInfo, message, data)
}

func (c *Collector) Success(message string, data any) {
	c.append(models.LogSuccess, message, data)
}

func (c *Collector) Error(message string, data any) {
	c.append(models.LogError, message, data)
}

func (c *Collector) append(logType models.LogType, message string, data any) {
	c.mu.Lock()
	entry := models.LogEntry{Type: logType, Message: message, Data: data, Timestamp: c.now().UTC()}
	c.entries = append(c.entries, entry)
	c.mu.Unlock()

	l := c.logger.WithField("type", logType)
	if data != nil {
		l = l.WithField("data", data)
	}
	if logType == models.LogError {
		l.Error(message)
		return
	}
	l.Info(message)
}

// Entries returns a copy of the entries in the order they were recorded
func (c *Collector) Entries() []models.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Progress returns a writer that records each completed line of git progress
// output as an info entry. Carriage-return redraws within a line keep only the
// final state. Call Flush once the git operation returns to record a trailing
// line that never got its newline.
func (c *Collector) Progress(message string) *ProgressWriter {
	return &ProgressWriter{c: c, message: message}
}

type ProgressWriter struct {
	mu      sync.Mutex
	c       *Collector
	message string
	buf     bytes.Buffer
}

func (w *ProgressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(line)
	}
	return len(p), nil
}

// Flush records any buffered partial line
func (w *ProgressWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return
	}
	line := w.buf.String()
	w.buf.Reset()
	w.emit(line)
}

func (w *ProgressWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if i := strings.LastIndex(line, "\r"); i >= 0 {
		line = line[i+1:]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	w.c.Info(w.message, map[string]string{"progress": line})
}

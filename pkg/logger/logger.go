package logger

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"
)

// RunLogger handles logging for individual validation runs. The buffer is
// persisted alongside the run's report artifacts, so we can see after the
// fact how fabric-watch arrived at the verdicts it did.
type RunLogger struct {
	buf    *bytes.Buffer
	logger *log.Logger
	id     string
}

// NewRunLogger creates a new logger for a validation run.
func NewRunLogger(id string) *RunLogger {
	buf := &bytes.Buffer{}

	return &RunLogger{
		buf:    buf,
		logger: log.New(buf, "", log.LstdFlags),
		id:     id,
	}
}

// Printf logs a formatted message
func (l *RunLogger) Printf(format string, v ...interface{}) {
	l.logger.Printf(format, v...)
}

// Print logs a message
func (l *RunLogger) Print(v ...interface{}) {
	l.logger.Print(v...)
}

// GetID returns the run ID
func (l *RunLogger) GetID() string {
	return l.id
}

// GetBuffer returns the underlying buffer
func (l *RunLogger) GetBuffer() *bytes.Buffer {
	return l.buf
}

// GenerateRunID generates a unique ID for a validation run.
func GenerateRunID() string {
	// Generate 8 random bytes.
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// If random fails, use timestamp only.
		return time.Now().UTC().Format("20060102-150405")
	}

	// Format as timestamp-random.
	return fmt.Sprintf("%s-%s",
		time.Now().UTC().Format("20060102-150405"),
		hex.EncodeToString(b),
	)
}

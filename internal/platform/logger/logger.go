// Package logger provides structured logging for the simulation server.
package logger

import (
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"
)

// Logger provides structured logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a new logger instance.
func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[SIM-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[SIM-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[SIM-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Event logs a specific simulation event for the audit trail.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Actor:%s | %s", eventType, actorID, details)
}

// WarnCountdown logs a warning annotated with a human-readable
// countdown, used for fuel-exhaustion and despawn-timer warnings where
// a raw microsecond delta is unreadable in logs.
func (l *Logger) WarnCountdown(msg string, firesAt int64, now int64) {
	remaining := time.Duration(firesAt-now) * time.Microsecond
	l.warnLogger.Printf("%s (in %s)", msg, humanize.RelTime(time.Now(), time.Now().Add(remaining), "", ""))
}

// EventAt logs an audit-trail event stamped with an explicit timestamp
// formatted via strftime, used by replay/recap paths where the event's
// own timestamp (not wall-clock now) is what matters.
func (l *Logger) EventAt(eventType, actorID, details string, at time.Time) {
	l.infoLogger.Printf("[EVENT:%s] Actor:%s @ %s | %s", eventType, actorID, strftime.Format("%Y-%m-%d %H:%M:%S", at), details)
}

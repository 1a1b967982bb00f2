package logger

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger. All messages are stamped with the subsystem
// tag and routed through the owning Backend.
type Logger struct {
	lvl       uint32 // accessed atomically, holds a Level
	tag       string
	b         *Backend
	writeChan chan logEntry
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.lvl))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.lvl, uint32(level))
}

func (l *Logger) write(level Level, args ...interface{}) {
	if !l.b.IsRunning() {
		return
	}
	l.writeChan <- logEntry{l.format(level, fmt.Sprint(args...)), level}
}

func (l *Logger) writef(level Level, format string, args ...interface{}) {
	if !l.b.IsRunning() {
		return
	}
	l.writeChan <- logEntry{l.format(level, fmt.Sprintf(format, args...)), level}
}

// format stamps the message with the timestamp, level and subsystem tag:
// 2006-01-02 15:04:05.000 [INF] CHAN: message
func (l *Logger) format(level Level, msg string) []byte {
	var buf bytes.Buffer
	buf.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(level.String())
	buf.WriteString("] ")
	buf.WriteString(l.tag)
	buf.WriteString(": ")
	buf.WriteString(msg)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Trace formats a message using the default formats for its operands, and
// writes it at LevelTrace.
func (l *Logger) Trace(args ...interface{}) {
	if l.Level() <= LevelTrace {
		l.write(LevelTrace, args...)
	}
}

// Tracef formats a message according to a format specifier and writes it at
// LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.Level() <= LevelTrace {
		l.writef(LevelTrace, format, args...)
	}
}

// Debug formats a message using the default formats for its operands, and
// writes it at LevelDebug.
func (l *Logger) Debug(args ...interface{}) {
	if l.Level() <= LevelDebug {
		l.write(LevelDebug, args...)
	}
}

// Debugf formats a message according to a format specifier and writes it at
// LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.Level() <= LevelDebug {
		l.writef(LevelDebug, format, args...)
	}
}

// Info formats a message using the default formats for its operands, and
// writes it at LevelInfo.
func (l *Logger) Info(args ...interface{}) {
	if l.Level() <= LevelInfo {
		l.write(LevelInfo, args...)
	}
}

// Infof formats a message according to a format specifier and writes it at
// LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.Level() <= LevelInfo {
		l.writef(LevelInfo, format, args...)
	}
}

// Warn formats a message using the default formats for its operands, and
// writes it at LevelWarn.
func (l *Logger) Warn(args ...interface{}) {
	if l.Level() <= LevelWarn {
		l.write(LevelWarn, args...)
	}
}

// Warnf formats a message according to a format specifier and writes it at
// LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.Level() <= LevelWarn {
		l.writef(LevelWarn, format, args...)
	}
}

// Error formats a message using the default formats for its operands, and
// writes it at LevelError.
func (l *Logger) Error(args ...interface{}) {
	if l.Level() <= LevelError {
		l.write(LevelError, args...)
	}
}

// Errorf formats a message according to a format specifier and writes it at
// LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.Level() <= LevelError {
		l.writef(LevelError, format, args...)
	}
}

// Critical formats a message using the default formats for its operands, and
// writes it at LevelCritical.
func (l *Logger) Critical(args ...interface{}) {
	if l.Level() <= LevelCritical {
		l.write(LevelCritical, args...)
	}
}

// Criticalf formats a message according to a format specifier and writes it
// at LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	if l.Level() <= LevelCritical {
		l.writef(LevelCritical, format, args...)
	}
}


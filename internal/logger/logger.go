// Package logger is the leveled logger used across glarch. Its Error, Warn,
// Info and Debug methods satisfy retryablehttp.LeveledLogger so the same
// instance can be handed to the go-gitlab client.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Logger levels available
const (
	LOG_NONE = iota
	LOG_ERROR
	LOG_INFO
	LOG_DEBUG
)

var levelNames = map[string]int{
	"none":  LOG_NONE,
	"error": LOG_ERROR,
	"info":  LOG_INFO,
	"debug": LOG_DEBUG,
}

// Logger keeps one log.Logger per level so each level can have its own
// destination and prefix.
type Logger struct {
	mu    sync.Mutex
	level int
	error *log.Logger
	warn  *log.Logger
	info  *log.Logger
	debug *log.Logger
}

var (
	instance *Logger
	once     sync.Once
)

// GetInstance returns the process wide logger.
func GetInstance() *Logger {
	once.Do(func() {
		instance = New(os.Stdout, os.Stderr)
	})
	return instance
}

// New builds a logger writing informational output to stdout and errors to
// stderr. Level defaults to LOG_INFO.
func New(stdout, stderr io.Writer) *Logger {
	// Lmsgprefix keeps the level prefix between the timestamp and message
	flags := log.LstdFlags | log.Lmsgprefix
	return &Logger{
		level: LOG_INFO,
		error: log.New(stderr, "ERROR: ", flags),
		warn:  log.New(stdout, "WARNING: ", flags),
		info:  log.New(stdout, "", flags),
		debug: log.New(stdout, "DEBUG: ", flags),
	}
}

// ParseLevel converts a level name (none, error, info, debug) to its value.
func ParseLevel(name string) (int, error) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LOG_NONE, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// SetLogLevel sets the level of the logger.
// Allowed values are LOG_{ERROR,INFO,DEBUG,NONE}.
func (l *Logger) SetLogLevel(level int) error {
	if level < LOG_NONE || level > LOG_DEBUG {
		return errors.New("invalid log level")
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
	return nil
}

// LogLevel returns the current log level.
func (l *Logger) LogLevel() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetStdDest redirects stdout and stderr destinations of the logger.
func (l *Logger) SetStdDest(stdout io.Writer, stderr io.Writer) {
	l.error.SetOutput(stderr)
	l.warn.SetOutput(stdout)
	l.info.SetOutput(stdout)
	l.debug.SetOutput(stdout)
}

func (l *Logger) enabled(level int) bool {
	return l.LogLevel() >= level
}

// printKeysAndValues prints key/value pairs the way go-retryablehttp passes
// them to a LeveledLogger.
func printKeysAndValues(l *log.Logger, keysAndValues ...interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		l.Printf("\t%v = %v\n", keysAndValues[i], keysAndValues[i+1])
	}
}

// callerPrefix returns "file.go:line:" of the function that called the
// logger method.
func callerPrefix(msg string) string {
	file, line := "???", 0
	// depth 2 skips callerPrefix and the logger method itself
	if _, path, l, ok := runtime.Caller(2); ok {
		parts := strings.Split(path, "/")
		file, line = parts[len(parts)-1], l
	}
	prefix := file + ":" + strconv.Itoa(line) + ":"
	if strings.TrimSpace(msg) != "" {
		prefix += " "
	}
	return prefix + msg
}

// Fatal prints the values and exits with status 1.
func (l *Logger) Fatal(values ...interface{}) {
	l.error.Fatal(append([]interface{}{callerPrefix("")}, values...)...)
}

// Fatalf prints a formatted message and exits with status 1.
func (l *Logger) Fatalf(format string, values ...interface{}) {
	l.error.Fatalf("%s "+format, append([]interface{}{callerPrefix("")}, values...)...)
}

// Error messages are printed unless the level is LOG_NONE.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	if l.enabled(LOG_ERROR) {
		l.error.Print(callerPrefix(msg))
		printKeysAndValues(l.error, keysAndValues...)
	}
}

// Errorf prints a formatted error message.
func (l *Logger) Errorf(format string, values ...interface{}) {
	if l.enabled(LOG_ERROR) {
		l.error.Printf("%s "+format, append([]interface{}{callerPrefix("")}, values...)...)
	}
}

// Warn messages require at least LOG_INFO.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	if l.enabled(LOG_INFO) {
		l.warn.Print(callerPrefix(msg))
		printKeysAndValues(l.warn, keysAndValues...)
	}
}

// Warnf prints a formatted warning message.
func (l *Logger) Warnf(format string, values ...interface{}) {
	if l.enabled(LOG_INFO) {
		l.warn.Printf("%s "+format, append([]interface{}{callerPrefix("")}, values...)...)
	}
}

// Info messages require at least LOG_INFO.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if l.enabled(LOG_INFO) {
		l.info.Print(callerPrefix(msg))
		printKeysAndValues(l.info, keysAndValues...)
	}
}

// Infof prints a formatted informational message.
func (l *Logger) Infof(format string, values ...interface{}) {
	if l.enabled(LOG_INFO) {
		l.info.Printf("%s "+format, append([]interface{}{callerPrefix("")}, values...)...)
	}
}

// Debug messages require LOG_DEBUG. go-retryablehttp logs every request
// here, which keeps them out of normal output.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l.enabled(LOG_DEBUG) {
		l.debug.Print(callerPrefix(msg))
		printKeysAndValues(l.debug, keysAndValues...)
	}
}

// Debugf prints a formatted debug message.
func (l *Logger) Debugf(format string, values ...interface{}) {
	if l.enabled(LOG_DEBUG) {
		l.debug.Printf("%s "+format, append([]interface{}{callerPrefix("")}, values...)...)
	}
}

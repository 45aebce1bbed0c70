// Package logger provides leveled logging for the service: a console
// backend at a configurable level, a DEBUG file backend, and an in-memory
// buffer of recent entries that admins can read back over the API.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"
)

const (
	moduleName       = "trashcanpro"
	maxLogBufferSize = 2048                  // entries kept in memory
	logFileName      = "trashcanpro.log"     // file inside the log folder
	timeFormat       = "2006/01/02 15:04:05" // timestamp layout
)

type entry struct {
	time  string
	level logging.Level
	log   string
}

var (
	logger  *logging.Logger
	logFile *os.File

	mu        sync.Mutex
	logBuffer []entry
)

func init() {
	// Usable before InitLogger (tests, CLI): plain stderr at INFO.
	l := logging.MustGetLogger(moduleName)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true)))
	leveled.SetLevel(logging.INFO, moduleName)
	l.SetBackend(leveled)
	logger = l
}

// ParseLevel maps a config string to a logging level.  Unknown values fall
// back to INFO.
func ParseLevel(s string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logging.DEBUG
	case "notice":
		return logging.NOTICE
	case "warn", "warning":
		return logging.WARNING
	case "error":
		return logging.ERROR
	default:
		return logging.INFO
	}
}

// InitLogger installs the console backend at level and, when logDir is not
// empty, a file backend that always logs at DEBUG.
func InitLogger(level logging.Level, logDir string) {
	newLogger := logging.MustGetLogger(moduleName)
	backends := make([]logging.Backend, 0, 2)

	console := logging.AddModuleLevel(logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true)))
	console.SetLevel(level, moduleName)
	backends = append(backends, console)

	if logDir != "" {
		if fileBackend := initFileBackend(logDir); fileBackend != nil {
			leveled := logging.AddModuleLevel(fileBackend)
			leveled.SetLevel(logging.DEBUG, moduleName)
			backends = append(backends, leveled)
		}
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

// initFileBackend opens <logDir>/trashcanpro.log in append mode.
func initFileBackend(logDir string) logging.Backend {
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}
	logPath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter(true))
}

func newFormatter(withTime bool) logging.Formatter {
	format := `%{level} - %{message}`
	if withTime {
		format = `%{time:` + timeFormat + `} %{level} - %{message}`
	}
	return logging.MustStringFormatter(format)
}

// CloseLogger closes the log file.  Call during shutdown.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	logger.Debug(args...)
	addToBuffer(logging.DEBUG, fmt.Sprint(args...))
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
	addToBuffer(logging.DEBUG, fmt.Sprintf(format, args...))
}

func Info(args ...any) {
	logger.Info(args...)
	addToBuffer(logging.INFO, fmt.Sprint(args...))
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
	addToBuffer(logging.INFO, fmt.Sprintf(format, args...))
}

func Warning(args ...any) {
	logger.Warning(args...)
	addToBuffer(logging.WARNING, fmt.Sprint(args...))
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
	addToBuffer(logging.WARNING, fmt.Sprintf(format, args...))
}

func Error(args ...any) {
	logger.Error(args...)
	addToBuffer(logging.ERROR, fmt.Sprint(args...))
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
	addToBuffer(logging.ERROR, fmt.Sprintf(format, args...))
}

// Fatalf logs at CRITICAL and exits.
func Fatalf(format string, args ...any) {
	logger.Criticalf(format, args...)
	CloseLogger()
	os.Exit(1)
}

func addToBuffer(level logging.Level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if len(logBuffer) >= maxLogBufferSize {
		logBuffer = logBuffer[1:]
	}
	logBuffer = append(logBuffer, entry{
		time:  time.Now().Format(timeFormat),
		level: level,
		log:   msg,
	})
}

// GetLogs returns up to c of the most recent buffered entries at or above
// the severity named by level, newest first.
func GetLogs(c int, level string) []string {
	want := ParseLevel(level)
	mu.Lock()
	defer mu.Unlock()
	var output []string
	for i := len(logBuffer) - 1; i >= 0 && len(output) < c; i-- {
		if logBuffer[i].level <= want {
			output = append(output, fmt.Sprintf("%s %s - %s", logBuffer[i].time, logBuffer[i].level, logBuffer[i].log))
		}
	}
	return output
}

// Package output writes smithy's logs, notices and tables to the terminal.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger writes to stderr; stdout is reserved for command output.
var logger = log.New(os.Stderr)

// LogConfig selects the log level and line prefix.
type LogConfig struct {
	// Verbose logs at debug level with timestamps and callers.
	Verbose bool

	// Timestamps overrides the timestamp prefix. Nil keeps it on.
	Timestamps *bool
}

// BoolPtr returns &b.
func BoolPtr(b bool) *bool {
	return &b
}

func (c LogConfig) options() log.Options {
	opts := log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: c.Timestamps == nil || *c.Timestamps,
		TimeFormat:      "15:04:05",
	}
	if c.Verbose {
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
		opts.ReportCaller = true
	}
	return opts
}

// SetupLogging replaces the package logger according to cfg.
func SetupLogging(cfg LogConfig) {
	setupLogging(os.Stderr, cfg)
}

func setupLogging(w io.Writer, cfg LogConfig) {
	logger = log.NewWithOptions(w, cfg.options())
}

// Debug logs at debug level. Callers are reported at the call site.
func Debug(msg string, keyvals ...any) {
	logger.Helper()
	logger.Debug(msg, keyvals...)
}

// Info logs at info level.
func Info(msg string, keyvals ...any) {
	logger.Helper()
	logger.Info(msg, keyvals...)
}

// Warn logs at warn level.
func Warn(msg string, keyvals ...any) {
	logger.Helper()
	logger.Warn(msg, keyvals...)
}

// Error logs at error level.
func Error(msg string, keyvals ...any) {
	logger.Helper()
	logger.Error(msg, keyvals...)
}

// Println writes msg and a newline to stdout.
func Println(msg string) {
	_, _ = io.WriteString(os.Stdout, msg+"\n")
}

// Package logging provides structured, colorful logging utilities for batchq
// components, ensuring consistent log formatting across the library, the
// batch gateway daemon, and the CLI.
//
// Implements a unified logging interface that standardizes log output from
// the queueing core, the gin HTTP gateway, and integrated third-party
// libraries (gin, resty, net/http). Uses color-coded log levels and
// consistent timestamp formatting to improve operational visibility and
// debugging efficiency.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Flexible output: Configurable log levels and output suppression for CLI tools
//   - Library integration: io.Writer adapters for third-party libraries
//   - Standard redirection: Routes standard library logs through the unified system
//
// The queueing core logs its diagnostic messages (batch failures, response
// length mismatches) through this package, making it the diagnostic sink for
// the whole request batching pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Logger for INFO/SUCCESS messages (stdout by default, follows Unix conventions)
	stdoutLogger = log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Logger for WARN/ERROR/DEBUG messages (stderr by default, follows Unix conventions)
	stderrLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Track if logging has been explicitly configured by CLI tools
	cliConfigured = false

	// Track the current output destinations for different log levels
	currentStdoutOutput io.Writer = os.Stdout // For INFO/SUCCESS
	currentStderrOutput io.Writer = os.Stderr // For WARN/ERROR/DEBUG

	// Track if we're using a single log file (overrides stdout/stderr separation)
	usingLogFile  = false
	logFileHandle io.Writer
)

// setupCustomStyles creates custom color styling for log levels. Configures
// distinct colors for each level to improve visual parsing of log output
// during development and operational monitoring.
//
// Colors are chosen to work well in both light and dark terminals while
// maintaining readability for production logging.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// init sets up custom color styling on package initialization for consistent
// visual formatting across all logging output.
func init() {
	styles := setupCustomStyles()
	stdoutLogger.SetStyles(styles)
	stderrLogger.SetStyles(styles)
}

// getStdoutLoggerOutput returns the current output destination for the
// stdout logger. Used by Success to respect log file redirection.
func getStdoutLoggerOutput() io.Writer {
	if usingLogFile {
		return logFileHandle
	}
	return currentStdoutOutput
}

// Info logs informational messages for queue and gateway operations.
// Uses stdout following Unix conventions (or log file when specified).
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for non-critical issues requiring attention,
// such as batch response length mismatches.
// Uses stderr following Unix conventions (or log file when specified).
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs error messages for failures such as dropped batches and
// transport errors. Uses stderr following Unix conventions (or log file
// when specified).
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green using INFO level with custom
// styling. Uses stdout following Unix conventions (or log file when
// specified). Implements a custom SUCCESS level that respects INFO level
// filtering.
func Success(format string, v ...any) {
	// Check if INFO level logs are enabled (Success uses INFO level internally)
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return // Skip if INFO level is suppressed
	}

	currentOutput := getStdoutLoggerOutput()

	// Create a temporary logger with custom styling for success messages
	// We override the INFO level to display "SUCCESS" in light green
	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281")) // Light green

	tempLogger := log.NewWithOptions(currentOutput, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)

	tempLogger.Info(fmt.Sprintf(format, v...))
}

// Debug logs detailed debugging information such as per-batch flush
// decisions and transport request traces.
// Uses stderr following Unix conventions (or log file when specified).
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// SetLevel configures the minimum logging level for filtering log output
// across all components. Accepts standard level strings (DEBUG, INFO, WARN,
// ERROR) and applies filtering to reduce noise during production operations
// or increase verbosity during troubleshooting sessions.
func SetLevel(level string) {
	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	// Apply level to both loggers
	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

// SetOutput configures log output destination for operational log
// management. When a file is specified, all logs go to the file (overriding
// Unix stdout/stderr separation). When nil, suppresses all output. When not
// called, uses Unix conventions (INFO/SUCCESS->stdout, others->stderr).
//
// Enables file-based logging for gateway deployments and output suppression
// for CLI tools.
func SetOutput(w *os.File) {
	if w == nil {
		// Suppress output by setting level to a high value
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		usingLogFile = false
	} else {
		// When using a log file, all logs go to the same file (production mode)
		usingLogFile = true
		logFileHandle = w

		// Recreate both loggers to use the file
		stdoutLogger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
		})
		stderrLogger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
		})

		// Apply custom styles to both loggers
		styles := setupCustomStyles()
		stdoutLogger.SetStyles(styles)
		stderrLogger.SetStyles(styles)
	}
}

// SuppressOutput disables INFO/WARN/DEBUG logs while keeping ERROR logs
// visible. Used by the CLI to reduce output noise during normal operations.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel) // Only show ERROR level and above
	stderrLogger.SetLevel(log.ErrorLevel) // Only show ERROR level and above
	cliConfigured = true
}

// RestoreOutput restores normal logging with Unix conventions at INFO level
// and above. Recreates both loggers with default settings and custom color
// styling. INFO/SUCCESS go to stdout, WARN/ERROR/DEBUG go to stderr.
//
// Used by the CLI to re-enable logging after suppression, e.g. when
// DEBUG=true is set in the environment.
func RestoreOutput() {
	// Reset to Unix conventions: stdout for INFO/SUCCESS, stderr for others
	usingLogFile = false

	stdoutLogger = log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	stderrLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Apply custom styles to both loggers
	styles := setupCustomStyles()
	stdoutLogger.SetStyles(styles)
	stderrLogger.SetStyles(styles)

	// Set INFO level for both
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)

	// Track the restored output destinations
	currentStdoutOutput = os.Stdout
	currentStderrOutput = os.Stderr
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured
// by CLI tools. The gateway checks this before wiring gin's default writers
// so it doesn't stomp on CLI-managed suppression.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// LevelWriter forwards log lines to a specific log level with optional
// prefix. Useful for integrating third-party libraries that expect
// io.Writer interfaces, such as gin's default writers and http.Server's
// ErrorLog.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level
// with prefix. Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write implements io.Writer by splitting input into lines and logging each
// at the configured level with the configured prefix.
func (w *LevelWriter) Write(p []byte) (int, error) {
	text := string(p)
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "INFO":
			Info("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RedirectStandardLog redirects Go's standard library logger output to the
// provided writer. Captures logs from dependencies that use the global
// logger and routes them through the unified logging pipeline. Passing nil
// discards standard log output.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}

package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

// loggerNames are the loggers created by the packages of this module
var loggerNames = []string{"serializer", "tagged", "cache", "api", "cmd"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// serjsLogger implements the ILogger interface with custom formatting.
// All loggers share one output, see SetLogOutput.
type serjsLogger struct {
	name  string
	level logger.LogLevel
}

func (l *serjsLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *serjsLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *serjsLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *serjsLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *serjsLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *serjsLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *serjsLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s %-5s | %-10s | %s\n", time.Now().Format(timeFormat), levelStr, l.name, message)

	outputMu.Lock()
	defer outputMu.Unlock()
	_, _ = io.WriteString(logOutput, line)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

const timeFormat = "2006/01/02 15:04:05"

var (
	// logOutput is where all loggers write to. stdout is reserved for rendered JavaScript.
	logOutput io.Writer = os.Stderr
	outputMu  sync.Mutex

	// dragonboat panics if the factory is set twice
	installFactory sync.Once
)

// SetLogOutput redirects all loggers to w (nil restores stderr)
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	outputMu.Lock()
	defer outputMu.Unlock()
	logOutput = w
}

// CreateLogger implements dragonboats logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	return &serjsLogger{
		name:  pkgName,
		level: logger.INFO,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info", "":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom logger factory (once per process) and sets the level
// of all loggers. It may be called again to change the level.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	installFactory.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})
	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/rota/internal/constants"
)

// Logger is the process-wide logger. It stays nil until Init.
var Logger *log.Logger

// Config selects where rota logs and how much.
type Config struct {
	// Debug forces the debug level and echoes every line to stderr.
	Debug bool
	// ConfigDir holds the logs/ directory.
	ConfigDir string
	// Level is the policy's log_level. Empty means info.
	Level string
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(name string) (log.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = constants.DefaultLogLevel
	}
	switch name {
	case "debug", "info", "warn", "error":
		return log.ParseLevel(name)
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q, want debug, info, warn or error", name)
	}
}

// Init opens the rotating log file under <ConfigDir>/logs and installs Logger.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    5, // megabytes; solve runs log a handful of lines each
		MaxBackups: 5,
		MaxAge:     90, // days, enough to cover a full default horizon
		Compress:   true,
	}

	var out io.Writer = file
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, file)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("solve finished", "status", "OPTIMAL", "weeks", 24)
	Warn("solve infeasible", "developers", 7)

	if _, err := os.Stat(filepath.Join(logDir, "rota.log")); err != nil {
		t.Errorf("expected log file to exist after logging: %v", err)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("formulated model", "variables", 144)
}

func TestInitLevelFromPolicy(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		want  log.Level
		fails bool
	}{
		{"default", Config{}, log.InfoLevel, false},
		{"warn", Config{Level: "warn"}, log.WarnLevel, false},
		{"mixed case", Config{Level: " Error "}, log.ErrorLevel, false},
		{"debug flag wins", Config{Level: "error", Debug: true}, log.DebugLevel, false},
		{"unknown", Config{Level: "verbose"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			tt.cfg.ConfigDir = t.TempDir()

			err := Init(tt.cfg)
			if tt.fails {
				if err == nil {
					t.Fatal("Init() succeeded, want an error for an unknown level")
				}
				if Logger != nil {
					t.Error("Logger installed despite an invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// must not panic
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

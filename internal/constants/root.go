package constants

import "time"

const (
	AppName            = "rota"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/rota/rota.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// WeekStart is the canonical first weekday of every Week in a Schedule
	WeekStart = time.Monday

	// DaysPerWeek is the span of a Week, first day included
	DaysPerWeek = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "rota-"

	// Connection string environment variable for PostgreSQL storage
	EnvDBConnection = "ROTA_DB_CONNECTION"

	// Server defaults
	DefaultServerAddr = "127.0.0.1:8080"
)

// DefaultRoster is the developer pool seeded into a fresh schedule
var DefaultRoster = []string{"Matt Davis", "Matt Koski", "Eric", "Nick", "Himani", "Abhi"}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/julianstephens/rota/internal/cli"
	"github.com/julianstephens/rota/internal/config"
	"github.com/julianstephens/rota/internal/constants"
	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/keyring"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/metrics"
	"github.com/julianstephens/rota/internal/service"
	"github.com/julianstephens/rota/internal/storage"
	"github.com/julianstephens/rota/internal/storage/postgres"
	"github.com/julianstephens/rota/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store path (.db for SQLite, .json for JSON) or PostgreSQL connection string. Defaults to the ${env_conn} environment variable or the keyring, then ${default_config}. Credentials must NOT be embedded in the connection string." type:"string"`
	Policy  string `help:"Rotation policy YAML file." type:"path"`
	Debug   bool   `help:"Echo logs to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize storage and seed the schedule."`
	Show     cli.ShowCmd     `cmd:"" help:"Show the support roster." default:"1"`
	Prefer   cli.PreferCmd   `cmd:"" help:"Record a developer's preference for a week."`
	Vacation cli.VacationCmd `cmd:"" help:"Mark a week a developer cannot be on support."`
	Unprefer cli.UnpreferCmd `cmd:"" help:"Drop a developer's preference for a week."`
	Solve    cli.SolveCmd    `cmd:"" help:"Compute a new roster honoring all rules and preferences."`
	Validate cli.ValidateCmd `cmd:"" help:"Check the stored roster and preferences for conflicts."`
	History  cli.HistoryCmd  `cmd:"" help:"List recent solves."`
	Dev      struct {
		Add cli.DevAddCmd `cmd:"" help:"Add a developer to the roster."`
	} `cmd:"" help:"Manage developers."`
	Horizon struct {
		Extend cli.HorizonExtendCmd `cmd:"" help:"Append weeks to the horizon."`
	} `cmd:"" help:"Manage the scheduled horizon."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Serve   cli.ServeCmd `cmd:"" help:"Serve the JSON HTTP API."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("On-call support rotation scheduler"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_addr":   constants.DefaultServerAddr,
			"env_conn":       constants.EnvDBConnection,
		},
	)

	target, err := resolveTarget(CLI.Config)
	apperrors.Fatal(err)

	policy, err := config.LoadPolicy(CLI.Policy)
	apperrors.Fatal(err)

	logDir := filepath.Dir(target)
	if isConnString(target) {
		if defaultPath, err := expandHome(constants.DefaultConfigPath); err == nil {
			logDir = filepath.Dir(defaultPath)
		}
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir, Level: policy.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := openStore(target, CLI.Config != "")
	apperrors.Fatal(err)
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	appCtx := &cli.Context{
		Store:    store,
		Service:  service.New(store, policy, metrics.NewPrometheus(reg, "")),
		Registry: reg,
	}

	// Init brings its own storage up; everything else needs it loaded.
	if selected := ctx.Selected(); selected != nil && selected.Name != "init" && !strings.HasPrefix(ctx.Command(), "keyring") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	apperrors.Fatal(ctx.Run(appCtx))
}

// resolveTarget picks the store location: the flag, then the environment or
// keyring connection string, then the default SQLite file.
func resolveTarget(flag string) (string, error) {
	if flag != "" {
		return expandHome(flag)
	}
	connStr, err := keyring.ResolveConnectionString()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: keyring lookup failed, using default store: %v\n", err)
	}
	if connStr != "" {
		return connStr, nil
	}
	return expandHome(constants.DefaultConfigPath)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

func isConnString(target string) bool {
	return postgres.IsConnString(target) || strings.Contains(target, "host=")
}

// openStore selects the provider from the target's shape. Connection strings
// given on the command line must not carry a password.
func openStore(target string, fromFlag bool) (storage.Provider, error) {
	switch {
	case isConnString(target):
		if fromFlag {
			if err := postgres.ValidateConnString(target); err != nil {
				return nil, fmt.Errorf("%w. Store the full connection string with 'rota keyring set' or in %s instead", err, constants.EnvDBConnection)
			}
		}
		return postgres.New(target), nil
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return storage.NewJSONStore(target), nil
	default:
		return sqlite.NewStore(target), nil
	}
}

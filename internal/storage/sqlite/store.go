package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/migration"
	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/storage"
	"github.com/julianstephens/rota/internal/storage/sqlstore"
	"github.com/julianstephens/rota/migrations"
)

type Store struct {
	path   string
	db     *sql.DB
	tables *sqlstore.Tables
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	s.db = db
	s.tables = sqlstore.New(db, migration.SQLite)
	return nil
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return apperrors.ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.tables = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg, "store", s.path)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) ensureLoaded() error {
	if s.tables != nil {
		return nil
	}
	return s.Load()
}

func (s *Store) LoadSchedule() (*models.Schedule, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.tables.LoadSchedule()
}

func (s *Store) SaveSchedule(sched *models.Schedule) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.tables.SaveSchedule(sched)
}

func (s *Store) AddSolveRun(run models.SolveRun) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.tables.AddSolveRun(run)
}

func (s *Store) GetSolveRuns(limit int) ([]models.SolveRun, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.tables.GetSolveRuns(limit)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/models"
)

// Store is the on-disk layout of the JSON store.
type Store struct {
	Version  int               `json:"version"`
	Checksum string            `json:"checksum,omitempty"` // xxh3 of the encoded schedule
	Schedule json.RawMessage   `json:"schedule,omitempty"`
	Runs     []models.SolveRun `json:"runs"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

// Init creates the store file. An existing file is loaded instead of replaced.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.store = &Store{Version: 1, Runs: []models.SolveRun{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	store := &Store{}
	if err := json.Unmarshal(data, store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if len(store.Schedule) > 0 {
		if got := checksum(store.Schedule); got != store.Checksum {
			return fmt.Errorf("storage checksum mismatch (stored %s, computed %s): file was modified outside rota", store.Checksum, got)
		}
	}
	if store.Runs == nil {
		store.Runs = []models.SolveRun{}
	}

	s.store = store
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) ensureLoaded() error {
	if s.store != nil {
		return nil
	}
	return s.Load()
}

func (s *JSONStore) LoadSchedule() (*models.Schedule, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	if len(s.store.Schedule) == 0 || string(s.store.Schedule) == "null" {
		return nil, apperrors.ErrNotInitialized
	}

	sched := models.NewSchedule()
	if err := json.Unmarshal(s.store.Schedule, sched); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return sched, nil
}

func (s *JSONStore) SaveSchedule(sched *models.Schedule) error {
	if err := s.ensureLoaded(); err != nil {
		if !errors.Is(err, apperrors.ErrNotInitialized) {
			return err
		}
		if err := s.Init(); err != nil {
			return err
		}
	}

	data, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}

	s.store.Schedule = data
	s.store.Checksum = checksum(data)
	return s.save()
}

func (s *JSONStore) AddSolveRun(run models.SolveRun) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.store.Runs = append(s.store.Runs, run)
	return s.save()
}

func (s *JSONStore) GetSolveRuns(limit int) ([]models.SolveRun, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return newestFirst(s.store.Runs, limit), nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// checksum hashes the compact form of data, so indentation added when the
// store file is written does not change it.
func checksum(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err == nil {
		data = buf.Bytes()
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

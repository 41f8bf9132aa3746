// Package storage defines the persistence contract for schedules and the
// file-backed JSON implementation of it.
package storage

import (
	"errors"
	"sort"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/models"
)

// LoadOrSeed returns the stored schedule, or a freshly seeded one when the
// store holds none yet. The bool reports whether seeding happened; the seeded
// schedule is not saved.
func LoadOrSeed(p Provider, seed func() (*models.Schedule, error)) (*models.Schedule, bool, error) {
	s, err := p.LoadSchedule()
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotInitialized) {
		return nil, false, err
	}

	logger.Info("No stored schedule, seeding a new one", "store", p.GetConfigPath())
	s, err = seed()
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// newestFirst sorts runs by start time, newest first, and applies limit.
func newestFirst(runs []models.SolveRun, limit int) []models.SolveRun {
	out := append([]models.SolveRun(nil), runs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

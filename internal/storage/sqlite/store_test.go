package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "rota.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSchedule(t *testing.T) *models.Schedule {
	t.Helper()
	first := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	s, err := models.Seed([]string{"Alice", "Bob", "Carol"}, first, 4)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	weeks := s.WeeksSortedByFirstDay()
	if _, err := s.AddPreference("Bob", weeks[2], models.VeryPositive); err != nil {
		t.Fatalf("AddPreference failed: %v", err)
	}
	if _, err := s.AddPreference("Carol", weeks[0], models.Negative); err != nil {
		t.Fatalf("AddPreference failed: %v", err)
	}
	out, err := s.Materialize(func(key models.AssignmentKey) (bool, error) {
		return key.Developer == "Bob", nil
	})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	return out
}

func TestStore_LoadBeforeInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))

	if err := store.Load(); !errors.Is(err, apperrors.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_LoadScheduleEmpty(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.LoadSchedule(); !errors.Is(err, apperrors.ErrNotInitialized) {
		t.Errorf("LoadSchedule() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_ScheduleRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	want := testSchedule(t)

	if err := store.SaveSchedule(want); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	got, err := store.LoadSchedule()
	if err != nil {
		t.Fatalf("LoadSchedule failed: %v", err)
	}

	wantFP, _ := want.Fingerprint()
	gotFP, _ := got.Fingerprint()
	if wantFP != gotFP {
		t.Errorf("fingerprint = %s, want %s", gotFP, wantFP)
	}
	if got.SupportCount("Bob") != 4 {
		t.Errorf("SupportCount(Bob) = %d, want 4", got.SupportCount("Bob"))
	}
	bob, _ := got.DeveloperByName("Bob")
	if len(bob.Preferences) != 1 || bob.Preferences[0].Sentiment != models.VeryPositive {
		t.Errorf("Bob preferences = %+v", bob.Preferences)
	}
}

func TestStore_SaveReplacesPreviousSchedule(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveSchedule(testSchedule(t)); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	smaller, err := models.Seed([]string{"Dana", "Eve"}, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSchedule(smaller); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	got, err := store.LoadSchedule()
	if err != nil {
		t.Fatalf("LoadSchedule failed: %v", err)
	}
	if got.NumDevelopers() != 2 || got.NumWeeks() != 2 {
		t.Errorf("got %d developers x %d weeks, want 2 x 2", got.NumDevelopers(), got.NumWeeks())
	}
	if _, ok := got.DeveloperByName("Alice"); ok {
		t.Error("developer from the previous schedule survived the save")
	}
}

func TestStore_ReopenValidatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rota.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.SaveSchedule(testSchedule(t)); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := reopened.LoadSchedule(); err != nil {
		t.Errorf("LoadSchedule after reopen failed: %v", err)
	}
}

func TestStore_SolveRuns(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		run := models.SolveRun{
			ID:         id,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			DurationMs: int64(100 * (i + 1)),
			Status:     "OPTIMAL",
			Developers: 6,
			Weeks:      24,
		}
		if err := store.AddSolveRun(run); err != nil {
			t.Fatalf("AddSolveRun(%s) failed: %v", id, err)
		}
	}

	runs, err := store.GetSolveRuns(2)
	if err != nil {
		t.Fatalf("GetSolveRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "third" || runs[1].ID != "second" {
		t.Errorf("runs = %s, %s; want third, second", runs[0].ID, runs[1].ID)
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("StartedAt = %v, want %v", runs[0].StartedAt, base.Add(2*time.Minute))
	}
	if runs[0].DurationMs != 300 {
		t.Errorf("DurationMs = %d, want 300", runs[0].DurationMs)
	}
}

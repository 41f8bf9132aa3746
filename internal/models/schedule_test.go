package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/rota/internal/errors"
)

var roster = []string{"Matt Davis", "Matt Koski", "Eric", "Nick", "Himani", "Abhi"}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date fixture %q: %v", s, err)
	}
	return d
}

func seedSchedule(t *testing.T) *Schedule {
	t.Helper()
	s, err := Seed(roster, mustDate(t, "2025-01-08"), 24)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return s
}

func TestSeed_ProductInvariant(t *testing.T) {
	s := seedSchedule(t)

	if s.NumWeeks() != 24 || s.NumDevelopers() != 6 {
		t.Fatalf("got %d weeks x %d developers, want 24 x 6", s.NumWeeks(), s.NumDevelopers())
	}
	if s.NumAssignments() != 24*6 {
		t.Errorf("NumAssignments() = %d, want %d", s.NumAssignments(), 24*6)
	}
	if err := s.CheckInvariant(); err != nil {
		t.Errorf("CheckInvariant() = %v", err)
	}

	seen := make(map[AssignmentKey]bool)
	for _, a := range s.Assignments() {
		if seen[a.Key()] {
			t.Fatalf("duplicate assignment %+v", a.Key())
		}
		seen[a.Key()] = true
		if a.OnSupport {
			t.Errorf("seeded assignment %+v should be off support", a.Key())
		}
	}
}

func TestSeed_WeeksAreCanonicalAndConsecutive(t *testing.T) {
	s := seedSchedule(t)
	weeks := s.WeeksSortedByFirstDay()

	if got := weeks[0].Key(); got != "2025-01-06" {
		t.Errorf("first week = %s, want 2025-01-06", got)
	}
	for i, w := range weeks {
		if !w.IsCanonical() {
			t.Errorf("week %s does not start on Monday", w.Key())
		}
		if i > 0 && weeks[i-1].Next().Key() != w.Key() {
			t.Errorf("week %d (%s) does not follow %s", i, w.Key(), weeks[i-1].Key())
		}
	}
}

func TestSeed_RejectsDuplicateNames(t *testing.T) {
	_, err := Seed([]string{"Eric", "Nick", "Eric"}, mustDate(t, "2025-01-06"), 4)
	if !errors.Is(err, apperrors.ErrDuplicateDeveloper) {
		t.Errorf("Seed() error = %v, want ErrDuplicateDeveloper", err)
	}
}

func TestSeed_OwnContainers(t *testing.T) {
	a := NewSchedule()
	b := NewSchedule()
	if err := a.AddDeveloper("Eric"); err != nil {
		t.Fatal(err)
	}
	if b.NumDevelopers() != 0 {
		t.Error("schedules must not share containers")
	}
}

func TestAddDeveloperAndWeek_KeepInvariant(t *testing.T) {
	s := seedSchedule(t)

	if err := s.AddDeveloper("Priya"); err != nil {
		t.Fatalf("AddDeveloper failed: %v", err)
	}
	added, err := s.ExtendHorizon(3)
	if err != nil {
		t.Fatalf("ExtendHorizon failed: %v", err)
	}
	if len(added) != 3 {
		t.Fatalf("ExtendHorizon added %d weeks, want 3", len(added))
	}

	if s.NumAssignments() != 27*7 {
		t.Errorf("NumAssignments() = %d, want %d", s.NumAssignments(), 27*7)
	}
	if err := s.CheckInvariant(); err != nil {
		t.Errorf("CheckInvariant() = %v", err)
	}

	if err := s.AddDeveloper("Priya"); !errors.Is(err, apperrors.ErrDuplicateDeveloper) {
		t.Errorf("duplicate AddDeveloper error = %v", err)
	}
	if err := s.AddWeek(added[0]); !errors.Is(err, apperrors.ErrDuplicateWeek) {
		t.Errorf("duplicate AddWeek error = %v", err)
	}
	if err := s.AddWeek(NewWeek(mustDate(t, "2026-01-07"))); err == nil {
		t.Error("expected AddWeek to reject a non-canonical week")
	}
}

func TestWeek_IdentityAndLabel(t *testing.T) {
	a := NewWeek(time.Date(2025, 3, 10, 15, 4, 5, 0, time.FixedZone("X", 3600)))
	b := NewWeek(mustDate(t, "2025-03-10"))

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Errorf("weeks with the same first day must be equal: %s vs %s", a.Key(), b.Key())
	}
	if got := a.Label(); got != "2025-03-10 to 2025-03-16" {
		t.Errorf("Label() = %q", got)
	}
	if !a.Contains(mustDate(t, "2025-03-16")) || a.Contains(mustDate(t, "2025-03-17")) {
		t.Error("Contains() bounds are wrong")
	}
}

func TestWeek_JSON(t *testing.T) {
	w := NewWeek(mustDate(t, "2025-03-10"))
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"first_day":"2025-03-10"}` {
		t.Errorf("Marshal = %s", data)
	}
	if err := json.Unmarshal([]byte(`{"first_day":"March"}`), &w); err == nil {
		t.Error("expected error for malformed first_day")
	}
}

func TestRestore_DetectsBrokenProduct(t *testing.T) {
	s := seedSchedule(t)
	weeks := s.WeeksSortedByFirstDay()
	devs := s.DevelopersSortedByName()
	assignments := s.Assignments()

	tests := []struct {
		name        string
		assignments []Assignment
	}{
		{"missing pair", assignments[1:]},
		{"duplicate pair", append(append([]Assignment{}, assignments...), assignments[0])},
		{"unknown developer", append(append([]Assignment{}, assignments...), Assignment{Developer: "Ghost", Week: weeks[0]})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(weeks, devs, tt.assignments)
			if !errors.Is(err, apperrors.ErrInvariantViolation) {
				t.Errorf("Restore() error = %v, want ErrInvariantViolation", err)
			}
		})
	}

	restored, err := Restore(weeks, devs, assignments)
	if err != nil {
		t.Fatalf("Restore of intact parts failed: %v", err)
	}
	if restored.NumAssignments() != s.NumAssignments() {
		t.Errorf("restored %d assignments, want %d", restored.NumAssignments(), s.NumAssignments())
	}
}

func TestRestore_RejectsOffsetWeek(t *testing.T) {
	s := seedSchedule(t)
	weeks := s.WeeksSortedByFirstDay()
	devs := s.DevelopersSortedByName()

	// a Wednesday week overlapping the first Monday week
	offset := NewWeek(weeks[0].FirstDay.AddDate(0, 0, 2))
	withOffset := append(append([]Week{}, weeks...), offset)
	assignments := s.Assignments()
	for _, d := range devs {
		assignments = append(assignments, Assignment{Developer: d.Name, Week: offset})
	}

	_, err := Restore(withOffset, devs, assignments)
	if !errors.Is(err, apperrors.ErrInvariantViolation) {
		t.Fatalf("Restore() error = %v, want ErrInvariantViolation", err)
	}
	var ie *apperrors.InvariantError
	if !errors.As(err, &ie) || ie.Week != string(offset.Key()) {
		t.Errorf("Restore() error = %v, want the offending week %s in context", err, offset.Key())
	}
}

func TestSchedule_JSONAndFingerprint(t *testing.T) {
	s := seedSchedule(t)
	week := s.WeeksSortedByFirstDay()[2]
	if _, err := s.AddPreference("Eric", week, VeryNegative); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Schedule
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	fpA, err := s.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	fpB, err := decoded.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if fpA != fpB {
		t.Errorf("fingerprints differ after decode: %s vs %s", fpA, fpB)
	}

	if _, err := decoded.AddPreference("Nick", week, VeryPositive); err != nil {
		t.Fatal(err)
	}
	fpC, _ := decoded.Fingerprint()
	if fpC == fpA {
		t.Error("fingerprint should change when a preference is added")
	}
}

func TestMaterialize_LeavesInputUntouched(t *testing.T) {
	s := seedSchedule(t)
	first := s.WeeksSortedByFirstDay()[0]

	solved, err := s.Materialize(func(key AssignmentKey) (bool, error) {
		return key.Week == first.Key(), nil
	})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if got := len(solved.OnSupport(first)); got != 6 {
		t.Errorf("solved week has %d on support, want 6", got)
	}
	if got := s.TotalOnSupport(); got != 0 {
		t.Errorf("input schedule mutated: %d on support", got)
	}
	if solved.NumAssignments() != s.NumAssignments() {
		t.Error("materialized schedule must keep the full product")
	}
}

func TestMaterialize_PropagatesError(t *testing.T) {
	s := seedSchedule(t)
	boom := errors.New("boom")
	if _, err := s.Materialize(func(AssignmentKey) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Errorf("Materialize() error = %v, want boom", err)
	}
}

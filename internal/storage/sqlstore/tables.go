// Package sqlstore reads and writes schedules and solve runs through
// database/sql. The sqlite and postgres providers share it and differ only in
// how they connect and which placeholder dialect they use.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/rota/internal/constants"
	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/migration"
	"github.com/julianstephens/rota/internal/models"
)

const (
	fingerprintKey = "fingerprint"
	// fixed width so that started_at sorts chronologically as text
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Tables wraps a migrated database.
type Tables struct {
	db      *sql.DB
	dialect migration.Dialect
}

func New(db *sql.DB, dialect migration.Dialect) *Tables {
	return &Tables{db: db, dialect: dialect}
}

func (t *Tables) q(query string) string {
	return t.dialect.Rebind(query)
}

// LoadSchedule rebuilds the stored schedule and checks it against the
// fingerprint recorded when it was saved.
func (t *Tables) LoadSchedule() (*models.Schedule, error) {
	var stored string
	err := t.db.QueryRow(t.q("SELECT value FROM schedule_meta WHERE key = ?"), fingerprintKey).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule metadata: %w", err)
	}

	weeks, err := t.loadWeeks()
	if err != nil {
		return nil, err
	}
	devs, err := t.loadDevelopers()
	if err != nil {
		return nil, err
	}
	assignments, err := t.loadAssignments()
	if err != nil {
		return nil, err
	}

	sched, err := models.Restore(weeks, devs, assignments)
	if err != nil {
		return nil, fmt.Errorf("stored schedule is inconsistent: %w", err)
	}

	fp, err := sched.Fingerprint()
	if err != nil {
		return nil, err
	}
	if fp != stored {
		return nil, fmt.Errorf("stored schedule fingerprint mismatch (stored %s, computed %s)", stored, fp)
	}
	return sched, nil
}

func (t *Tables) loadWeeks() ([]models.Week, error) {
	rows, err := t.db.Query("SELECT first_day FROM weeks ORDER BY first_day")
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	defer rows.Close()

	var weeks []models.Week
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		w, err := parseWeekKey(day)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func (t *Tables) loadDevelopers() ([]models.Developer, error) {
	rows, err := t.db.Query("SELECT name FROM developers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query developers: %w", err)
	}
	var devs []models.Developer
	index := make(map[string]int)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		index[name] = len(devs)
		devs = append(devs, models.Developer{Name: name})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prefs, err := t.db.Query("SELECT developer, week, sentiment FROM preferences ORDER BY developer, week")
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer prefs.Close()

	for prefs.Next() {
		var (
			name, day string
			sentiment int
		)
		if err := prefs.Scan(&name, &day, &sentiment); err != nil {
			return nil, err
		}
		i, ok := index[name]
		if !ok {
			return nil, apperrors.Invariant("load", name, day, "preference for unknown developer")
		}
		w, err := parseWeekKey(day)
		if err != nil {
			return nil, err
		}
		devs[i].Preferences = append(devs[i].Preferences, models.Preference{Week: w, Sentiment: models.Sentiment(sentiment)})
	}
	return devs, prefs.Err()
}

func (t *Tables) loadAssignments() ([]models.Assignment, error) {
	rows, err := t.db.Query("SELECT developer, week, on_support FROM assignments")
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var (
			name, day string
			on        bool
		)
		if err := rows.Scan(&name, &day, &on); err != nil {
			return nil, err
		}
		w, err := parseWeekKey(day)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Assignment{Developer: name, Week: w, OnSupport: on})
	}
	return out, rows.Err()
}

// SaveSchedule replaces every stored row in one transaction.
func (t *Tables) SaveSchedule(sched *models.Schedule) error {
	fp, err := sched.Fingerprint()
	if err != nil {
		return err
	}

	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"assignments", "preferences", "weeks", "developers"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, w := range sched.WeeksSortedByFirstDay() {
		if _, err := tx.Exec(t.q("INSERT INTO weeks (first_day) VALUES (?)"), string(w.Key())); err != nil {
			return fmt.Errorf("failed to insert week %s: %w", w.Key(), err)
		}
	}

	for _, d := range sched.DevelopersSortedByName() {
		if _, err := tx.Exec(t.q("INSERT INTO developers (name) VALUES (?)"), d.Name); err != nil {
			return fmt.Errorf("failed to insert developer %s: %w", d.Name, err)
		}
		for _, p := range d.Preferences {
			if _, err := tx.Exec(t.q("INSERT INTO preferences (developer, week, sentiment) VALUES (?, ?, ?)"),
				d.Name, string(p.Week.Key()), int(p.Sentiment)); err != nil {
				return fmt.Errorf("failed to insert preference for %s: %w", d.Name, err)
			}
		}
	}

	stmt, err := tx.Prepare(t.q("INSERT INTO assignments (developer, week, on_support) VALUES (?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer stmt.Close()
	for _, a := range sched.Assignments() {
		if _, err := stmt.Exec(a.Developer, string(a.Week.Key()), a.OnSupport); err != nil {
			return fmt.Errorf("failed to insert assignment %s/%s: %w", a.Developer, a.Week.Key(), err)
		}
	}

	if _, err := tx.Exec(t.q("DELETE FROM schedule_meta WHERE key = ?"), fingerprintKey); err != nil {
		return fmt.Errorf("failed to clear schedule metadata: %w", err)
	}
	if _, err := tx.Exec(t.q("INSERT INTO schedule_meta (key, value) VALUES (?, ?)"), fingerprintKey, fp); err != nil {
		return fmt.Errorf("failed to write schedule metadata: %w", err)
	}

	return tx.Commit()
}

func (t *Tables) AddSolveRun(run models.SolveRun) error {
	_, err := t.db.Exec(t.q(`INSERT INTO solve_runs
		(id, started_at, duration_ms, status, developers, weeks, fingerprint, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.StartedAt.UTC().Format(timeLayout), run.DurationMs, run.Status,
		run.Developers, run.Weeks, run.Fingerprint, run.Message)
	if err != nil {
		return fmt.Errorf("failed to record solve run: %w", err)
	}
	return nil
}

func (t *Tables) GetSolveRuns(limit int) ([]models.SolveRun, error) {
	query := `SELECT id, started_at, duration_ms, status, developers, weeks, fingerprint, message
		FROM solve_runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := t.db.Query(t.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query solve runs: %w", err)
	}
	defer rows.Close()

	runs := []models.SolveRun{}
	for rows.Next() {
		var (
			run     models.SolveRun
			started string
		)
		if err := rows.Scan(&run.ID, &started, &run.DurationMs, &run.Status,
			&run.Developers, &run.Weeks, &run.Fingerprint, &run.Message); err != nil {
			return nil, err
		}
		run.StartedAt, err = time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("invalid started_at %q for run %s: %w", started, run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func parseWeekKey(day string) (models.Week, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return models.Week{}, fmt.Errorf("invalid stored week %q: %w", day, err)
	}
	return models.NewWeek(t), nil
}

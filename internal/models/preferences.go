package models

import (
	"fmt"

	apperrors "github.com/julianstephens/rota/internal/errors"
)

// AddPreference records a developer's sentiment about a week. A later
// preference for the same week supersedes the earlier one; the returned bool
// reports whether that happened.
func (s *Schedule) AddPreference(developerName string, week Week, sentiment Sentiment) (bool, error) {
	dev, ok := s.developers[developerName]
	if !ok {
		return false, fmt.Errorf("%w: %s", apperrors.ErrUnknownDeveloper, developerName)
	}
	if !sentiment.Valid() {
		return false, fmt.Errorf("sentiment %d out of range [-2, 2]", int(sentiment))
	}
	stored, ok := s.weeks[week.Key()]
	if !ok {
		return false, fmt.Errorf("%w: %s", apperrors.ErrUnknownWeek, week.Key())
	}

	return dev.setPreference(Preference{Week: stored, Sentiment: sentiment}), nil
}

// RemovePreference drops a developer's preference for week, if any.
func (s *Schedule) RemovePreference(developerName string, week Week) (bool, error) {
	dev, ok := s.developers[developerName]
	if !ok {
		return false, fmt.Errorf("%w: %s", apperrors.ErrUnknownDeveloper, developerName)
	}
	return dev.removePreference(week), nil
}

// ForcedPreference is a hard request or block the solver must honor.
type ForcedPreference struct {
	Developer string
	Week      Week
	Sentiment Sentiment
}

// ForcedPreferences lists all extreme preferences, ordered by developer then week.
func (s *Schedule) ForcedPreferences() []ForcedPreference {
	var out []ForcedPreference
	for _, d := range s.DevelopersSortedByName() {
		for _, p := range d.Preferences {
			if p.Sentiment.Forced() {
				out = append(out, ForcedPreference{Developer: d.Name, Week: p.Week, Sentiment: p.Sentiment})
			}
		}
	}
	return out
}

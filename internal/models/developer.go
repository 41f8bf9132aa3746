package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sentiment is a developer's feeling about being on support in a given week.
type Sentiment int

const (
	VeryNegative Sentiment = -2
	Negative     Sentiment = -1
	Neutral      Sentiment = 0
	Positive     Sentiment = 1
	VeryPositive Sentiment = 2
)

var sentimentNames = map[Sentiment]string{
	VeryNegative: "VERY_NEGATIVE",
	Negative:     "NEGATIVE",
	Neutral:      "NEUTRAL",
	Positive:     "POSITIVE",
	VeryPositive: "VERY_POSITIVE",
}

func (s Sentiment) String() string {
	if name, ok := sentimentNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sentiment(%d)", int(s))
}

// Valid reports whether s is on the -2..+2 scale.
func (s Sentiment) Valid() bool {
	return s >= VeryNegative && s <= VeryPositive
}

// Forced reports whether s is an extreme that the solver treats as a hard constraint.
func (s Sentiment) Forced() bool {
	return s == VeryNegative || s == VeryPositive
}

// ParseSentiment accepts a sentiment name (VERY_NEGATIVE, very-negative, ...)
// or its integer value.
func ParseSentiment(s string) (Sentiment, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		sent := Sentiment(n)
		if !sent.Valid() {
			return 0, fmt.Errorf("sentiment %d out of range [-2, 2]", n)
		}
		return sent, nil
	}
	norm := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for sent, name := range sentimentNames {
		if name == norm {
			return sent, nil
		}
	}
	return 0, fmt.Errorf("invalid sentiment: %s", s)
}

// Preference pairs a week with a sentiment. A developer holds at most one
// preference per week.
type Preference struct {
	Week      Week      `json:"week"`
	Sentiment Sentiment `json:"sentiment"`
}

// Developer is a named participant in the rotation. Names are unique within a schedule.
type Developer struct {
	Name        string       `json:"name"`
	Preferences []Preference `json:"preferences"`
}

func (d Developer) Key() string {
	return d.Name
}

func (d Developer) Equal(other Developer) bool {
	return d.Key() == other.Key()
}

// PreferenceFor returns the developer's preference for week, if any.
func (d Developer) PreferenceFor(week Week) (Preference, bool) {
	for _, p := range d.Preferences {
		if p.Week.Key() == week.Key() {
			return p, true
		}
	}
	return Preference{}, false
}

// setPreference stores p, replacing a prior preference for the same week.
// Returns true when an existing preference was superseded.
func (d *Developer) setPreference(p Preference) bool {
	for i := range d.Preferences {
		if d.Preferences[i].Week.Key() == p.Week.Key() {
			d.Preferences[i] = p
			return true
		}
	}
	d.Preferences = append(d.Preferences, p)
	sortPreferences(d.Preferences)
	return false
}

func (d *Developer) removePreference(week Week) bool {
	for i := range d.Preferences {
		if d.Preferences[i].Week.Key() == week.Key() {
			d.Preferences = append(d.Preferences[:i], d.Preferences[i+1:]...)
			return true
		}
	}
	return false
}

func (d Developer) clone() Developer {
	prefs := make([]Preference, len(d.Preferences))
	copy(prefs, d.Preferences)
	return Developer{Name: d.Name, Preferences: prefs}
}

func sortPreferences(prefs []Preference) {
	sort.Slice(prefs, func(i, j int) bool {
		return prefs[i].Week.Key() < prefs[j].Week.Key()
	})
}

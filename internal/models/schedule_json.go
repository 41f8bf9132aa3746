package models

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/xxh3"
)

type scheduleJSON struct {
	Weeks       []Week       `json:"weeks"`
	Developers  []Developer  `json:"developers"`
	Assignments []Assignment `json:"assignments"`
}

// MarshalJSON encodes the schedule with every collection in sorted order, so
// equal schedules always produce identical bytes.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(scheduleJSON{
		Weeks:       s.WeeksSortedByFirstDay(),
		Developers:  s.DevelopersSortedByName(),
		Assignments: s.Assignments(),
	})
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw scheduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := Restore(raw.Weeks, raw.Developers, raw.Assignments)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}

// Fingerprint hashes the canonical encoding of the schedule.
func (s *Schedule) Fingerprint() (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode schedule: %w", err)
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

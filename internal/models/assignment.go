package models

// AssignmentKey identifies an assignment by its (developer, week) pair,
// independent of the on-support flag.
type AssignmentKey struct {
	Developer string
	Week      WeekKey
}

// Assignment records whether a developer is on support in a week.
type Assignment struct {
	Developer string `json:"developer"`
	Week      Week   `json:"week"`
	OnSupport bool   `json:"on_support"`
}

func (a Assignment) Key() AssignmentKey {
	return AssignmentKey{Developer: a.Developer, Week: a.Week.Key()}
}

func (a Assignment) Equal(other Assignment) bool {
	return a.Key() == other.Key()
}

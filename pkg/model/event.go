package model

import "time"

// Unknown is used for textual provider fields which were not delivered.
const Unknown = "unknown"

type SessionKind string

const (
	SessionPractice         SessionKind = "Practice"
	SessionQualifying       SessionKind = "Qualifying"
	SessionSprintQualifying SessionKind = "Sprint Qualifying"
	SessionSprint           SessionKind = "Sprint"
	SessionRace             SessionKind = "Race"
)

const (
	FormatConventional = "conventional"
	FormatSprint       = "sprint"
)

type (
	Country struct {
		Code string // 3 letter code, Unknown if not available
		Name string
	}

	Circuit struct {
		Key     int
		Name    string
		Country Country
	}

	// Event is a race weekend
	Event struct {
		Key          int // provider key of the race weekend
		Year         int
		Round        int // 1-based position within the season
		Name         string
		OfficialName string
		Location     string
		Format       string
		DateStart    time.Time
		Circuit      Circuit
	}

	Session struct {
		Key      int
		EventKey int
		Kind     SessionKind
		Name     string
		Start    time.Time
		End      time.Time
	}
)

// OrUnknown returns s or Unknown if s is empty
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// SessionTime returns the offset of t relative to the session start
func (s *Session) SessionTime(t time.Time) time.Duration {
	return t.Sub(s.Start)
}

package model

import (
	"github.com/aarondl/opt/omitnull"
	"github.com/shopspring/decimal"
)

type (
	Team struct {
		Name   string
		Colour string
	}

	Driver struct {
		Number      int
		Code        string // three letter acronym, e.g. VER
		FirstName   string
		LastName    string
		FullName    string
		CountryCode string
		Team        Team
	}

	Result struct {
		DriverNumber int
		Position     omitnull.Val[int] // not set if not classified
		GridPosition omitnull.Val[int]
		Laps         int
		Status       string
		Points       decimal.Decimal
	}
)

const (
	StatusFinished     = "Finished"
	StatusDNF          = "DNF"
	StatusDNS          = "DNS"
	StatusDisqualified = "DSQ"
)

var (
	racePoints   = []int64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
	sprintPoints = []int64{8, 7, 6, 5, 4, 3, 2, 1}
)

// PointsFor returns the championship points for a finishing position in a
// session of the given kind. Sessions not awarding points yield zero.
func PointsFor(kind SessionKind, position int) decimal.Decimal {
	var table []int64
	switch kind {
	case SessionRace:
		table = racePoints
	case SessionSprint:
		table = sprintPoints
	default:
		return decimal.Zero
	}
	if position < 1 || position > len(table) {
		return decimal.Zero
	}
	return decimal.NewFromInt(table[position-1])
}

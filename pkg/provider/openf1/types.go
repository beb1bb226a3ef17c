package openf1

import "time"

// raw records as delivered by the api

type (
	meeting struct {
		MeetingKey          int       `json:"meeting_key" validate:"required"`
		MeetingName         string    `json:"meeting_name" validate:"required"`
		MeetingOfficialName string    `json:"meeting_official_name"`
		Location            string    `json:"location"`
		CountryCode         string    `json:"country_code"`
		CountryName         string    `json:"country_name"`
		CircuitKey          int       `json:"circuit_key"`
		CircuitShortName    string    `json:"circuit_short_name"`
		DateStart           time.Time `json:"date_start"`
		Year                int       `json:"year" validate:"required,gte=1950"`
	}

	session struct {
		SessionKey  int       `json:"session_key" validate:"required"`
		SessionName string    `json:"session_name" validate:"required"`
		SessionType string    `json:"session_type"`
		MeetingKey  int       `json:"meeting_key" validate:"required"`
		DateStart   time.Time `json:"date_start"`
		DateEnd     time.Time `json:"date_end"`
		Year        int       `json:"year"`
	}

	lap struct {
		DriverNumber    int        `json:"driver_number" validate:"required"`
		LapNumber       int        `json:"lap_number" validate:"required,gte=1"`
		DateStart       *time.Time `json:"date_start"`
		LapDuration     *float64   `json:"lap_duration" validate:"omitnil,gt=0"`
		DurationSector1 *float64   `json:"duration_sector_1" validate:"omitnil,gte=0"`
		DurationSector2 *float64   `json:"duration_sector_2" validate:"omitnil,gte=0"`
		DurationSector3 *float64   `json:"duration_sector_3" validate:"omitnil,gte=0"`
		IsPitOutLap     bool       `json:"is_pit_out_lap"`
	}

	pit struct {
		DriverNumber int      `json:"driver_number" validate:"required"`
		LapNumber    int      `json:"lap_number" validate:"required"`
		PitDuration  *float64 `json:"pit_duration"`
	}

	carData struct {
		Date     time.Time `json:"date"`
		Speed    float64   `json:"speed" validate:"gte=0"`
		Throttle float64   `json:"throttle"`
		Brake    float64   `json:"brake"`
		NGear    int       `json:"n_gear" validate:"gte=0,lte=8"`
		RPM      float64   `json:"rpm" validate:"gte=0"`
		DRS      int       `json:"drs"`
	}

	location struct {
		Date time.Time `json:"date"`
		X    float64   `json:"x"`
		Y    float64   `json:"y"`
		Z    float64   `json:"z"`
	}

	driver struct {
		DriverNumber int     `json:"driver_number" validate:"required"`
		NameAcronym  string  `json:"name_acronym"`
		FirstName    string  `json:"first_name"`
		LastName     string  `json:"last_name"`
		FullName     string  `json:"full_name"`
		CountryCode  *string `json:"country_code"`
		TeamName     string  `json:"team_name"`
		TeamColour   string  `json:"team_colour"`
	}

	sessionResult struct {
		DriverNumber int      `json:"driver_number" validate:"required"`
		Position     *int     `json:"position" validate:"omitnil,gte=1"`
		NumberOfLaps int      `json:"number_of_laps" validate:"gte=0"`
		Points       *float64 `json:"points" validate:"omitnil,gte=0"`
		DNF          bool     `json:"dnf"`
		DNS          bool     `json:"dns"`
		DSQ          bool     `json:"dsq"`
	}

	gridPosition struct {
		DriverNumber int `json:"driver_number" validate:"required"`
		Position     int `json:"position" validate:"required,gte=1"`
	}
)

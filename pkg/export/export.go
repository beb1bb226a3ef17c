// Package export writes composed tracks and resampled telemetry.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mpapenbr/f1-sectorwalk/pkg/compose"
	"github.com/mpapenbr/f1-sectorwalk/pkg/resample"
	"github.com/mpapenbr/f1-sectorwalk/pkg/sector"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var ErrUnknownFormat = errors.New("unknown output format")

type (
	trackPoint struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Event  int     `json:"event"`
		Sector int     `json:"sector"`
	}
	trackSource struct {
		Index      int    `json:"index"`
		EventIndex int    `json:"eventIndex"`
		Sector     int    `json:"sector"`
		Event      string `json:"event"`
		Circuit    string `json:"circuit"`
	}
	trackDoc struct {
		Year    int           `json:"year"`
		Sectors []trackSource `json:"sectors"`
		Bounds  [4]float64    `json:"bounds"` // minX, minY, maxX, maxY
		Points  []trackPoint  `json:"points"`
	}
)

// WriteTrack writes the composed track. The records describe the sectors
// in composition order.
//
//nolint:whitespace // can't make both editor and linter happy
func WriteTrack(
	w io.Writer,
	format string,
	dict *sector.Dictionary,
	records []*sector.Record,
	t *compose.Track,
) error {
	switch format {
	case FormatJSON:
		doc := trackDoc{
			Year: dict.Year,
			Bounds: [4]float64{
				t.Bounds.X.Lo, t.Bounds.Y.Lo, t.Bounds.X.Hi, t.Bounds.Y.Hi,
			},
		}
		for _, r := range records {
			doc.Sectors = append(doc.Sectors, trackSource{
				Index:      r.Index,
				EventIndex: r.EventIndex,
				Sector:     r.Sector,
				Event:      r.Event.Name,
				Circuit:    r.Event.Circuit.Name,
			})
		}
		doc.Points = make([]trackPoint, len(t.Points))
		for i, p := range t.Points {
			doc.Points[i] = trackPoint{X: p.X, Y: p.Y, Event: t.Sources[i], Sector: t.Sectors[i]}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"x", "y", "event", "sector"}); err != nil {
			return err
		}
		for i, p := range t.Points {
			if err := cw.Write([]string{
				formatFloat(p.X), formatFloat(p.Y),
				strconv.Itoa(t.Sources[i]), strconv.Itoa(t.Sectors[i]),
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// TableFileName returns the file name of a resampled table,
// e.g. Speed_Monaco_Grand_Prix_2022.json
func TableFileName(channel, event string, year int, format string) string {
	name := fmt.Sprintf("%s %s %d", channel, event, year)
	return strings.ReplaceAll(name, " ", "_") + "." + format
}

// WriteTable writes the resampled laps, one column per lap
func WriteTable(w io.Writer, format string, t *resample.Table) error {
	switch format {
	case FormatJSON:
		return json.NewEncoder(w).Encode(t)
	case FormatCSV:
		cw := csv.NewWriter(w)
		header := []string{"time"}
		for i := range t.Columns {
			header = append(header, t.Columns[i].Name())
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for row := range t.Samples {
			rec := []string{formatFloat((t.Interval * time.Duration(row)).Seconds())}
			for i := range t.Columns {
				v := math.NaN()
				if row < len(t.Columns[i].Values) {
					v = t.Columns[i].Values[row]
				}
				rec = append(rec, formatFloat(v))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// SaveTable writes the table as JSON into dir and returns the file name
func SaveTable(dir string, t *resample.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Join(dir,
		TableFileName(string(t.Channel), t.Event, t.Year, FormatJSON))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	if err := WriteTable(f, FormatJSON, t); err != nil {
		f.Close()
		return "", err
	}
	return name, f.Close()
}

// LoadTable reads a table written by SaveTable
func LoadTable(name string) (*resample.Table, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var t resample.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &t, nil
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

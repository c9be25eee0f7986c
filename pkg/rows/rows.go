// Package rows is the input provider for the coaching pipeline: it decodes
// assignment rows from JSON, YAML, or CSV files and validates them before
// they reach the core.
//
// The core assumes rows arrive with all string fields non-empty and trimmed
// and all numeric fields parsed; this package is where that contract is
// enforced. A file that fails validation rejects the whole load.
package rows

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coachvis/coachtree/pkg/coach"
)

// ErrUnsupportedFormat is returned when the file extension is not one of
// .json, .yaml, .yml, or .csv.
var ErrUnsupportedFormat = errors.New("unsupported rows format")

// ReadFile decodes rows from path, choosing the decoder by file extension.
func ReadFile(path string) ([]coach.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rows %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	case ".csv":
		return DecodeCSV(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeJSON decodes a JSON array of row objects.
func DecodeJSON(r io.Reader) ([]coach.Row, error) {
	var rows []coach.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows json: %w", err)
	}
	return finish(rows)
}

// DecodeYAML decodes a YAML list of row mappings.
func DecodeYAML(r io.Reader) ([]coach.Row, error) {
	var rows []coach.Row
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows yaml: %w", err)
	}
	return finish(rows)
}

// csvHeader is the required column order for CSV input.
var csvHeader = []string{"season", "head_coach", "coordinator", "role", "team", "wins", "losses", "ties"}

// DecodeCSV decodes CSV input with the header
// season,head_coach,coordinator,role,team,wins,losses,ties.
func DecodeCSV(r io.Reader) ([]coach.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []coach.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		row, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return finish(rows)
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("csv header has %d columns, want %d", len(header), len(csvHeader))
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("csv column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

func fromRecord(rec []string) (coach.Row, error) {
	if len(rec) != len(csvHeader) {
		return coach.Row{}, fmt.Errorf("record has %d fields, want %d", len(rec), len(csvHeader))
	}

	ints := make(map[string]int, 4)
	for _, col := range []struct {
		name string
		idx  int
	}{{"season", 0}, {"wins", 5}, {"losses", 6}, {"ties", 7}} {
		v, err := strconv.Atoi(strings.TrimSpace(rec[col.idx]))
		if err != nil {
			return coach.Row{}, fmt.Errorf("parse %s %q: %w", col.name, rec[col.idx], err)
		}
		ints[col.name] = v
	}

	return coach.Row{
		Season:      ints["season"],
		HeadCoach:   rec[1],
		Coordinator: rec[2],
		Role:        rec[3],
		Team:        rec[4],
		Wins:        ints["wins"],
		Losses:      ints["losses"],
		Ties:        ints["ties"],
	}, nil
}

// finish trims string fields and validates every row.
func finish(rows []coach.Row) ([]coach.Row, error) {
	for i := range rows {
		rows[i].HeadCoach = strings.TrimSpace(rows[i].HeadCoach)
		rows[i].Coordinator = strings.TrimSpace(rows[i].Coordinator)
		rows[i].Role = strings.TrimSpace(rows[i].Role)
		rows[i].Team = strings.TrimSpace(rows[i].Team)
		if err := Validate(rows[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return rows, nil
}

// Validate checks a single row for the fields the core requires.
func Validate(row coach.Row) error {
	switch {
	case row.Season <= 0:
		return fmt.Errorf("%w: season must be positive", coach.ErrMalformedRow)
	case row.HeadCoach == "":
		return fmt.Errorf("%w: head_coach is required", coach.ErrMalformedRow)
	case row.Coordinator == "":
		return fmt.Errorf("%w: coordinator is required", coach.ErrMalformedRow)
	case row.Role == "":
		return fmt.Errorf("%w: role is required", coach.ErrMalformedRow)
	case row.Team == "":
		return fmt.Errorf("%w: team is required", coach.ErrMalformedRow)
	case row.Wins < 0 || row.Losses < 0 || row.Ties < 0:
		return fmt.Errorf("%w: record values must be non-negative", coach.ErrMalformedRow)
	}
	return nil
}

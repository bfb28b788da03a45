package batchimport

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// one row as read from the source. CSV rows hold string values keyed by
// header; JSON rows hold whatever the document carried.
type row map[string]interface{}

// decodeRows materializes the whole source up front so that a malformed
// file fails the job before any row is attempted.
func decodeRows(format string, src io.Reader) ([]row, error) {
	switch format {
	case "csv":
		return decodeCSV(src)
	case "json":
		return decodeJSON(src)
	default:
		return nil, fmt.Errorf("unsupported source format: %s", format)
	}
}

func decodeCSV(src io.Reader) ([]row, error) {
	reader := csv.NewReader(src)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []row{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows := []row{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		r := row{}
		for nth, name := range header {
			r[name] = record[nth]
		}
		rows = append(rows, r)
	}
}

func decodeJSON(src io.Reader) ([]row, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	rows := []row{}
	if err := json.Unmarshal(buf, &rows); err != nil {
		return nil, errors.New("json payload must be an array of objects")
	}
	return rows, nil
}

// field accessors. Empty strings and missing keys read as absent,
// matching how CSV represents blank cells.

func (r row) stringField(name string) string {
	switch v := r[name].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (r row) floatField(name string) (*float64, error) {
	switch v := r[name].(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s is not a number: %s", name, v)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("%s is not a number", name)
	}
}

func (r row) intField(name string) (*int, error) {
	switch v := r[name].(type) {
	case nil:
		return nil, nil
	case float64:
		parsed := int(v)
		if float64(parsed) != v {
			return nil, fmt.Errorf("%s is not an integer", name)
		}
		return &parsed, nil
	case string:
		if v == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s is not an integer: %s", name, v)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("%s is not an integer", name)
	}
}

func (r row) timeField(name string) (*time.Time, error) {
	v := r.stringField(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s is not a RFC3339 timestamp: %s", name, v)
	}
	return &parsed, nil
}

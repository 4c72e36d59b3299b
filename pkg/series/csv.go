package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for loading head series from CSV files.
type CSVOptions struct {
	DateFormat string // date layout (default: "2006-01-02")
	Delimiter  rune   // field delimiter (default: ',')
	HasHeader  bool   // whether the first row is a header (default: true)
}

// DefaultCSVOptions returns the default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: "2006-01-02",
		Delimiter:  ',',
		HasHeader:  true,
	}
}

// LoadCSV loads a head series from a two-column CSV file (date, head).
// The series name is derived from the file name.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return LoadCSVFromReader(file, name, opts)
}

// LoadCSVFromReader loads a head series from an io.Reader. An empty head
// field becomes a missing value; the date column is mandatory.
func LoadCSVFromReader(r io.Reader, name string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rownum := 0
	sr := &Series{Name: name}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rownum++
		if rownum == 1 && opts.HasHeader {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected at least 2 columns, got %d", rownum, len(record))
		}

		date, err := parseDate(record[0], opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rownum, err)
		}

		value := Missing()
		if field := strings.TrimSpace(record[1]); field != "" {
			value, err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid head value %q: %w", rownum, record[1], err)
			}
		}

		sr.Dates = append(sr.Dates, date)
		sr.Values = append(sr.Values, value)
	}

	if err := sr.Validate(); err != nil {
		return nil, err
	}
	return sr, nil
}

func parseDate(field, layout string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(field))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", field)
	}
	return t, nil
}

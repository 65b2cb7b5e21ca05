package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyCSV is returned by ReadCSV when the input has no header line.
var ErrEmptyCSV = errors.New("empty csv")

// ReadCSV parses a headed CSV document. Header names are trimmed and a
// leading UTF-8 byte order mark is dropped.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, ErrEmptyCSV
	}
	if err != nil {
		return Table{}, fmt.Errorf("ReadCSV: header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	t := Table{Columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("ReadCSV: record %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// WriteCSV writes t with its header line.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("WriteCSV: header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("WriteCSV: rows: %w", err)
	}
	return nil
}

package dataset

import (
	"fmt"
	"strings"
)

// DataLoadError reports a dataset that cannot be turned into an engine:
// a missing column, an unparseable value or an invalid record. Row is the
// 1-based data row (header excluded), zero when the problem concerns the
// whole table.
type DataLoadError struct {
	Table  string
	Row    int
	Column string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Table)
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %s", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

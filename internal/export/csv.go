// internal/export/csv.go
//
// Curbside – CSV export for admin tables.
//
// Context
//   The order-management screen offers "Download CSV" over the currently
//   filtered result set.  Handlers build a Table from backend rows and hand
//   it here; this package owns the encoding and the download headers, so
//   every export behaves identically in Excel and friends.
//
//------------------------------------------------------------------------------

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Table is one exportable result set.
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteCSV encodes the table.  A UTF-8 BOM is prepended so spreadsheet
// applications detect the encoding instead of guessing Latin-1.
func WriteCSV(w io.Writer, t Table) error {
	if _, err := w.Write([]byte("\xef\xbb\xbf")); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ServeCSV writes the table as an attachment download.  The filename gains
// a date stamp so repeated exports don't collide in the user's downloads.
func ServeCSV(w http.ResponseWriter, baseName string, t Table) error {
	name := fmt.Sprintf("%s-%s.csv", baseName, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	return WriteCSV(w, t)
}

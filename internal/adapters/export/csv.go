package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// header is the fixed export column order.
var header = []string{"id", "title", "revenue", "timeTaken", "priority", "status", "notes"}

// WriteCSV writes the raw task list as CSV with the fixed header.
// Fields containing commas, quotes, or newlines are quoted with
// internal quotes doubled, per RFC 4180.
func WriteCSV(w io.Writer, tasks []domain.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		record := []string{
			t.ID,
			t.Title,
			strconv.FormatFloat(t.Revenue, 'f', -1, 64),
			strconv.FormatFloat(t.TimeTaken, 'f', -1, 64),
			string(t.Priority),
			string(t.Status),
			t.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %q: %w", t.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ppiankov/lineage/internal/model"
)

// csvHeader is the column layout of the per-MP output file
var csvHeader = []string{
	"id",
	"name",
	"url",
	"raw_party",
	"party",
	"political_relations_count",
	"political_ancestor_count",
}

// WriteCSV writes one row per record. Records are expected sorted by id;
// checkpoint.ResultSet.Records already guarantees that.
func WriteCSV(path string, records []model.MPRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close csv: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.ID),
			rec.Name,
			rec.URL,
			rec.RawParty,
			string(rec.Party()),
			strconv.Itoa(rec.RelationCount()),
			strconv.Itoa(rec.AncestorCount()),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row for id %d: %w", rec.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

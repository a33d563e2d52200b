package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SourceHeader is the column layout of a raw country extract.
var SourceHeader = []string{"iso3", "year", "female", "edu", "age", "varnum", "median"}

// SourceRow is one raw extract row in SourceHeader order.
type SourceRow struct {
	ISO3   string
	Year   string
	Female string
	Edu    string
	Age    string
	VarNum string
	Median string
}

func (r SourceRow) cells() []string {
	return []string{r.ISO3, r.Year, r.Female, r.Edu, r.Age, r.VarNum, r.Median}
}

// WriteSourceCSV writes a raw extract into dir and returns its path.
func WriteSourceCSV(t *testing.T, dir, name string, rows ...SourceRow) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(SourceHeader); err != nil {
		t.Fatalf("write fixture header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r.cells()); err != nil {
			t.Fatalf("write fixture row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush fixture: %v", err)
	}
	return path
}

// WriteRawFile writes arbitrary content, for malformed-input cases.
func WriteRawFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// WriteSourceXLSX writes a raw extract as a single-sheet workbook.
func WriteSourceXLSX(t *testing.T, dir, name string, rows ...SourceRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &SourceHeader); err != nil {
		t.Fatalf("write xlsx header: %v", err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		cells := r.cells()
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("write xlsx row: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx fixture: %v", err)
	}
	return path
}

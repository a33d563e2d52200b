package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteSummaryXLSX writes headers and records to a single-sheet workbook.
// Cells that parse as numbers are stored as numbers.
func (w *CSVWriter) WriteSummaryXLSX(filePath, sheet string, headers []string, records [][]string) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}

	for r, record := range records {
		for c, value := range record {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				err = f.SetCellFloat(sheet, cell, n, -1, 64)
			} else {
				err = f.SetCellStr(sheet, cell, value)
			}
			if err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", fullPath, err)
	}

	w.logger.Info("Wrote summary workbook",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	return nil
}

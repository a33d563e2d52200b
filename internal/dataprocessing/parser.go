package dataprocessing

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gddpanel/internal/errors"
	"gddpanel/pkg/contracts/domain"
)

// InvalidCode marks a sex or education cell that is present but not an
// integral number. It is outside every reference table, so the validity
// mask rejects it.
const InvalidCode = -1

// missingTokens are cell values read as an absent value.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"n/a":  true,
}

// ParseFile reads a raw country extract and returns its rows restricted to
// the required columns. Every failure is a file-scoped PARSING error naming
// the file.
func ParseFile(filePath string) ([]domain.SourceRecord, error) {
	name := filepath.Base(filePath)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return parseCSV(filePath, name)
	case ".xlsx":
		return parseXLSX(filePath, name)
	default:
		return nil, errors.NewFileParsingError(name, "unsupported file type", nil)
	}
}

func parseCSV(filePath, name string) ([]domain.SourceRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewFileParsingError(name, "failed to open file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewFileParsingError(name, "file is empty", nil)
		}
		return nil, errors.NewFileParsingError(name, "failed to read header", err)
	}

	columns, err := mapColumns(name, header)
	if err != nil {
		return nil, err
	}

	var records []domain.SourceRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewFileParsingError(name, "malformed row", err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, columns.record(row))
	}

	return records, nil
}

// parseXLSX reads the first sheet whose first non-empty row carries every
// required column.
func parseXLSX(filePath, name string) ([]domain.SourceRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewFileParsingError(name, "failed to open workbook", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.NewFileParsingError(name, fmt.Sprintf("failed to read sheet %q", sheet), err)
		}

		headerIdx := -1
		for i, row := range rows {
			if !isBlankRow(row) {
				headerIdx = i
				break
			}
		}
		if headerIdx < 0 {
			continue
		}

		columns, err := mapColumns(name, rows[headerIdx])
		if err != nil {
			continue
		}

		var records []domain.SourceRecord
		for _, row := range rows[headerIdx+1:] {
			if isBlankRow(row) {
				continue
			}
			records = append(records, columns.record(row))
		}
		return records, nil
	}

	return nil, errors.NewFileParsingError(name, "no sheet carries the required columns", nil).
		WithContext("required", domain.RequiredSourceColumns)
}

// columnIndex maps each required column to its position in a row.
type columnIndex map[string]int

func mapColumns(name string, header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	columns := make(columnIndex, len(domain.RequiredSourceColumns))
	for _, col := range domain.RequiredSourceColumns {
		idx, ok := positions[col]
		if !ok {
			return nil, errors.NewFileParsingError(name, fmt.Sprintf("missing required column %q", col), nil)
		}
		columns[col] = idx
	}
	return columns, nil
}

func (c columnIndex) cell(row []string, col string) string {
	idx := c[col]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (c columnIndex) record(row []string) domain.SourceRecord {
	ageText := c.cell(row, "age")
	return domain.SourceRecord{
		Sex:          parseCode(c.cell(row, "female")),
		Education:    parseCode(c.cell(row, "edu")),
		Age:          parseFloat(ageText),
		AgeLabel:     ageText,
		RegionCode:   c.cell(row, "iso3"),
		SurveyYear:   parseInt(c.cell(row, "year")),
		VariableCode: parseInt(c.cell(row, "varnum")),
		Value:        parseFloat(c.cell(row, "median")),
	}
}

func isMissing(s string) bool {
	return missingTokens[strings.ToLower(s)]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseFloat(s string) *float64 {
	if isMissing(s) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// parseInt accepts integral floats ("2015.0") and treats anything else as
// missing.
func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	v := int(*f)
	return &v
}

// parseCode is parseInt for categorical codes: a present but non-integral
// cell becomes InvalidCode instead of missing.
func parseCode(s string) *int {
	if isMissing(s) {
		return nil
	}
	if v := parseInt(s); v != nil {
		return v
	}
	return domain.IntPtr(InvalidCode)
}

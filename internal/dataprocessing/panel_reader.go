package dataprocessing

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gddpanel/internal/errors"
	"gddpanel/pkg/contracts/domain"
)

// LoadPanel reads the combined panel artifact. A missing artifact is a
// NOT_FOUND error telling the caller to run ingestion first; there is no
// partial recovery.
func LoadPanel(path string) ([]domain.PanelRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewAppError(errors.ErrTypeNotFound,
				fmt.Sprintf("panel artifact %s not found; run ingestion first", path), err).
				WithContext("path", path)
		}
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open panel artifact %s", path), err)
	}
	defer f.Close()

	name := filepath.Base(path)
	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewFileParsingError(name, "panel artifact is empty", nil)
	}
	if err != nil {
		return nil, errors.NewFileParsingError(name, "failed to read panel header", err)
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range domain.PanelHeader {
		if _, ok := positions[col]; !ok {
			return nil, errors.NewFileParsingError(name, fmt.Sprintf("panel missing column %q", col), nil)
		}
	}

	cell := func(row []string, col string) string {
		idx := positions[col]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var rows []domain.PanelRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewFileParsingError(name, fmt.Sprintf("malformed panel row %d", line), err)
		}

		rows = append(rows, domain.PanelRow{
			RegionName: cell(rec, "region_name"),
			RegionCode: cell(rec, "region_code"),
			SurveyYear: parseInt(cell(rec, "survey_year")),
			Sex:        cell(rec, "sex"),
			Education:  cell(rec, "education"),
			Age:        cell(rec, "age"),
			Variable:   cell(rec, "variable"),
			Value:      parseFloat(cell(rec, "value")),
		})
	}

	return rows, nil
}

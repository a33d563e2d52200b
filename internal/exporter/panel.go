package exporter

import (
	"fmt"

	"gddpanel/pkg/contracts/domain"
)

// PanelWriter is the single writer of the combined panel artifact. The
// header is written exactly once: before the first appended row, or on
// Close when nothing was appended.
type PanelWriter struct {
	stream        *StreamWriter
	headerWritten bool
	rows          int
	closed        bool
}

// NewPanelWriter truncates filePath and returns a writer for it.
func (w *CSVWriter) NewPanelWriter(filePath string) (*PanelWriter, error) {
	stream, err := w.CreateStreamWriter(filePath, nil)
	if err != nil {
		return nil, err
	}
	return &PanelWriter{stream: stream}, nil
}

// Append writes rows, preceded by the header if this is the first write.
// An empty slice writes nothing.
func (p *PanelWriter) Append(rows []domain.PanelRow) error {
	if p.closed {
		return fmt.Errorf("panel writer is closed")
	}
	if len(rows) == 0 {
		return nil
	}
	if err := p.writeHeader(); err != nil {
		return err
	}
	for i, row := range rows {
		if err := p.stream.WriteRecord(PanelRecord(row)); err != nil {
			return fmt.Errorf("failed to write panel row %d: %w", p.rows+i, err)
		}
	}
	p.rows += len(rows)
	return p.stream.Flush()
}

// Rows returns the number of data rows written.
func (p *PanelWriter) Rows() int {
	return p.rows
}

// Close writes the header if no rows were appended and closes the file.
func (p *PanelWriter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.writeHeader(); err != nil {
		p.stream.Close()
		return err
	}
	return p.stream.Close()
}

func (p *PanelWriter) writeHeader() error {
	if p.headerWritten {
		return nil
	}
	if err := p.stream.WriteRecord(domain.PanelHeader); err != nil {
		return fmt.Errorf("failed to write panel header: %w", err)
	}
	p.headerWritten = true
	return nil
}

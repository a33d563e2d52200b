// Package exporter writes the tabular artifacts of the panel pipeline.
//
// CSVWriter is the shared CSV primitive. On top of it sit the PanelWriter,
// the single stateful writer of the combined panel that emits its header
// exactly once, the seeded Sampler for the documentation sample, and the
// summary writers that render aggregation tables as CSV or XLSX.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths, logger)
//	panel, err := w.NewPanelWriter(paths.PanelCSV)
//	if err != nil {
//	    return err
//	}
//	defer panel.Close()
//	err = panel.Append(rows)
package exporter

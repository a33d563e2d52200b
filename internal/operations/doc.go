// Package operations runs the ingestion pipeline and records its outcome.
//
// Pipeline.Run discovers raw country extracts, selects those whose file
// name carries a region in the configured set, and feeds each one in name
// order through parse, normalize and reshape before appending it to the
// combined panel. A RunManifest captures per-file outcomes, dropped-row and
// unmapped-code counts, and a BLAKE2b digest of the panel.
//
// Example usage:
//
//	p := operations.NewPipeline(paths, operations.NewPipelineConfig(cfg.Pipeline), logger,
//	    operations.WithMetrics(metrics))
//	manifest, err := p.Run(ctx)
package operations

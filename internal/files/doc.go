// Package files provides file system operations for the panel pipeline.
//
// Discovery lists raw country extracts (.csv and .xlsx) in name order and
// selects the ones whose file name carries a region code in the configured
// membership set. Manager clears and checks the artifacts an ingestion run
// produces.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	extracts, err := discovery.SelectRegionFiles(paths.InputDir, reference.DefaultRegionSet())
//
//	manager := files.NewManager(paths)
//	if err := manager.ClearIngestionArtifacts(); err != nil {
//	    return err
//	}
package files

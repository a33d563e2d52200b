package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gddpanel/internal/reference"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Region returns the region token encoded in the file name.
func (f FileInfo) Region() string {
	return RegionToken(f.Name)
}

// sourceExtensions are the raw extract formats the pipeline can read.
var sourceExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSourceFiles lists every readable extract in dir, sorted by name.
// Office lock files (~$name.xlsx) and subdirectories are ignored.
func (d *Discovery) FindSourceFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// SelectRegionFiles returns the extracts in dir whose region token is a
// member of regions. No match is an empty result, not an error.
func (d *Discovery) SelectRegionFiles(dir string, regions reference.RegionSet) ([]FileInfo, error) {
	files, err := d.FindSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	return FilterByRegion(files, regions), nil
}

// RegionToken extracts the region code from a file name: the extension is
// dropped, the stem is split on '_', '-', '.' and spaces, and the last
// non-empty segment is returned upper-cased.
//
//	RegionToken("gdd_2018_nor.csv")  // "NOR"
//	RegionToken("Country SWE.xlsx")  // "SWE"
func RegionToken(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	segments := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	if len(segments) == 0 {
		return ""
	}
	return reference.CanonicalRegionCode(segments[len(segments)-1])
}

// FilterByRegion keeps files whose region token is in regions, preserving
// order. Applying it twice yields the same result as applying it once.
func FilterByRegion(files []FileInfo, regions reference.RegionSet) []FileInfo {
	filtered := make([]FileInfo, 0, len(files))
	for _, f := range files {
		if regions.Contains(f.Region()) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// Package shared holds helpers used across packages that belong to no single
// layer. Its testutil subpackage provides a capturing slog handler and
// writers for raw country-extract fixtures in CSV and XLSX form:
//
//	dir := t.TempDir()
//	testutil.WriteSourceCSV(t, dir, "gdd_NOR.csv",
//	    testutil.SourceRow{ISO3: "NOR", Year: "2015", Female: "1", Edu: "2", Age: "34", VarNum: "7", Median: "120.5"})
package shared

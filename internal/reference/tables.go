package reference

import (
	"sort"
	"strconv"
	"strings"
)

// Label is the result of translating a code through a reference table.
// Mapped is false when the code is outside the table; Text is then empty and
// Code still carries the original value so callers can report it.
type Label struct {
	Text   string
	Code   string
	Mapped bool
}

// Field names used when reporting unmapped codes.
const (
	FieldSex       = "sex"
	FieldEducation = "education"
	FieldVariable  = "variable"
	FieldRegion    = "region"
)

var sexLabels = map[int]string{
	0: "Male",
	1: "Female",
}

var educationLabels = map[int]string{
	1: "Primary",
	2: "Secondary",
	3: "Tertiary",
}

var variableLabels = map[int]string{
	1: "Fruits", 2: "Vegetables", 3: "Legumes", 4: "Nuts and seeds", 5: "Whole grains",
	6: "Refined grains", 7: "Red meat", 8: "Processed meat", 9: "Poultry", 10: "Fish",
	11: "Eggs", 12: "Milk", 13: "Cheese", 14: "Yogurt", 15: "Sugar-sweetened beverages",
	16: "100% fruit juice", 17: "Alcohol", 18: "Sodium", 19: "Calcium", 20: "Fiber",
	21: "Iron", 22: "Vitamin A", 23: "Vitamin C", 24: "Trans fats", 25: "Saturated fats",
	26: "Polyunsaturated fats", 27: "Monounsaturated fats", 28: "Total fats",
	29: "Total energy intake", 30: "Cholesterol", 31: "Added sugars", 32: "Processed foods",
	33: "Unprocessed foods", 34: "Oils", 35: "Starchy vegetables", 36: "Other beverages",
}

// EU27 + EEA members, keyed by ISO3 code.
var regionNames = map[string]string{
	"AUT": "Austria",
	"BEL": "Belgium",
	"BGR": "Bulgaria",
	"HRV": "Croatia",
	"CYP": "Cyprus",
	"CZE": "Czechia",
	"DNK": "Denmark",
	"EST": "Estonia",
	"FIN": "Finland",
	"FRA": "France",
	"DEU": "Germany",
	"GRC": "Greece",
	"HUN": "Hungary",
	"IRL": "Ireland",
	"ITA": "Italy",
	"LVA": "Latvia",
	"LTU": "Lithuania",
	"LUX": "Luxembourg",
	"MLT": "Malta",
	"NLD": "Netherlands",
	"POL": "Poland",
	"PRT": "Portugal",
	"ROU": "Romania",
	"SVK": "Slovakia",
	"SVN": "Slovenia",
	"ESP": "Spain",
	"SWE": "Sweden",
	"NOR": "Norway",
	"ISL": "Iceland",
	"LIE": "Liechtenstein",
}

// SexLabel translates a sex code (0 male, 1 female).
func SexLabel(code int) Label {
	return lookupInt(sexLabels, code)
}

// EducationLabel translates an education code (1 primary .. 3 tertiary).
func EducationLabel(code int) Label {
	return lookupInt(educationLabels, code)
}

// VariableLabel translates a food/nutrient variable number.
func VariableLabel(code int) Label {
	return lookupInt(variableLabels, code)
}

// RegionName resolves an ISO3 code to its country name.
func RegionName(iso3 string) Label {
	code := CanonicalRegionCode(iso3)
	name, ok := regionNames[code]
	return Label{Text: name, Code: code, Mapped: ok}
}

// CanonicalRegionCode returns the comparison form of a region code.
func CanonicalRegionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EEARegions returns the EU27 + EEA ISO3 codes in sorted order.
func EEARegions() []string {
	codes := make([]string, 0, len(regionNames))
	for code := range regionNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// VariableNames returns every known variable label ordered by code.
func VariableNames() []string {
	names := make([]string, 0, len(variableLabels))
	for code := 1; code <= len(variableLabels); code++ {
		names = append(names, variableLabels[code])
	}
	return names
}

func lookupInt(table map[int]string, code int) Label {
	text, ok := table[code]
	return Label{Text: text, Code: strconv.Itoa(code), Mapped: ok}
}

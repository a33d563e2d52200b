package domain

// SourceRecord is one subject/variable observation as read from a raw
// country extract. Coded fields are pointers so a missing cell can be told
// apart from a zero code.
type SourceRecord struct {
	Sex          *int     `json:"female" validate:"required,oneof=0 1"`
	Education    *int     `json:"edu" validate:"required,oneof=1 2 3"`
	Age          *float64 `json:"age" validate:"required,lt=100"`
	AgeLabel     string   `json:"-"`
	RegionCode   string   `json:"iso3"`
	SurveyYear   *int     `json:"year"`
	VariableCode *int     `json:"varnum"`
	Value        *float64 `json:"median"`
}

// NormalizedRecord is a SourceRecord with its coded fields replaced by labels.
// An empty label means the code was outside the reference table.
type NormalizedRecord struct {
	RegionName string   `json:"region_name"`
	RegionCode string   `json:"region_code"`
	SurveyYear *int     `json:"survey_year"`
	Sex        string   `json:"sex"`
	Education  string   `json:"education"`
	Age        *float64 `json:"-"`
	AgeLabel   string   `json:"age"`
	Variable   string   `json:"variable"`
	Value      *float64 `json:"value"`
}

// PanelRow is the unit of the combined long-format artifact.
type PanelRow struct {
	RegionName string   `json:"region_name"`
	RegionCode string   `json:"region_code"`
	SurveyYear *int     `json:"survey_year"`
	Sex        string   `json:"sex"`
	Education  string   `json:"education"`
	Age        string   `json:"age"`
	Variable   string   `json:"variable"`
	Value      *float64 `json:"value"`
}

// PanelHeader is the column order of the combined artifact.
var PanelHeader = []string{
	"region_name", "region_code", "survey_year", "sex", "education", "age", "variable", "value",
}

// RequiredSourceColumns are the only columns loaded from a raw extract.
var RequiredSourceColumns = []string{
	"female", "edu", "age", "iso3", "year", "varnum", "median",
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

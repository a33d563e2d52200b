// Package reference holds the static code tables used to turn coded survey
// fields into readable labels: sex, education level, food/nutrient variable
// numbers, and the EU27 + EEA region membership list with country names.
//
// Tables are package-level values built once and never mutated. Lookups
// return a Label rather than a bare string so an out-of-table code can be
// told apart from a real label:
//
//	lbl := reference.VariableLabel(7)
//	if !lbl.Mapped {
//	    // count or reject lbl.Code
//	}
package reference

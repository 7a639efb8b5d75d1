package form

import "github.com/pr4th4meshh/respondly/model"

// Aggregate builds the per-field summary of a form's response history,
// one entry per field in display order. Responses are joined to fields
// by their current label, so orphaned responses (label matching no
// current field) are excluded by construction. Aggregate never mutates
// the form; calling it twice yields the same result.
func Aggregate(f *model.Form) []model.FieldSummary {
	summaries := make([]model.FieldSummary, 0, len(f.Fields))
	for _, fld := range f.Fields {
		s := model.FieldSummary{Field: fld}
		if fld.Kind.Enumerated() {
			s.Counts = countValues(fld, f.Responses)
		} else {
			s.Values = listValues(fld, f.Responses)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// listValues collects the raw values answered to a free-text field, in
// submission order, duplicates preserved.
func listValues(fld model.Field, responses []model.Response) []string {
	values := []string{}
	for _, r := range responses {
		if r.Label == fld.Label {
			values = append(values, r.Value)
		}
	}
	return values
}

// countValues tallies occurrences per option. Options never chosen
// appear with count 0. A recorded value no longer among the options
// (possible after an edit dropped it) is still counted under its
// literal value rather than discarded.
func countValues(fld model.Field, responses []model.Response) map[string]int {
	counts := make(map[string]int, len(fld.Options))
	for _, o := range fld.Options {
		counts[o] = 0
	}
	for _, r := range responses {
		if r.Label == fld.Label {
			counts[r.Value]++
		}
	}
	return counts
}

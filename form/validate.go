package form

import (
	"strconv"

	"github.com/pr4th4meshh/respondly/model"
)

// Validate checks one submission against the form as it currently
// stands. On acceptance it returns the pairs normalized into field
// order (checkbox choices keep their submitted order), ready to be
// appended to the form's response history. On rejection it returns a
// *ValidationError listing every failure; nothing from a rejected
// submission may be appended.
//
// A checkbox answer arrives as repeated pairs carrying the same label,
// one pair per chosen option.
func Validate(f *model.Form, pairs []model.Response) ([]model.Response, error) {
	verr := &ValidationError{}

	byLabel := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		if _, ok := f.FieldByLabel(p.Label); !ok {
			verr.reject("unknown field: %q", p.Label)
			continue
		}
		byLabel[p.Label] = append(byLabel[p.Label], p.Value)
	}

	normalized := make([]model.Response, 0, len(pairs))
	for _, fld := range f.Fields {
		values := byLabel[fld.Label]
		if len(values) == 0 {
			if fld.Required {
				verr.reject("missing required field: %q", fld.Label)
			}
			continue
		}
		if !fld.Kind.Multi() && len(values) > 1 {
			verr.reject("field %q accepts a single answer", fld.Label)
			continue
		}

		for _, v := range values {
			if reason := checkValue(fld, v, values); reason != "" {
				verr.reject("%s", reason)
				continue
			}
			normalized = append(normalized, model.Response{Label: fld.Label, Value: v})
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return normalized, nil
}

// checkValue applies the answer shape contract of the field's kind to a
// single submitted value. It returns an empty string when the value is
// acceptable. The switch is the one place validation behavior is
// dispatched on a field kind.
func checkValue(fld model.Field, value string, all []string) string {
	switch fld.Kind {
	case model.KindText, model.KindEmail:
		// Any single string is acceptable; the kind only drives the
		// client-side input control and the aggregation shape.
		return ""

	case model.KindNumber:
		if _, err := strconv.Atoi(value); err != nil {
			return strconv.Quote(value) + " is not an integer value for field " + strconv.Quote(fld.Label)
		}
		return ""

	case model.KindMCQ, model.KindDropdown:
		if !containsOption(fld.Options, value) {
			return strconv.Quote(value) + " is not an option of field " + strconv.Quote(fld.Label)
		}
		return ""

	case model.KindCheckbox:
		if !containsOption(fld.Options, value) {
			return strconv.Quote(value) + " is not an option of field " + strconv.Quote(fld.Label)
		}
		n := 0
		for _, v := range all {
			if v == value {
				n++
			}
		}
		if n > 1 {
			return "duplicate choice " + strconv.Quote(value) + " for field " + strconv.Quote(fld.Label)
		}
		return ""

	default:
		return "unsupported field type " + strconv.Quote(string(fld.Kind))
	}
}

// Option membership is case-sensitive and exact.
func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

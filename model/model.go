package model

import "time"

// Form is the persisted definition of a form: title, ordered fields and
// the full response history. Responses are embedded in the form record
// so that a schema edit and its response rewrite land in one atomic
// write, and so a submission append cannot race a half-applied edit.
type Form struct {
	ID        string     `json:"id,omitempty"`
	Creator   string     `json:"creator,omitempty"`
	Version   int        `json:"version,omitempty"`
	Title     string     `json:"title"`
	Fields    []Field    `json:"fields"`
	Responses []Response `json:"responses,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

// Field is one question in a form. ID is assigned once when the field
// first appears and never changes afterwards; it is the identity used
// to recognize a field across edits. Label is what respondents see and
// what stored responses are keyed by, and is exactly the attribute an
// edit may change.
type Field struct {
	ID       string   `json:"id,omitempty"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// Response is one accepted answer, keyed by the label the answered
// field carried at submission time. When a later edit renames that
// field, the label here is rewritten to follow it; when the field is
// removed, the entry stays behind as an orphan.
type Response struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldByID returns the field carrying the given stable id.
func (f *Form) FieldByID(id string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.ID == id {
			return fld, true
		}
	}
	return Field{}, false
}

// FieldByLabel returns the field currently displaying the given label.
func (f *Form) FieldByLabel(label string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Label == label {
			return fld, true
		}
	}
	return Field{}, false
}

// FormSummary is the listing view of a form: identity and counts, no
// field definitions or response payloads.
type FormSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	FieldCount    int       `json:"fieldCount"`
	ResponseCount int       `json:"responseCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FieldSummary is the aggregated view of one field. Exactly one of
// Values and Counts is set: raw values in submission order for
// free-text kinds, per-value occurrence counts for enumerated kinds.
type FieldSummary struct {
	Field  Field          `json:"field"`
	Values []string       `json:"values,omitempty"`
	Counts map[string]int `json:"counts,omitempty"`
}

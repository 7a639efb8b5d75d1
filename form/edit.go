package form

import (
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"github.com/pr4th4meshh/respondly/model"
)

// NewForm builds a freshly created form for the given creator,
// validating the field definitions and assigning each field its stable
// id. The returned form has no responses yet.
func NewForm(creator, title string, fields []model.Field) (*model.Form, error) {
	verr := &ValidationError{}
	checkTitle(title, verr)
	checkFields(fields, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = newID()
		}
	}

	now := time.Now().UTC()
	return &model.Form{
		ID:        newID(),
		Creator:   creator,
		Version:   1,
		Title:     title,
		Fields:    fields,
		Responses: []model.Response{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyEdit replaces the form's title and field set wholesale, then
// rewrites the response history to follow renamed fields.
//
// Correspondence between old and new fields is computed by stable field
// id, never by position or label: the label is exactly the attribute an
// edit may change. A new field arriving without an id gets a fresh one.
// Responses whose field was removed keep their old label and become
// orphans; they are retained, not deleted.
//
// The caller persists the mutated form as one atomic unit. On any
// validation failure the form is left untouched.
func ApplyEdit(f *model.Form, title string, fields []model.Field) error {
	verr := &ValidationError{}
	checkTitle(title, verr)
	checkFields(fields, verr)
	if err := verr.orNil(); err != nil {
		return err
	}

	oldLabels := make(map[string]string, len(f.Fields)) // field id to old label
	for _, fld := range f.Fields {
		oldLabels[fld.ID] = fld.Label
	}

	renames := make(map[string]string)
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = newID()
			continue
		}
		if old, ok := oldLabels[fields[i].ID]; ok && old != fields[i].Label {
			renames[old] = fields[i].Label
		}
	}

	f.Title = title
	f.Fields = fields
	for i := range f.Responses {
		if renamed, ok := renames[f.Responses[i].Label]; ok {
			f.Responses[i].Label = renamed
		}
	}
	return nil
}

func checkTitle(title string, verr *ValidationError) {
	if strings.TrimSpace(title) == "" {
		verr.reject("title must not be empty")
	}
}

// checkFields rejects malformed field definitions and duplicate labels
// or ids. The duplicate-label check is also what refuses an edit whose
// renames would collide: two fields may not end up displaying the same
// label, or the label join to responses would turn ambiguous.
func checkFields(fields []model.Field, verr *ValidationError) {
	if len(fields) == 0 {
		verr.reject("a form needs at least one field")
		return
	}

	labels := make(map[string]bool, len(fields))
	ids := make(map[string]bool, len(fields))
	for _, fld := range fields {
		if strings.TrimSpace(fld.Label) == "" {
			verr.reject("field label must not be empty")
			continue
		}
		if labels[fld.Label] {
			verr.reject("duplicate field label: %q", fld.Label)
		}
		labels[fld.Label] = true

		if fld.ID != "" {
			if ids[fld.ID] {
				verr.reject("duplicate field id: %q", fld.ID)
			}
			ids[fld.ID] = true
		}

		switch {
		case !fld.Kind.Valid():
			verr.reject("unsupported field type %q for field %q", fld.Kind, fld.Label)
		case fld.Kind.Enumerated() && len(fld.Options) == 0:
			verr.reject("field %q needs at least one option", fld.Label)
		case !fld.Kind.Enumerated() && len(fld.Options) > 0:
			verr.reject("field %q cannot have options", fld.Label)
		}
	}
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

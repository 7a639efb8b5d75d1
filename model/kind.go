package model

// Kind is one of the supported field behaviors. The set is closed: the
// validator and the aggregator switch over exactly these six values, so
// adding a kind means extending those switches, not registering a plugin.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindMCQ      Kind = "mcq"
	KindDropdown Kind = "dropdown"
	KindCheckbox Kind = "checkbox"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindText, KindEmail, KindNumber, KindMCQ, KindDropdown, KindCheckbox}

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindEmail, KindNumber, KindMCQ, KindDropdown, KindCheckbox:
		return true
	}
	return false
}

// Enumerated reports whether answers must be drawn from the field's
// option list. Enumerated kinds aggregate as count tables, the rest as
// raw value lists.
func (k Kind) Enumerated() bool {
	switch k {
	case KindMCQ, KindDropdown, KindCheckbox:
		return true
	}
	return false
}

// Multi reports whether one submission may answer the field with more
// than one value. Only checkbox does; its choices travel as repeated
// (label, value) pairs.
func (k Kind) Multi() bool {
	return k == KindCheckbox
}

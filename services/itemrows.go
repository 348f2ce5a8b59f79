package services

import "fmt"

// Item field keys, used both for form field names and for labels.
const (
	FieldProposal       = "proposal"
	FieldProject        = "project"
	FieldManufacturer   = "manufacturer"
	FieldManufacturerPN = "manufacturer_pn"
	FieldQuantity       = "quantity"
)

// ItemFields lists the per-row input fields in render order.
var ItemFields = []string{
	FieldProposal,
	FieldProject,
	FieldManufacturer,
	FieldManufacturerPN,
	FieldQuantity,
}

// ItemFieldLabels maps a field key to its human readable label.
var ItemFieldLabels = map[string]string{
	FieldProposal:       "Proposal",
	FieldProject:        "Project",
	FieldManufacturer:   "Manufacturer",
	FieldManufacturerPN: "Manufacturer PN",
	FieldQuantity:       "Quantity",
}

// LineItem is one order line as typed into an item row.
type LineItem struct {
	Proposal       string
	Project        string
	Manufacturer   string
	ManufacturerPN string
	Quantity       int
}

// DefaultLineItem returns the values of a freshly added, empty row.
func DefaultLineItem() LineItem {
	return LineItem{Quantity: 1}
}

// ItemFieldName returns the form field name for a field of the row with the
// given counter value, e.g. "items_quantity_3".
func ItemFieldName(field string, index int) string {
	return fmt.Sprintf("items_%s_%d", field, index)
}

// Row is one rendered item row. Index is the counter value assigned when the
// row was added and is the row's only identity.
type Row struct {
	Index int
	Item  LineItem
}

// FieldName returns the suffixed form field name for one of the row's fields.
func (r Row) FieldName(field string) string {
	return ItemFieldName(field, r.Index)
}

// Value returns the row's current value for a field, formatted for an input.
func (r Row) Value(field string) string {
	switch field {
	case FieldProposal:
		return r.Item.Proposal
	case FieldProject:
		return r.Item.Project
	case FieldManufacturer:
		return r.Item.Manufacturer
	case FieldManufacturerPN:
		return r.Item.ManufacturerPN
	case FieldQuantity:
		return fmt.Sprintf("%d", r.Item.Quantity)
	}
	return ""
}

// RowEditorOptions toggles how rows are rendered. A nil Proposals or Projects
// slice renders that field as free text; a non-nil slice renders a select.
type RowEditorOptions struct {
	Labeled   bool
	Proposals []string
	Projects  []string
}

// UsesSelects reports whether proposal/project are rendered as select lists.
func (o RowEditorOptions) UsesSelects() bool {
	return o.Proposals != nil || o.Projects != nil
}

// OptionsFor returns the select options for a field, or nil for free text.
func (o RowEditorOptions) OptionsFor(field string) []string {
	switch field {
	case FieldProposal:
		return o.Proposals
	case FieldProject:
		return o.Projects
	}
	return nil
}

// RowEditor owns the rows of one item form and the counter used to suffix
// their field names. Counter values are never reused, so removing a row never
// renames the fields of the others.
type RowEditor struct {
	next    int
	rows    []Row
	options RowEditorOptions
}

// NewRowEditor returns an editor with no rows and the counter at zero.
func NewRowEditor(options RowEditorOptions) *RowEditor {
	return &RowEditor{options: options}
}

// ResumeRowEditor returns an editor whose next row gets the given counter
// value. It is used when a page asks for one more row after some were
// already rendered client-side.
func ResumeRowEditor(next int, options RowEditorOptions) *RowEditor {
	if next < 0 {
		next = 0
	}
	return &RowEditor{next: next, options: options}
}

// AddRow appends a row pre-filled from initial, or with the default values
// when initial is nil, and advances the counter.
func (e *RowEditor) AddRow(initial *LineItem) Row {
	item := DefaultLineItem()
	if initial != nil {
		item = *initial
	}
	row := Row{Index: e.next, Item: item}
	e.rows = append(e.rows, row)
	e.next++
	return row
}

// RemoveRow deletes the row with the given counter value. It reports false
// and changes nothing when no such row exists.
func (e *RowEditor) RemoveRow(index int) bool {
	for i, r := range e.rows {
		if r.Index == index {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Rows returns a copy of the current rows in insertion order.
func (e *RowEditor) Rows() []Row {
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}

// Next returns the counter value the next added row will get.
func (e *RowEditor) Next() int {
	return e.next
}

// Options returns the rendering options of the editor.
func (e *RowEditor) Options() RowEditorOptions {
	return e.options
}

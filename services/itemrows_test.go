package services

import "testing"

func TestRowEditor_AddRowDefaults(t *testing.T) {
	e := NewRowEditor(RowEditorOptions{})
	row := e.AddRow(nil)

	if row.Index != 0 {
		t.Errorf("first row index = %d, want 0", row.Index)
	}
	if row.Item.Quantity != 1 {
		t.Errorf("default quantity = %d, want 1", row.Item.Quantity)
	}
	for _, f := range []string{FieldProposal, FieldProject, FieldManufacturer, FieldManufacturerPN} {
		if v := row.Value(f); v != "" {
			t.Errorf("default %s = %q, want empty", f, v)
		}
	}
	if e.Next() != 1 {
		t.Errorf("Next() = %d, want 1", e.Next())
	}
}

func TestRowEditor_AddRowInitial(t *testing.T) {
	e := NewRowEditor(RowEditorOptions{})
	row := e.AddRow(&LineItem{
		Proposal:       "P",
		Project:        "X",
		Manufacturer:   "TI",
		ManufacturerPN: "LM317",
		Quantity:       4,
	})

	if got := row.Value(FieldManufacturerPN); got != "LM317" {
		t.Errorf("manufacturer_pn = %q, want LM317", got)
	}
	if got := row.Value(FieldQuantity); got != "4" {
		t.Errorf("quantity = %q, want 4", got)
	}
	if got := row.FieldName(FieldQuantity); got != "items_quantity_0" {
		t.Errorf("FieldName = %q, want items_quantity_0", got)
	}
}

func TestRowEditor_IndicesNeverReused(t *testing.T) {
	e := NewRowEditor(RowEditorOptions{})
	e.AddRow(nil)
	e.AddRow(nil)
	e.AddRow(nil)

	if !e.RemoveRow(1) {
		t.Fatal("RemoveRow(1) = false, want true")
	}
	row := e.AddRow(nil)
	if row.Index != 3 {
		t.Errorf("index after removal = %d, want 3", row.Index)
	}

	rows := e.Rows()
	want := []int{0, 2, 3}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, r := range rows {
		if r.Index != want[i] {
			t.Errorf("rows[%d].Index = %d, want %d", i, r.Index, want[i])
		}
	}
}

func TestRowEditor_RemoveUnknown(t *testing.T) {
	e := NewRowEditor(RowEditorOptions{})
	e.AddRow(nil)

	if e.RemoveRow(7) {
		t.Error("RemoveRow(7) = true, want false")
	}
	if len(e.Rows()) != 1 {
		t.Errorf("rows = %d, want 1", len(e.Rows()))
	}
}

func TestRowEditor_RemoveLastRowAllowed(t *testing.T) {
	e := NewRowEditor(RowEditorOptions{})
	e.AddRow(nil)
	e.RemoveRow(0)

	if len(e.Rows()) != 0 {
		t.Errorf("rows = %d, want 0", len(e.Rows()))
	}
	if e.Next() != 1 {
		t.Errorf("Next() = %d, want 1", e.Next())
	}
}

func TestResumeRowEditor(t *testing.T) {
	e := ResumeRowEditor(5, RowEditorOptions{})
	if row := e.AddRow(nil); row.Index != 5 {
		t.Errorf("resumed index = %d, want 5", row.Index)
	}

	neg := ResumeRowEditor(-3, RowEditorOptions{})
	if row := neg.AddRow(nil); row.Index != 0 {
		t.Errorf("negative resume index = %d, want 0", row.Index)
	}
}

func TestRowEditorOptions(t *testing.T) {
	text := RowEditorOptions{}
	if text.UsesSelects() {
		t.Error("empty options should render free text")
	}
	if text.OptionsFor(FieldProposal) != nil {
		t.Error("OptionsFor(proposal) should be nil for free text")
	}

	sel := RowEditorOptions{Proposals: []string{"A"}, Projects: []string{}}
	if !sel.UsesSelects() {
		t.Error("options with lists should render selects")
	}
	if got := sel.OptionsFor(FieldProposal); len(got) != 1 || got[0] != "A" {
		t.Errorf("OptionsFor(proposal) = %v", got)
	}
	if got := sel.OptionsFor(FieldProject); got == nil {
		t.Error("OptionsFor(project) should be non-nil empty slice")
	}
	if got := sel.OptionsFor(FieldQuantity); got != nil {
		t.Errorf("OptionsFor(quantity) = %v, want nil", got)
	}
}

package templates

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"ordertracker/services"
)

// Row rendering modes sent back by the add-row button.
const (
	RowModeText   = "text"
	RowModeSelect = "select"
)

// RowMode returns the mode string matching the editor options.
func RowMode(opts services.RowEditorOptions) string {
	if opts.UsesSelects() {
		return RowModeSelect
	}
	return RowModeText
}

// ItemRow renders one item row. Every input name carries the row's counter
// suffix and the remove button targets only this row.
func ItemRow(row services.Row, opts services.RowEditorOptions) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.rawf(`<div class="item-entry" id="item-row-%d">`, row.Index)
		for _, field := range services.ItemFields {
			name := row.FieldName(field)
			hw.raw(`<div class="field">`)
			if opts.Labeled {
				hw.raw(`<label`)
				hw.attr("for", name)
				hw.raw(`>`)
				hw.text(services.ItemFieldLabels[field])
				hw.raw(`</label>`)
			}

			switch {
			case field == services.FieldQuantity:
				hw.raw(`<input type="number" min="1" step="1" required`)
				hw.attr("id", name)
				hw.attr("name", name)
				hw.attr("value", row.Value(field))
				hw.raw(`>`)
			case opts.OptionsFor(field) != nil:
				writeSelect(hw, name, name, row.Value(field), opts.OptionsFor(field), true)
			default:
				hw.raw(`<input type="text" required`)
				hw.attr("id", name)
				hw.attr("name", name)
				hw.attr("value", row.Value(field))
				hw.attr("placeholder", services.ItemFieldLabels[field])
				hw.raw(`>`)
			}
			hw.raw(`</div>`)
		}
		hw.rawf(`<button type="button" class="remove-item" hx-delete="/orders/rows/%d" hx-target="closest .item-entry" hx-swap="delete">Remove</button>`, row.Index)
		hw.raw(`</div>`)
	})
}

// writeSelect renders a select list. A current value missing from options is
// kept as an extra selected option.
func writeSelect(hw *htmlWriter, id, name, current string, options []string, required bool) {
	hw.raw(`<select`)
	hw.attr("id", id)
	hw.attr("name", name)
	if required {
		hw.raw(` required`)
	}
	hw.raw(`><option value="">--</option>`)
	found := false
	for _, opt := range options {
		hw.raw(`<option`)
		hw.attr("value", opt)
		hw.raw(selected(opt == current))
		hw.raw(`>`)
		hw.text(opt)
		hw.raw(`</option>`)
		if opt == current {
			found = true
		}
	}
	if current != "" && !found {
		hw.raw(`<option`)
		hw.attr("value", current)
		hw.raw(` selected>`)
		hw.text(current)
		hw.raw(`</option>`)
	}
	hw.raw(`</select>`)
}

// NextCounterInput renders the hidden input that carries the row counter.
// With oob set it replaces the page's copy through an out-of-band swap.
func NextCounterInput(next int, oob bool) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.rawf(`<input type="hidden" id="items-next" name="items_next" value="%d"`, next)
		if oob {
			hw.raw(` hx-swap-oob="true"`)
		}
		hw.raw(`>`)
	})
}

// AddedRow is the response to an add-row request: the new row plus the
// advanced counter.
func AddedRow(row services.Row, opts services.RowEditorOptions, next int) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.render(ctx, ItemRow(row, opts))
		hw.render(ctx, NextCounterInput(next, true))
	})
}

// ItemsEditor renders the row container, the counter and the add button.
func ItemsEditor(editor *services.RowEditor) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		opts := editor.Options()
		hw.raw(`<fieldset id="items-editor"><legend>Items</legend><div id="items-container">`)
		for _, row := range editor.Rows() {
			hw.render(ctx, ItemRow(row, opts))
		}
		hw.raw(`</div>`)
		hw.render(ctx, NextCounterInput(editor.Next(), false))
		hw.rawf(`<button type="button" id="add-item" hx-post="/orders/rows" hx-include="#items-next" hx-vals='{"mode":"%s","labeled":"%t"}' hx-target="#items-container" hx-swap="beforeend">Add item</button>`,
			RowMode(opts), opts.Labeled)
		hw.raw(`</fieldset>`)
	})
}

// OrderFormData drives both the new-order and the edit-order page.
type OrderFormData struct {
	Title     string
	Action    string
	Order     *services.Order
	Header    services.OrderHeader
	Divisions []string
	SubAreas  []string
	Proposals []string
	Projects  []string
	Editor    *services.RowEditor
}

func writeHeaderFields(hw *htmlWriter, data OrderFormData, idPrefix string) {
	hw.rawf(`<div class="field"><label for="%sdescription">Description</label>`, idPrefix)
	hw.raw(`<input type="text" name="description"`)
	hw.attr("id", idPrefix+"description")
	hw.attr("value", data.Header.Description)
	hw.raw(`></div>`)

	writeHeaderChoice(hw, idPrefix, "area_division", "Division", data.Header.AreaDivision, data.Divisions)
	writeHeaderChoice(hw, idPrefix, "area_sub_area", "Sub-area", data.Header.AreaSubArea, data.SubAreas)
}

func writeHeaderChoice(hw *htmlWriter, idPrefix, name, label, current string, options []string) {
	id := idPrefix + name
	hw.raw(`<div class="field"><label`)
	hw.attr("for", id)
	hw.raw(`>`)
	hw.text(label)
	hw.raw(`</label>`)
	if len(options) > 0 {
		writeSelect(hw, id, name, current, options, false)
	} else {
		hw.raw(`<input type="text"`)
		hw.attr("id", id)
		hw.attr("name", name)
		hw.attr("value", current)
		hw.raw(`>`)
	}
	hw.raw(`</div>`)
}

// OrderFormContent renders the order header, the item rows and, for stored
// orders, the workflow and export actions.
func OrderFormContent(data OrderFormData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section id="order-form-page"><div class="page-header"><h1>`)
		hw.text(data.Title)
		hw.raw(`</h1>`)
		if o := data.Order; o != nil {
			hw.raw(`<span`)
			hw.attr("class", "status "+o.StatusClass())
			hw.raw(`>`)
			hw.text(o.Status())
			hw.raw(`</span>`)
		}
		hw.raw(`</div>`)

		hw.raw(`<form id="order-form" method="post"`)
		hw.attr("hx-post", data.Action)
		hw.attr("action", data.Action)
		hw.raw(`>`)
		writeHeaderFields(hw, data, "")
		hw.render(ctx, ItemsEditor(data.Editor))
		hw.raw(`<div class="form-actions"><button type="submit" class="btn">Save order</button>`)
		hw.raw(`<a href="/orders">Cancel</a></div></form>`)

		if o := data.Order; o != nil {
			writeWorkflowActions(hw, *o)
			writeBulkAdd(hw, data, *o)
		} else {
			writeKiCadUpload(hw, data)
		}
		hw.raw(`</section>`)
	})
}

func writeWorkflowActions(hw *htmlWriter, o services.Order) {
	hw.raw(`<div class="workflow-actions">`)
	if o.Ready {
		hw.rawf(`<button type="button" hx-post="/orders/%d/unready">Back to editing</button>`, o.Number)
	} else {
		hw.rawf(`<button type="button" hx-post="/orders/%d/ready">Ready for approval</button>`, o.Number)
	}
	if o.Confirmed {
		hw.rawf(`<button type="button" hx-post="/orders/%d/unconfirm">Revoke approval</button>`, o.Number)
	} else if o.Ready {
		hw.rawf(`<button type="button" hx-post="/orders/%d/confirm">Approve</button>`, o.Number)
	}
	hw.rawf(`<a class="btn" href="/orders/%d/export/bom">Download BOM</a>`, o.Number)
	hw.rawf(`<a class="btn" href="/orders/%d/export/pdf">Download PDF</a>`, o.Number)
	hw.rawf(`<button type="button" class="danger" hx-post="/orders/%d/delete" hx-confirm="%s">Delete order</button>`,
		o.Number, templ.EscapeString(fmt.Sprintf("Delete order #%d?", o.Number)))
	hw.raw(`</div>`)
}

func writeKiCadUpload(hw *htmlWriter, data OrderFormData) {
	hw.raw(`<form id="kicad-upload" method="post" action="/orders/new/upload-kicad-bom" enctype="multipart/form-data">`)
	hw.raw(`<h2>Import KiCad BOM</h2>`)
	writeHeaderFields(hw, data, "kicad-")
	hw.raw(`<div class="field"><label for="kicad-proposal">Proposal</label>`)
	writeSelect(hw, "kicad-proposal", "proposal", services.DefaultProposal, data.Proposals, true)
	hw.raw(`</div><div class="field"><label for="kicad-project">Project</label>`)
	writeSelect(hw, "kicad-project", "project", services.DefaultProject, data.Projects, true)
	hw.raw(`</div><div class="field"><label for="file">BOM file (.xlsx)</label>`)
	hw.raw(`<input type="file" id="file" name="file" accept=".xlsx" required></div>`)
	hw.raw(`<button type="submit" class="btn">Upload</button></form>`)
}

// writeBulkAdd renders the upload that appends a KiCad BOM to a stored order.
func writeBulkAdd(hw *htmlWriter, data OrderFormData, o services.Order) {
	action := fmt.Sprintf("/orders/%d/edit/bulk-add", o.Number)
	hw.raw(`<form id="bulk-add" method="post" enctype="multipart/form-data"`)
	hw.attr("action", action)
	hw.attr("hx-post", action)
	hw.raw(` hx-encoding="multipart/form-data">`)
	hw.raw(`<h2>Add rows from a KiCad BOM</h2>`)
	hw.raw(`<div class="field"><label for="bulk-proposal">Proposal</label>`)
	writeSelect(hw, "bulk-proposal", "proposal", services.DefaultProposal, data.Proposals, true)
	hw.raw(`</div><div class="field"><label for="bulk-project">Project</label>`)
	writeSelect(hw, "bulk-project", "project", services.DefaultProject, data.Projects, true)
	hw.raw(`</div><div class="field"><label for="bulk-file">BOM file (.xlsx)</label>`)
	hw.raw(`<input type="file" id="bulk-file" name="file" accept=".xlsx" required></div>`)
	hw.raw(`<button type="submit" class="btn">Add rows</button></form>`)
}

// OrderFormPage is the full new/edit order page.
func OrderFormPage(data OrderFormData, header HeaderData) templ.Component {
	return Page(data.Title, header, OrderFormContent(data))
}

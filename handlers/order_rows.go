package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
	"ordertracker/templates"
)

// HandleAddItemRow renders one more item row. The page sends its counter in
// items_next; the response carries the row and the advanced counter.
func HandleAddItemRow(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		next, err := strconv.Atoi(e.Request.FormValue("items_next"))
		if err != nil {
			// Pages without a counter fall back to whatever rows they submitted.
			next = services.NextItemIndex(e.Request.Form)
		}
		labeled := e.Request.FormValue("labeled") == "true"

		var opts services.RowEditorOptions
		if e.Request.FormValue("mode") == templates.RowModeSelect {
			opts = selectOptions(services.NewOrderStore(app), labeled)
		} else {
			opts = services.RowEditorOptions{Labeled: labeled}
		}

		editor := services.ResumeRowEditor(next, opts)
		row := editor.AddRow(nil)
		log.Printf("order_rows: HandleAddItemRow: added row %d", row.Index)

		return templates.AddedRow(row, opts, editor.Next()).Render(e.Request.Context(), e.Response)
	}
}

// HandleRemoveItemRow acknowledges a row removal. The row lives only in the
// page, so HTMX drops it on the empty 200 response.
func HandleRemoveItemRow(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.String(http.StatusOK, "")
	}
}

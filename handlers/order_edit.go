package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
	"ordertracker/templates"
)

// HandleOrderEdit renders a stored order with its rows pre-filled as free
// text inputs.
func HandleOrderEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Invalid order number")
		}

		store := services.NewOrderStore(app)
		order, err := store.FindOrder(number)
		if errors.Is(err, services.ErrOrderNotFound) {
			return e.String(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			log.Printf("order_edit: HandleOrderEdit: could not load order #%d: %v", number, err)
			return e.String(http.StatusInternalServerError, "Could not load the order")
		}
		// An editor without the stored rows would wipe them on save.
		items, err := store.Items(number)
		if err != nil {
			log.Printf("order_edit: HandleOrderEdit: could not load items of #%d: %v", number, err)
			return e.String(http.StatusInternalServerError, "Could not load the order items")
		}

		editor := services.NewRowEditor(services.RowEditorOptions{Labeled: true})
		for _, it := range items {
			line := it.LineItem
			editor.AddRow(&line)
		}
		if len(items) == 0 {
			editor.AddRow(nil)
		}

		divisions, subAreas := store.Areas()
		bomOpts := selectOptions(store, true)
		data := templates.OrderFormData{
			Title:  services.OrderRef{ID: order.Number, Description: order.Description}.Label(),
			Action: fmt.Sprintf("/orders/%d/edit/submit", order.Number),
			Order:  &order,
			Header: services.OrderHeader{
				Description:  order.Description,
				AreaDivision: order.AreaDivision,
				AreaSubArea:  order.AreaSubArea,
			},
			Divisions: divisions,
			SubAreas:  subAreas,
			Proposals: bomOpts.Proposals,
			Projects:  bomOpts.Projects,
			Editor:    editor,
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.OrderFormContent(data)
		} else {
			component = templates.OrderFormPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleOrderUpdate replaces the header and items of a stored order.
func HandleOrderUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid order number")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		if msg := incompleteRowsMessage(services.IncompleteItemRows(e.Request.Form)); msg != "" {
			return ErrorToast(e, http.StatusBadRequest, msg)
		}

		items := services.ParseItemsForm(e.Request.Form)
		err := services.NewOrderStore(app).ReplaceOrder(number, headerFromForm(e), items)
		if errors.Is(err, services.ErrOrderNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Order not found")
		}
		if err != nil {
			log.Printf("order_edit: HandleOrderUpdate: could not save order #%d: %v", number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("Order #%d saved", number))
		return redirect(e, fmt.Sprintf("/orders/%d/edit", number))
	}
}

// HandleOrderBulkAdd adds the rows of a KiCad BOM workbook to a stored order.
// Parts already in the order get their quantities summed.
func HandleOrderBulkAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid order number")
		}

		upload, msg := readKiCadUpload(e, "HandleOrderBulkAdd")
		if msg != "" {
			return ErrorToast(e, http.StatusBadRequest, msg)
		}

		err := services.NewOrderStore(app).AddItems(number, upload.Items)
		if errors.Is(err, services.ErrOrderNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Order not found")
		}
		if err != nil {
			log.Printf("order_edit: HandleOrderBulkAdd: could not add BOM rows to #%d: %v", number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		log.Printf("order_edit: HandleOrderBulkAdd: added %d rows to order #%d", len(upload.Items), number)
		SetToast(e, ToastSuccess, fmt.Sprintf("Added %d rows from %s", len(upload.Items), upload.Filename))
		return redirect(e, fmt.Sprintf("/orders/%d/edit", number))
	}
}

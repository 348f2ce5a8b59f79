package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
	"ordertracker/templates"
)

// maxBOMUploadSize bounds the multipart body of a KiCad BOM upload.
const maxBOMUploadSize = 10 << 20

func newOrderFormData(store *services.OrderStore) templates.OrderFormData {
	opts := selectOptions(store, true)
	editor := services.NewRowEditor(opts)
	editor.AddRow(nil)

	divisions, subAreas := store.Areas()
	return templates.OrderFormData{
		Title:     "New order",
		Action:    "/orders/new/submit",
		Divisions: divisions,
		SubAreas:  subAreas,
		Proposals: opts.Proposals,
		Projects:  opts.Projects,
		Editor:    editor,
	}
}

// HandleOrderNew renders the new-order page with a single empty row.
func HandleOrderNew(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := newOrderFormData(services.NewOrderStore(app))

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.OrderFormContent(data)
		} else {
			component = templates.OrderFormPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleOrderCreate stores a new order from the submitted form.
func HandleOrderCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		if msg := incompleteRowsMessage(services.IncompleteItemRows(e.Request.Form)); msg != "" {
			return ErrorToast(e, http.StatusBadRequest, msg)
		}

		items := services.ParseItemsForm(e.Request.Form)
		if len(items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Add at least one item")
		}

		order, err := services.NewOrderStore(app).CreateOrder(headerFromForm(e), items)
		if err != nil {
			log.Printf("order_new: HandleOrderCreate: could not create order: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		log.Printf("order_new: HandleOrderCreate: created order #%d with %d items", order.Number, len(items))
		SetToast(e, ToastSuccess, fmt.Sprintf("Order #%d created", order.Number))
		return redirect(e, "/orders")
	}
}

// kicadUpload is a parsed KiCad BOM upload: its rows as line items tagged
// with the chosen proposal and project.
type kicadUpload struct {
	Filename string
	Items    []services.LineItem
}

// readKiCadUpload parses the multipart BOM upload shared by the new-order and
// bulk-add forms. A non-empty message is the user-facing reason for a 400.
func readKiCadUpload(e *core.RequestEvent, caller string) (kicadUpload, string) {
	if err := e.Request.ParseMultipartForm(maxBOMUploadSize); err != nil {
		return kicadUpload{}, "Invalid upload"
	}

	file, header, err := e.Request.FormFile("file")
	if err != nil {
		return kicadUpload{}, "Please choose a BOM file"
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		return kicadUpload{}, "The BOM must be an .xlsx file"
	}

	kicadItems, err := services.ParseKiCadBOM(file)
	if err != nil {
		log.Printf("order_new: %s: %s: %v", caller, header.Filename, err)
		return kicadUpload{}, "Could not read the BOM file"
	}
	if len(kicadItems) == 0 {
		return kicadUpload{}, "The BOM file contains no usable rows"
	}

	proposal := strings.TrimSpace(e.Request.FormValue("proposal"))
	if proposal == "" {
		proposal = services.DefaultProposal
	}
	project := strings.TrimSpace(e.Request.FormValue("project"))
	if project == "" {
		project = services.DefaultProject
	}

	return kicadUpload{
		Filename: header.Filename,
		Items:    services.KiCadLineItems(kicadItems, proposal, project),
	}, ""
}

// HandleKiCadUpload creates an order from a KiCad BOM workbook.
func HandleKiCadUpload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		upload, msg := readKiCadUpload(e, "HandleKiCadUpload")
		if msg != "" {
			return ErrorToast(e, http.StatusBadRequest, msg)
		}

		order, err := services.NewOrderStore(app).CreateOrder(headerFromForm(e), upload.Items)
		if err != nil {
			log.Printf("order_new: HandleKiCadUpload: could not create order: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		log.Printf("order_new: HandleKiCadUpload: imported %d rows into order #%d", len(upload.Items), order.Number)
		SetToast(e, ToastSuccess, fmt.Sprintf("Order #%d imported from %s", order.Number, upload.Filename))
		return redirect(e, fmt.Sprintf("/orders/%d/edit", order.Number))
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
)

// orderNumberParam reads the {id} path value as an order number.
func orderNumberParam(e *core.RequestEvent) (int, bool) {
	n, err := strconv.Atoi(e.Request.PathValue("id"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// redirect sends the browser to url, through HX-Redirect for HTMX requests.
func redirect(e *core.RequestEvent, url string) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}

func headerFromForm(e *core.RequestEvent) services.OrderHeader {
	return services.OrderHeader{
		Description:  strings.TrimSpace(e.Request.FormValue("description")),
		AreaDivision: strings.TrimSpace(e.Request.FormValue("area_division")),
		AreaSubArea:  strings.TrimSpace(e.Request.FormValue("area_sub_area")),
	}
}

// selectOptions loads the proposal and project lists used by select-mode
// rows. The slices are never nil so rows render as selects even when empty.
func selectOptions(store *services.OrderStore, labeled bool) services.RowEditorOptions {
	opts := services.RowEditorOptions{
		Labeled:   labeled,
		Proposals: store.OptionNames("proposals"),
		Projects:  store.OptionNames("projects"),
	}
	if opts.Proposals == nil {
		opts.Proposals = []string{}
	}
	if opts.Projects == nil {
		opts.Projects = []string{}
	}
	return opts
}

// incompleteRowsMessage names the rows that need both manufacturer and part
// number, or returns "" when every row is complete.
func incompleteRowsMessage(rows []int) string {
	if len(rows) == 0 {
		return ""
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = strconv.Itoa(r)
	}
	if len(rows) == 1 {
		return "Row " + names[0] + " needs both a manufacturer and a part number"
	}
	return "Rows " + strings.Join(names, ", ") + " need both a manufacturer and a part number"
}

// operationStatus maps an order operation error to its HTTP status.
func operationStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSameOrder),
		errors.Is(err, services.ErrInvalidScaleFactor),
		errors.Is(err, services.ErrQuantityOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

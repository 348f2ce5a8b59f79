package handlers

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
	"ordertracker/templates"
)

// HandleOrderList renders the orders table. ?status=open|ready|confirmed
// narrows it to one workflow view.
func HandleOrderList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		filter, ok := services.ParseOrderFilter(e.Request.URL.Query().Get("status"))
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown status filter")
		}

		orders, err := services.NewOrderStore(app).FilteredOrders(e.Request.Context(), filter)
		if err != nil {
			log.Printf("order_list: could not query orders: %v", err)
			orders = nil
		}

		data := templates.OrderListData{Orders: orders, Filter: filter}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.OrderListContent(data)
		} else {
			component = templates.OrderListPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

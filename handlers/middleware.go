package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
	"ordertracker/templates"
)

type contextKey string

const HeaderDataKey contextKey = "headerData"

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// BuildHeaderData counts orders per workflow state for the navigation bar.
func BuildHeaderData(ctx context.Context, app core.App) templates.HeaderData {
	var data templates.HeaderData
	orders, err := services.NewOrderStore(app).AllOrders(ctx)
	if err != nil {
		log.Printf("middleware: BuildHeaderData: could not list orders: %v", err)
		return data
	}
	for _, o := range orders {
		switch {
		case o.Confirmed:
			data.ConfirmedOrders++
		case o.Ready:
			data.AwaitingOrders++
		default:
			data.OpenOrders++
		}
	}
	return data
}

// HeaderDataMiddleware stores the navigation counts in the request context
// for full-page renders. HTMX and JSON requests skip the lookup.
func HeaderDataMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Request.Header.Get("HX-Request") == "true" || e.Request.Method != http.MethodGet {
			return e.Next()
		}

		headerData := BuildHeaderData(e.Request.Context(), app)
		ctx := context.WithValue(e.Request.Context(), HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

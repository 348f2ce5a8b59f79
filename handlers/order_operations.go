package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
	"ordertracker/templates"
)

// HandleOperationsPage renders the order arithmetic page with no sub-form.
func HandleOperationsPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.OperationsContent()
		} else {
			component = templates.OperationsPage(GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleOperationForm answers a change of the operation selector with the
// matching sub-form and a cleared result area.
func HandleOperationForm(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		op, err := services.ParseOperation(e.Request.URL.Query().Get("operation"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Unknown operation")
		}

		selector := services.NewSelector(services.NewOrderStore(app))
		if _, err := selector.Refresh(e.Request.Context(), op); err != nil {
			log.Printf("order_operations: HandleOperationForm: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Unknown operation")
		}

		return templates.OperationFormFragment(selector.State(), selector.Orders()).
			Render(e.Request.Context(), e.Response)
	}
}

func formInt(e *core.RequestEvent, key string) (int, bool) {
	n, err := strconv.Atoi(e.Request.FormValue(key))
	return n, err == nil
}

// HandleOperationSubmit runs one operation from its sub-form and renders the
// result area. Sub-form values stay on the page.
func HandleOperationSubmit(app *pocketbase.PocketBase, op services.Operation) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		ctx := e.Request.Context()
		selector := services.NewSelector(services.NewOrderStore(app))

		var result services.Result
		switch op {
		case services.OpScale:
			orderID, ok := formInt(e, "order_id")
			factor, err := strconv.ParseFloat(e.Request.FormValue("scale_factor"), 64)
			if !ok || err != nil || !services.ValidScaleFactor(factor) {
				result = selector.ShowResult(false, "", services.MsgScaleErr)
				break
			}
			result = selector.SubmitScale(ctx, orderID, factor)
		case services.OpMerge:
			source, okS := formInt(e, "source_id")
			target, okT := formInt(e, "target_id")
			if !okS || !okT {
				result = selector.ShowResult(false, "", services.MsgMergeErr)
				break
			}
			result = selector.SubmitMerge(ctx, source, target)
		case services.OpSubtract:
			from, okF := formInt(e, "from_id")
			what, okW := formInt(e, "subtract_id")
			if !okF || !okW {
				result = selector.ShowResult(false, "", services.MsgSubtractErr)
				break
			}
			result = selector.SubmitSubtract(ctx, from, what)
		default:
			return ErrorToast(e, http.StatusBadRequest, "Unknown operation")
		}

		return templates.ResultMessage(result, false).Render(ctx, e.Response)
	}
}

func jsonError(e *core.RequestEvent, status int, msg string) error {
	return e.JSON(status, map[string]string{"error": msg})
}

// HandleOrdersListJSON returns every order as {id, description}, newest first.
func HandleOrdersListJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		refs, err := services.NewOrderStore(app).ListOrders(e.Request.Context())
		if err != nil {
			log.Printf("order_operations: HandleOrdersListJSON: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not list orders")
		}
		return e.JSON(http.StatusOK, refs)
	}
}

// HandleScaleJSON scales an order: {order_id, scale_factor}.
func HandleScaleJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.ScaleRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		res, err := services.NewOrderStore(app).Scale(e.Request.Context(), req)
		if err != nil {
			log.Printf("order_operations: HandleScaleJSON: %v", err)
			return jsonError(e, operationStatus(err), err.Error())
		}
		return e.JSON(http.StatusOK, res)
	}
}

// HandleMergeJSON merges two orders: {source_id, target_id, option?}.
func HandleMergeJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.MergeRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if !req.Option.Valid() {
			return jsonError(e, http.StatusBadRequest, "unknown merge option")
		}

		res, err := services.NewOrderStore(app).Merge(e.Request.Context(), req)
		if err != nil {
			log.Printf("order_operations: HandleMergeJSON: %v", err)
			return jsonError(e, operationStatus(err), err.Error())
		}
		return e.JSON(http.StatusOK, res)
	}
}

// HandleSubtractJSON subtracts one order from another: {from_id, subtract_id}.
func HandleSubtractJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.SubtractRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		res, err := services.NewOrderStore(app).Subtract(e.Request.Context(), req)
		if err != nil {
			log.Printf("order_operations: HandleSubtractJSON: %v", err)
			return jsonError(e, operationStatus(err), err.Error())
		}
		return e.JSON(http.StatusOK, res)
	}
}

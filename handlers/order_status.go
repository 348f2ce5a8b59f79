package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/services"
)

// HandleOrderSetReady marks an order ready for approval, or reverts it.
func HandleOrderSetReady(app *pocketbase.PocketBase, ready bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid order number")
		}

		err := services.NewOrderStore(app).SetReady(number, ready)
		if errors.Is(err, services.ErrOrderNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Order not found")
		}
		if err != nil {
			log.Printf("order_status: HandleOrderSetReady: #%d: %v", number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		msg := "Order ready for approval"
		if !ready {
			msg = "Order back in editing"
		}
		SetToast(e, ToastSuccess, msg)
		return redirect(e, fmt.Sprintf("/orders/%d/edit", number))
	}
}

// HandleOrderSetConfirmed approves an order, or revokes the approval. Only
// ready orders can be approved.
func HandleOrderSetConfirmed(app *pocketbase.PocketBase, confirmed bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid order number")
		}

		store := services.NewOrderStore(app)
		order, err := store.FindOrder(number)
		if errors.Is(err, services.ErrOrderNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Order not found")
		}
		if err != nil {
			log.Printf("order_status: HandleOrderSetConfirmed: #%d: %v", number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if confirmed && !order.Ready {
			return ErrorToast(e, http.StatusBadRequest, "Only orders ready for approval can be approved")
		}

		if err := store.SetConfirmed(number, confirmed); err != nil {
			log.Printf("order_status: HandleOrderSetConfirmed: #%d: %v", number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		msg := "Order approved"
		if !confirmed {
			msg = "Approval revoked"
		}
		SetToast(e, ToastSuccess, msg)
		return redirect(e, fmt.Sprintf("/orders/%d/edit", number))
	}
}

// HandleOrderDelete removes an order and its items.
func HandleOrderDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid order number")
		}

		err := services.NewOrderStore(app).DeleteOrder(number)
		if errors.Is(err, services.ErrOrderNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Order not found")
		}
		if err != nil {
			log.Printf("order_status: HandleOrderDelete: #%d: %v", number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("Order #%d deleted", number))
		return redirect(e, "/orders")
	}
}

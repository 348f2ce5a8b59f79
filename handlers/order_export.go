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

func loadOrderWithItems(app *pocketbase.PocketBase, number int) (services.Order, []services.OrderItem, error) {
	store := services.NewOrderStore(app)
	order, err := store.FindOrder(number)
	if err != nil {
		return services.Order{}, nil, err
	}
	items, err := store.Items(number)
	if err != nil {
		return services.Order{}, nil, err
	}
	return order, items, nil
}

// HandleOrderExportBOM downloads the order's bill of materials as xlsx.
func HandleOrderExportBOM(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Invalid order number")
		}

		order, items, err := loadOrderWithItems(app, number)
		if err != nil {
			log.Printf("order_export: bom: %v", err)
			if errors.Is(err, services.ErrOrderNotFound) {
				return e.String(http.StatusNotFound, "Order not found")
			}
			return e.String(http.StatusInternalServerError, "Could not load the order")
		}

		xlsxBytes, err := services.GenerateBOMExcel(order, items)
		if err != nil {
			log.Printf("order_export: bom: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.BOMFilename(order)))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleOrderExportPDF downloads the order sheet as PDF.
func HandleOrderExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number, ok := orderNumberParam(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Invalid order number")
		}

		order, items, err := loadOrderWithItems(app, number)
		if err != nil {
			log.Printf("order_export: pdf: %v", err)
			if errors.Is(err, services.ErrOrderNotFound) {
				return e.String(http.StatusNotFound, "Order not found")
			}
			return e.String(http.StatusInternalServerError, "Could not load the order")
		}

		pdfBytes, err := services.GenerateOrderPDF(order, items)
		if err != nil {
			log.Printf("order_export: pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.OrderPDFFilename(order)))
		e.Response.Write(pdfBytes)
		return nil
	}
}

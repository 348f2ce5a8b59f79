package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/cli"
	"ordertracker/collections"
	"ordertracker/handlers"
	"ordertracker/services"
)

func main() {
	app := pocketbase.New()

	app.RootCmd.AddCommand(cli.NewOpsCommand())

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.HeaderDataMiddleware(app))

		// ── Order pages ──────────────────────────────────────────
		se.Router.GET("/orders", handlers.HandleOrderList(app))
		se.Router.GET("/orders/new", handlers.HandleOrderNew(app))
		se.Router.POST("/orders/new/submit", handlers.HandleOrderCreate(app))
		se.Router.POST("/orders/new/upload-kicad-bom", handlers.HandleKiCadUpload(app))

		// ── Item rows ────────────────────────────────────────────
		se.Router.POST("/orders/rows", handlers.HandleAddItemRow(app))
		se.Router.DELETE("/orders/rows/{index}", handlers.HandleRemoveItemRow(app))

		// ── Order arithmetic (HTMX) ──────────────────────────────
		se.Router.GET("/orders/arithmetic", handlers.HandleOperationsPage(app))
		se.Router.GET("/orders/arithmetic/form", handlers.HandleOperationForm(app))
		se.Router.POST("/orders/arithmetic/scale", handlers.HandleOperationSubmit(app, services.OpScale))
		se.Router.POST("/orders/arithmetic/merge", handlers.HandleOperationSubmit(app, services.OpMerge))
		se.Router.POST("/orders/arithmetic/subtract", handlers.HandleOperationSubmit(app, services.OpSubtract))

		// ── Order JSON API ───────────────────────────────────────
		se.Router.GET("/orders/list", handlers.HandleOrdersListJSON(app))
		se.Router.POST("/orders/scale", handlers.HandleScaleJSON(app))
		se.Router.POST("/orders/merge", handlers.HandleMergeJSON(app))
		se.Router.POST("/orders/subtract", handlers.HandleSubtractJSON(app))

		// ── Single order (after the fixed /orders/* routes) ─────
		se.Router.GET("/orders/{id}/edit", handlers.HandleOrderEdit(app))
		se.Router.POST("/orders/{id}/edit/submit", handlers.HandleOrderUpdate(app))
		se.Router.POST("/orders/{id}/edit/bulk-add", handlers.HandleOrderBulkAdd(app))
		se.Router.POST("/orders/{id}/ready", handlers.HandleOrderSetReady(app, true))
		se.Router.POST("/orders/{id}/unready", handlers.HandleOrderSetReady(app, false))
		se.Router.POST("/orders/{id}/confirm", handlers.HandleOrderSetConfirmed(app, true))
		se.Router.POST("/orders/{id}/unconfirm", handlers.HandleOrderSetConfirmed(app, false))
		se.Router.POST("/orders/{id}/delete", handlers.HandleOrderDelete(app))
		se.Router.GET("/orders/{id}/export/bom", handlers.HandleOrderExportBOM(app))
		se.Router.GET("/orders/{id}/export/pdf", handlers.HandleOrderExportPDF(app))

		// Redirect home to the orders list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/orders")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

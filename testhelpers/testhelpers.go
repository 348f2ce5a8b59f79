// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ordertracker/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestOrder creates an order record with the given number and description.
func CreateTestOrder(t *testing.T, app *pocketbase.PocketBase, number int, description string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("orders")
	if err != nil {
		t.Fatalf("failed to find orders collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("number", number)
	record.Set("description", description)
	record.Set("area_division", "Elettronica")
	record.Set("area_sub_area", "Sensori")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test order: %v", err)
	}

	return record
}

// CreateTestOrderItem creates an order item linked to the given order record id.
func CreateTestOrderItem(t *testing.T, app *pocketbase.PocketBase, orderID, manufacturer, manufacturerPN string, quantity int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("order_items")
	if err != nil {
		t.Fatalf("failed to find order_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("order", orderID)
	record.Set("manufacturer", manufacturer)
	record.Set("manufacturer_pn", manufacturerPN)
	record.Set("quantity", quantity)
	record.Set("proposal", "Elettronica generale")
	record.Set("project", "Varie per lab")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test order item: %v", err)
	}

	return record
}

// ItemQuantities returns manufacturer_pn -> quantity for every item of an order.
func ItemQuantities(t *testing.T, app *pocketbase.PocketBase, orderID string) map[string]int {
	t.Helper()

	records, err := app.FindRecordsByFilter(
		"order_items",
		"order = {:orderId}",
		"",
		0,
		0,
		map[string]any{"orderId": orderID},
	)
	if err != nil {
		t.Fatalf("failed to query order_items: %v", err)
	}

	out := make(map[string]int, len(records))
	for _, rec := range records {
		out[rec.GetString("manufacturer_pn")] = rec.GetInt("quantity")
	}
	return out
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the specified fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

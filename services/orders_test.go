package services

import (
	"context"
	"errors"
	"testing"

	"ordertracker/testhelpers"
)

func TestOrderRef_Label(t *testing.T) {
	tests := []struct {
		ref  OrderRef
		want string
	}{
		{OrderRef{ID: 1, Description: "A"}, "#1 - A"},
		{OrderRef{ID: 2}, "#2 - Untitled"},
		{OrderRef{ID: 3, Description: "   "}, "#3 - Untitled"},
	}
	for _, tt := range tests {
		if got := tt.ref.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestOrder_Status(t *testing.T) {
	if got := (Order{}).Status(); got != StatusIncomplete {
		t.Errorf("open order status = %q", got)
	}
	if got := (Order{Ready: true}).Status(); got != StatusAwaiting {
		t.Errorf("ready order status = %q", got)
	}
	if got := (Order{Ready: true, Confirmed: true}).Status(); got != StatusDone {
		t.Errorf("confirmed order status = %q", got)
	}
}

func TestOrderStore_CreateOrderNumbersAndMergesParts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := NewOrderStore(app)

	first, err := store.CreateOrder(OrderHeader{Description: "First"}, []LineItem{
		{Manufacturer: "TI", ManufacturerPN: "LM317", Quantity: 2},
		{Manufacturer: "TI", ManufacturerPN: "LM317", Quantity: 3},
		{Manufacturer: "ST", ManufacturerPN: "L7805", Quantity: 0},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if first.Number != 1 {
		t.Errorf("first order number = %d, want 1", first.Number)
	}

	qty := testhelpers.ItemQuantities(t, app, first.RecordID)
	if len(qty) != 1 || qty["LM317"] != 5 {
		t.Errorf("items = %v, want LM317:5 only", qty)
	}

	second, err := store.CreateOrder(OrderHeader{Description: "Second"}, nil)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if second.Number != 2 {
		t.Errorf("second order number = %d, want 2", second.Number)
	}
}

func TestOrderStore_ListOrdersNewestFirst(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOrder(t, app, 1, "A")
	testhelpers.CreateTestOrder(t, app, 2, "")

	refs, err := NewOrderStore(app).ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("refs = %d, want 2", len(refs))
	}
	if refs[0].Label() != "#2 - Untitled" || refs[1].Label() != "#1 - A" {
		t.Errorf("labels = %q, %q", refs[0].Label(), refs[1].Label())
	}
}

func TestOrderStore_FindOrderNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := NewOrderStore(app).FindOrder(42)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderStore_LookupFailuresAreNotMisses(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	order := testhelpers.CreateTestOrder(t, app, 1, "A")

	// Dropping the filtered fields makes every lookup fail with a query error.
	items, err := app.FindCollectionByNameOrId("order_items")
	if err != nil {
		t.Fatalf("find order_items: %v", err)
	}
	items.Fields.RemoveByName("manufacturer_pn")
	if err := app.Save(items); err != nil {
		t.Fatalf("save order_items: %v", err)
	}
	orders, err := app.FindCollectionByNameOrId("orders")
	if err != nil {
		t.Fatalf("find orders: %v", err)
	}
	orders.RemoveIndex("idx_orders_number")
	orders.Fields.RemoveByName("number")
	if err := app.Save(orders); err != nil {
		t.Fatalf("save orders: %v", err)
	}

	item, err := findItemByPart(app, order.Id, "TI", "LM317")
	if err == nil || item != nil {
		t.Errorf("findItemByPart = %v, %v; want a lookup error", item, err)
	}

	_, err = NewOrderStore(app).FindOrder(1)
	if err == nil {
		t.Fatal("expected a query error")
	}
	if errors.Is(err, ErrOrderNotFound) {
		t.Errorf("lookup failure reported as ErrOrderNotFound: %v", err)
	}
}

func TestOrderStore_ReplaceOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	order := testhelpers.CreateTestOrder(t, app, 1, "Old")
	testhelpers.CreateTestOrderItem(t, app, order.Id, "TI", "LM317", 2)
	testhelpers.CreateTestOrderItem(t, app, order.Id, "ST", "L7805", 4)

	store := NewOrderStore(app)
	err := store.ReplaceOrder(1, OrderHeader{Description: "New", AreaDivision: "Meccanica"}, []LineItem{
		{Manufacturer: "Murata", ManufacturerPN: "GRM188", Quantity: 7},
	})
	if err != nil {
		t.Fatalf("ReplaceOrder() error = %v", err)
	}

	got, err := store.FindOrder(1)
	if err != nil {
		t.Fatalf("FindOrder() error = %v", err)
	}
	if got.Description != "New" || got.AreaDivision != "Meccanica" {
		t.Errorf("header not replaced: %+v", got)
	}
	qty := testhelpers.ItemQuantities(t, app, order.Id)
	if len(qty) != 1 || qty["GRM188"] != 7 {
		t.Errorf("items = %v, want GRM188:7 only", qty)
	}
}

func TestOrderStore_FlagsAndDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	order := testhelpers.CreateTestOrder(t, app, 1, "Flags")
	testhelpers.CreateTestOrderItem(t, app, order.Id, "TI", "LM317", 2)
	store := NewOrderStore(app)

	if err := store.SetReady(1, true); err != nil {
		t.Fatalf("SetReady() error = %v", err)
	}
	if err := store.SetConfirmed(1, true); err != nil {
		t.Fatalf("SetConfirmed() error = %v", err)
	}
	got, _ := store.FindOrder(1)
	if !got.Ready || !got.Confirmed {
		t.Errorf("flags not saved: %+v", got)
	}

	if err := store.DeleteOrder(1); err != nil {
		t.Fatalf("DeleteOrder() error = %v", err)
	}
	if _, err := store.FindOrder(1); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("order still present after delete: %v", err)
	}
	if qty := testhelpers.ItemQuantities(t, app, order.Id); len(qty) != 0 {
		t.Errorf("items survived order delete: %v", qty)
	}
}

func TestOrderStore_FilteredOrders(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOrder(t, app, 1, "Open")
	testhelpers.CreateTestOrder(t, app, 2, "Ready")
	testhelpers.CreateTestOrder(t, app, 3, "Approved")
	store := NewOrderStore(app)
	store.SetReady(2, true)
	store.SetReady(3, true)
	store.SetConfirmed(3, true)

	tests := []struct {
		filter OrderFilter
		want   []int
	}{
		{FilterAll, []int{3, 2, 1}},
		{FilterOpen, []int{1}},
		{FilterReady, []int{3, 2}},
		{FilterConfirmed, []int{3}},
	}
	for _, tt := range tests {
		orders, err := store.FilteredOrders(context.Background(), tt.filter)
		if err != nil {
			t.Fatalf("FilteredOrders(%q) error = %v", tt.filter, err)
		}
		var got []int
		for _, o := range orders {
			got = append(got, o.Number)
		}
		if len(got) != len(tt.want) {
			t.Errorf("FilteredOrders(%q) = %v, want %v", tt.filter, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("FilteredOrders(%q) = %v, want %v", tt.filter, got, tt.want)
				break
			}
		}
	}
}

func TestParseOrderFilter(t *testing.T) {
	for _, s := range []string{"", "open", "ready", "confirmed"} {
		if f, ok := ParseOrderFilter(s); !ok || string(f) != s {
			t.Errorf("ParseOrderFilter(%q) = %q, %v", s, f, ok)
		}
	}
	if _, ok := ParseOrderFilter("archived"); ok {
		t.Error("archived accepted")
	}
}

func TestOrderStore_AddItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	order := testhelpers.CreateTestOrder(t, app, 1, "Keep header")
	testhelpers.CreateTestOrderItem(t, app, order.Id, "TI", "LM317", 2)
	store := NewOrderStore(app)

	err := store.AddItems(1, []LineItem{
		{Manufacturer: "TI", ManufacturerPN: "LM317", Quantity: 3, Proposal: DefaultProposal, Project: DefaultProject},
		{Manufacturer: "Murata", ManufacturerPN: "GRM188", Quantity: 10, Proposal: DefaultProposal, Project: DefaultProject},
	})
	if err != nil {
		t.Fatalf("AddItems() error = %v", err)
	}

	qty := testhelpers.ItemQuantities(t, app, order.Id)
	if len(qty) != 2 || qty["LM317"] != 5 || qty["GRM188"] != 10 {
		t.Errorf("items = %v, want LM317:5 GRM188:10", qty)
	}
	got, _ := store.FindOrder(1)
	if got.Description != "Keep header" {
		t.Errorf("description = %q", got.Description)
	}

	if err := store.AddItems(9, nil); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown order: err = %v", err)
	}
}

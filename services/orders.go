package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

var (
	// ErrOrderNotFound is returned when no order carries the requested number.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSameOrder is returned when an operation names the same order twice.
	ErrSameOrder = errors.New("select two different orders")
	// ErrInvalidScaleFactor is returned for scale factors that are not > 0.
	ErrInvalidScaleFactor = errors.New("scale factor must be a finite number greater than zero")
	// ErrQuantityOutOfRange is returned when scaling would push a quantity
	// past MaxQuantity.
	ErrQuantityOutOfRange = errors.New("scaled quantity out of range")
)

// Order status labels shown on list and edit pages.
const (
	StatusDone       = "All done! ✅"
	StatusAwaiting   = "Waiting for approval ..."
	StatusIncomplete = "To be completed ..."
)

// OrderRef is the listing shape of an order: what the operation sub-forms
// need to build their selectable options.
type OrderRef struct {
	ID          int    `json:"id"`
	Description string `json:"description,omitempty"`
}

// Label returns the option text, e.g. "#2 - Untitled".
func (o OrderRef) Label() string {
	desc := strings.TrimSpace(o.Description)
	if desc == "" {
		desc = "Untitled"
	}
	return fmt.Sprintf("#%d - %s", o.ID, desc)
}

// OrderHeader holds the non-item fields of an order form.
type OrderHeader struct {
	Description  string
	AreaDivision string
	AreaSubArea  string
}

// Order is a stored order without its items.
type Order struct {
	RecordID     string
	Number       int
	Description  string
	AreaDivision string
	AreaSubArea  string
	Ready        bool
	Confirmed    bool
	Date         string
}

// Status returns the human readable workflow state of the order.
func (o Order) Status() string {
	switch {
	case o.Confirmed:
		return StatusDone
	case o.Ready:
		return StatusAwaiting
	default:
		return StatusIncomplete
	}
}

// StatusClass returns the CSS modifier matching Status.
func (o Order) StatusClass() string {
	switch {
	case o.Confirmed:
		return "status-confirmed"
	case o.Ready:
		return "status-ready"
	default:
		return "status-open"
	}
}

// OrderItem is one stored line of an order.
type OrderItem struct {
	RecordID string
	LineItem
	MouserPN  string
	DigikeyPN string
}

// OrderStore reads and writes orders and their items through PocketBase.
type OrderStore struct {
	app core.App
}

// NewOrderStore returns a store bound to the given app.
func NewOrderStore(app core.App) *OrderStore {
	return &OrderStore{app: app}
}

func orderFromRecord(rec *core.Record) Order {
	o := Order{
		RecordID:     rec.Id,
		Number:       rec.GetInt("number"),
		Description:  rec.GetString("description"),
		AreaDivision: rec.GetString("area_division"),
		AreaSubArea:  rec.GetString("area_sub_area"),
		Ready:        rec.GetBool("ready"),
		Confirmed:    rec.GetBool("confirmed"),
	}
	if created := rec.GetDateTime("created"); !created.IsZero() {
		o.Date = created.Time().Format("02/01/2006")
	}
	return o
}

func itemFromRecord(rec *core.Record) OrderItem {
	return OrderItem{
		RecordID: rec.Id,
		LineItem: LineItem{
			Proposal:       rec.GetString("proposal"),
			Project:        rec.GetString("project"),
			Manufacturer:   rec.GetString("manufacturer"),
			ManufacturerPN: rec.GetString("manufacturer_pn"),
			Quantity:       rec.GetInt("quantity"),
		},
		MouserPN:  rec.GetString("mouser_pn"),
		DigikeyPN: rec.GetString("digikey_pn"),
	}
}

func findOrderRecord(app core.App, number int) (*core.Record, error) {
	rec, err := app.FindFirstRecordByFilter(
		"orders",
		"number = {:number}",
		map[string]any{"number": number},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order #%d: %w", number, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find order #%d: %w", number, err)
	}
	return rec, nil
}

func findItemRecords(app core.App, orderRecordID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"order_items",
		"order = {:orderId}",
		"created",
		0,
		0,
		map[string]any{"orderId": orderRecordID},
	)
	if err != nil {
		return nil, fmt.Errorf("query order_items for %s: %w", orderRecordID, err)
	}
	return records, nil
}

// nextOrderNumber returns one past the highest order number in use.
func nextOrderNumber(app core.App) int {
	existing, err := app.FindRecordsByFilter(
		"orders",
		"number > 0",
		"-number",
		1,
		0,
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("number") + 1
}

// ListOrders returns every order as an OrderRef, newest first.
func (s *OrderStore) ListOrders(ctx context.Context) ([]OrderRef, error) {
	orders, err := s.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]OrderRef, 0, len(orders))
	for _, o := range orders {
		refs = append(refs, OrderRef{ID: o.Number, Description: o.Description})
	}
	return refs, nil
}

// OrderFilter narrows the orders list to one workflow view.
type OrderFilter string

const (
	FilterAll OrderFilter = ""
	// FilterOpen lists orders still being edited.
	FilterOpen OrderFilter = "open"
	// FilterReady lists orders submitted for approval, approved ones included.
	FilterReady OrderFilter = "ready"
	// FilterConfirmed lists approved orders.
	FilterConfirmed OrderFilter = "confirmed"
)

// ParseOrderFilter validates the ?status= value of the orders list.
func ParseOrderFilter(s string) (OrderFilter, bool) {
	switch f := OrderFilter(strings.TrimSpace(s)); f {
	case FilterAll, FilterOpen, FilterReady, FilterConfirmed:
		return f, true
	}
	return FilterAll, false
}

func (f OrderFilter) expr() string {
	switch f {
	case FilterOpen:
		return "number > 0 && ready = false"
	case FilterReady:
		return "number > 0 && ready = true"
	case FilterConfirmed:
		return "number > 0 && confirmed = true"
	default:
		return "number > 0"
	}
}

// AllOrders returns every order, newest first.
func (s *OrderStore) AllOrders(ctx context.Context) ([]Order, error) {
	return s.FilteredOrders(ctx, FilterAll)
}

// FilteredOrders returns the orders matching f, newest first.
func (s *OrderStore) FilteredOrders(ctx context.Context, f OrderFilter) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.app.FindRecordsByFilter(
		"orders",
		f.expr(),
		"-number",
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders (%q): %w", f, err)
	}
	orders := make([]Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, orderFromRecord(rec))
	}
	return orders, nil
}

// FindOrder returns the order with the given number.
func (s *OrderStore) FindOrder(number int) (Order, error) {
	rec, err := findOrderRecord(s.app, number)
	if err != nil {
		return Order{}, err
	}
	return orderFromRecord(rec), nil
}

// Items returns the items of the order with the given number.
func (s *OrderStore) Items(number int) ([]OrderItem, error) {
	rec, err := findOrderRecord(s.app, number)
	if err != nil {
		return nil, err
	}
	records, err := findItemRecords(s.app, rec.Id)
	if err != nil {
		return nil, err
	}
	items := make([]OrderItem, 0, len(records))
	for _, r := range records {
		items = append(items, itemFromRecord(r))
	}
	return items, nil
}

// CreateOrder stores a new order with its items and returns it. Items that
// share manufacturer and part number are merged by summing quantities.
func (s *OrderStore) CreateOrder(header OrderHeader, items []LineItem) (Order, error) {
	var created Order
	err := s.app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("orders")
		if err != nil {
			return fmt.Errorf("find orders collection: %w", err)
		}

		record := core.NewRecord(col)
		record.Set("number", nextOrderNumber(txApp))
		applyHeader(record, header)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		for _, item := range items {
			if err := addItem(txApp, record.Id, item); err != nil {
				return err
			}
		}
		created = orderFromRecord(record)
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return created, nil
}

// ReplaceOrder overwrites the header and the full item list of an order,
// keeping its number and workflow flags.
func (s *OrderStore) ReplaceOrder(number int, header OrderHeader, items []LineItem) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		record, err := findOrderRecord(txApp, number)
		if err != nil {
			return err
		}
		applyHeader(record, header)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save order #%d: %w", number, err)
		}

		existing, err := findItemRecords(txApp, record.Id)
		if err != nil {
			return err
		}
		for _, rec := range existing {
			if err := txApp.Delete(rec); err != nil {
				return fmt.Errorf("delete item %s: %w", rec.Id, err)
			}
		}
		for _, item := range items {
			if err := addItem(txApp, record.Id, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddItems appends items to a stored order, summing quantities into rows
// for the same part. Header and existing rows are kept.
func (s *OrderStore) AddItems(number int, items []LineItem) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		record, err := findOrderRecord(txApp, number)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := addItem(txApp, record.Id, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteOrder removes an order; its items go with it through cascade delete.
func (s *OrderStore) DeleteOrder(number int) error {
	record, err := findOrderRecord(s.app, number)
	if err != nil {
		return err
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("delete order #%d: %w", number, err)
	}
	return nil
}

// SetReady marks an order as ready for approval (or reverts it).
func (s *OrderStore) SetReady(number int, ready bool) error {
	return s.setFlag(number, "ready", ready)
}

// SetConfirmed marks an order as approved (or reverts it).
func (s *OrderStore) SetConfirmed(number int, confirmed bool) error {
	return s.setFlag(number, "confirmed", confirmed)
}

func (s *OrderStore) setFlag(number int, field string, value bool) error {
	record, err := findOrderRecord(s.app, number)
	if err != nil {
		return err
	}
	record.Set(field, value)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("save order #%d %s: %w", number, field, err)
	}
	return nil
}

// OptionNames returns the "name" values of an option-source collection
// (proposals or projects) sorted alphabetically. Lookup failures yield nil.
func (s *OrderStore) OptionNames(collection string) []string {
	records, err := s.app.FindRecordsByFilter(collection, "name != ''", "name", 0, 0)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.GetString("name"))
	}
	return names
}

// Areas returns the distinct divisions and sub-areas offered on order forms.
func (s *OrderStore) Areas() (divisions []string, subAreas []string) {
	records, err := s.app.FindRecordsByFilter("areas", "division != ''", "division", 0, 0)
	if err != nil {
		return nil, nil
	}
	seenDiv := make(map[string]bool)
	seenSub := make(map[string]bool)
	for _, rec := range records {
		if d := rec.GetString("division"); !seenDiv[d] {
			seenDiv[d] = true
			divisions = append(divisions, d)
		}
		if sa := rec.GetString("sub_area"); !seenSub[sa] {
			seenSub[sa] = true
			subAreas = append(subAreas, sa)
		}
	}
	return divisions, subAreas
}

func applyHeader(record *core.Record, header OrderHeader) {
	record.Set("description", strings.TrimSpace(header.Description))
	record.Set("area_division", strings.TrimSpace(header.AreaDivision))
	record.Set("area_sub_area", strings.TrimSpace(header.AreaSubArea))
}

// findItemByPart returns the item of an order matching manufacturer and part
// number. A nil record with a nil error means no match.
func findItemByPart(app core.App, orderRecordID, manufacturer, manufacturerPN string) (*core.Record, error) {
	rec, err := app.FindFirstRecordByFilter(
		"order_items",
		"order = {:orderId} && manufacturer = {:man} && manufacturer_pn = {:pn}",
		map[string]any{
			"orderId": orderRecordID,
			"man":     manufacturer,
			"pn":      manufacturerPN,
		},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item %s/%s: %w", manufacturer, manufacturerPN, err)
	}
	return rec, nil
}

// addItem inserts an item into an order, or sums its quantity into an
// existing item for the same part. Non-positive quantities are skipped.
func addItem(app core.App, orderRecordID string, item LineItem) error {
	if item.Quantity <= 0 {
		return nil
	}
	existing, err := findItemByPart(app, orderRecordID, item.Manufacturer, item.ManufacturerPN)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Set("quantity", existing.GetInt("quantity")+item.Quantity)
		if err := app.Save(existing); err != nil {
			return fmt.Errorf("update item %s: %w", existing.Id, err)
		}
		return nil
	}

	col, err := app.FindCollectionByNameOrId("order_items")
	if err != nil {
		return fmt.Errorf("find order_items collection: %w", err)
	}
	record := core.NewRecord(col)
	record.Set("order", orderRecordID)
	record.Set("manufacturer", item.Manufacturer)
	record.Set("manufacturer_pn", item.ManufacturerPN)
	record.Set("quantity", item.Quantity)
	record.Set("proposal", item.Proposal)
	record.Set("project", item.Project)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save item %s/%s: %w", item.Manufacturer, item.ManufacturerPN, err)
	}
	return nil
}

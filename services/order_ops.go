package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// ScaleRequest is the body of POST /orders/scale.
type ScaleRequest struct {
	OrderID     int     `json:"order_id"`
	ScaleFactor float64 `json:"scale_factor"`
}

// MergeOption decides the quantity of an item present in both orders.
type MergeOption string

const (
	MergeKeepSource    MergeOption = "keep_source"
	MergeKeepTarget    MergeOption = "keep_target"
	MergeKeepHighest   MergeOption = "keep_highest"
	MergeKeepLowest    MergeOption = "keep_lowest"
	MergeAddQuantities MergeOption = "add_quantities"
)

// Resolve returns the merged quantity for an item found in both orders.
func (m MergeOption) Resolve(source, target int) int {
	switch m {
	case MergeKeepSource:
		return source
	case MergeKeepTarget:
		return target
	case MergeKeepHighest:
		return max(source, target)
	case MergeKeepLowest:
		return min(source, target)
	default:
		return source + target
	}
}

// Valid reports whether m is empty (default) or a known option.
func (m MergeOption) Valid() bool {
	switch m {
	case "", MergeKeepSource, MergeKeepTarget, MergeKeepHighest, MergeKeepLowest, MergeAddQuantities:
		return true
	}
	return false
}

// MergeRequest is the body of POST /orders/merge. Option is optional and
// defaults to adding quantities.
type MergeRequest struct {
	SourceID int         `json:"source_id"`
	TargetID int         `json:"target_id"`
	Option   MergeOption `json:"option,omitempty"`
}

// SubtractRequest is the body of POST /orders/subtract.
type SubtractRequest struct {
	FromID     int `json:"from_id"`
	SubtractID int `json:"subtract_id"`
}

// OperationResult is the success body of the three operation endpoints.
type OperationResult struct {
	Status      string `json:"status"`
	RowsUpdated int    `json:"rows_updated"`
}

func successResult(rows int) OperationResult {
	return OperationResult{Status: "success", RowsUpdated: rows}
}

// MaxQuantity is the largest quantity a scaled item may reach.
const MaxQuantity = math.MaxInt32

// ValidScaleFactor reports whether factor is a finite number above zero.
func ValidScaleFactor(factor float64) bool {
	return !math.IsNaN(factor) && !math.IsInf(factor, 0) && factor > 0
}

var maxQuantityDecimal = decimal.NewFromInt(MaxQuantity)

// ScaleQuantity multiplies a quantity by factor and rounds half away from zero.
func ScaleQuantity(quantity int, factor float64) (int, error) {
	if !ValidScaleFactor(factor) {
		return 0, ErrInvalidScaleFactor
	}
	scaled := decimal.NewFromInt(int64(quantity)).
		Mul(decimal.NewFromFloat(factor)).
		Round(0)
	if scaled.GreaterThan(maxQuantityDecimal) {
		return 0, fmt.Errorf("%d x %v: %w", quantity, factor, ErrQuantityOutOfRange)
	}
	return int(scaled.IntPart()), nil
}

// Scale multiplies every item quantity of an order by the scale factor.
// Items whose quantity rounds down to zero are removed.
func (s *OrderStore) Scale(ctx context.Context, req ScaleRequest) (OperationResult, error) {
	if err := ctx.Err(); err != nil {
		return OperationResult{}, err
	}
	if !ValidScaleFactor(req.ScaleFactor) {
		return OperationResult{}, ErrInvalidScaleFactor
	}

	rows := 0
	err := s.app.RunInTransaction(func(txApp core.App) error {
		order, err := findOrderRecord(txApp, req.OrderID)
		if err != nil {
			return err
		}
		items, err := findItemRecords(txApp, order.Id)
		if err != nil {
			return err
		}
		for _, item := range items {
			scaled, err := ScaleQuantity(item.GetInt("quantity"), req.ScaleFactor)
			if err != nil {
				return err
			}
			if err := setQuantity(txApp, item, scaled); err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}

	log.Printf("order_ops: Scale: scaled order #%d by factor %v, updated %d rows", req.OrderID, req.ScaleFactor, rows)
	return successResult(rows), nil
}

// Merge folds the items of the source order into the target order. Items
// only in the source are copied; items in both get Option's quantity. The
// source order is left unchanged.
func (s *OrderStore) Merge(ctx context.Context, req MergeRequest) (OperationResult, error) {
	if err := ctx.Err(); err != nil {
		return OperationResult{}, err
	}
	if req.SourceID == req.TargetID {
		return OperationResult{}, ErrSameOrder
	}
	if !req.Option.Valid() {
		return OperationResult{}, fmt.Errorf("unknown merge option %q", req.Option)
	}

	rows := 0
	err := s.app.RunInTransaction(func(txApp core.App) error {
		source, err := findOrderRecord(txApp, req.SourceID)
		if err != nil {
			return err
		}
		target, err := findOrderRecord(txApp, req.TargetID)
		if err != nil {
			return err
		}
		sourceItems, err := findItemRecords(txApp, source.Id)
		if err != nil {
			return err
		}

		for _, src := range sourceItems {
			item := itemFromRecord(src).LineItem
			existing, err := findItemByPart(txApp, target.Id, item.Manufacturer, item.ManufacturerPN)
			if err != nil {
				return err
			}
			if existing == nil {
				if err := addItem(txApp, target.Id, item); err != nil {
					return err
				}
				rows++
				continue
			}
			merged := req.Option.Resolve(item.Quantity, existing.GetInt("quantity"))
			if err := setQuantity(txApp, existing, merged); err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}

	log.Printf("order_ops: Merge: merged order #%d into #%d, updated %d rows", req.SourceID, req.TargetID, rows)
	return successResult(rows), nil
}

// Subtract lowers the quantities of the "from" order by those of the
// matching items in the "subtract" order. Items reaching zero are removed;
// items with no match are left untouched.
func (s *OrderStore) Subtract(ctx context.Context, req SubtractRequest) (OperationResult, error) {
	if err := ctx.Err(); err != nil {
		return OperationResult{}, err
	}
	if req.FromID == req.SubtractID {
		return OperationResult{}, ErrSameOrder
	}

	rows := 0
	err := s.app.RunInTransaction(func(txApp core.App) error {
		from, err := findOrderRecord(txApp, req.FromID)
		if err != nil {
			return err
		}
		what, err := findOrderRecord(txApp, req.SubtractID)
		if err != nil {
			return err
		}
		subtractItems, err := findItemRecords(txApp, what.Id)
		if err != nil {
			return err
		}

		for _, sub := range subtractItems {
			existing, err := findItemByPart(txApp, from.Id, sub.GetString("manufacturer"), sub.GetString("manufacturer_pn"))
			if err != nil {
				return err
			}
			if existing == nil {
				continue
			}
			remaining := existing.GetInt("quantity") - sub.GetInt("quantity")
			if err := setQuantity(txApp, existing, remaining); err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}

	log.Printf("order_ops: Subtract: subtracted order #%d from #%d, updated %d rows", req.SubtractID, req.FromID, rows)
	return successResult(rows), nil
}

// setQuantity saves a new quantity on an item, deleting it when the
// quantity is no longer positive.
func setQuantity(app core.App, item *core.Record, quantity int) error {
	if quantity <= 0 {
		if err := app.Delete(item); err != nil {
			return fmt.Errorf("delete item %s: %w", item.Id, err)
		}
		return nil
	}
	item.Set("quantity", quantity)
	if err := app.Save(item); err != nil {
		return fmt.Errorf("update item %s: %w", item.Id, err)
	}
	return nil
}

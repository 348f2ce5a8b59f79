package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"ordertracker/testhelpers"
)

func TestScaleQuantity(t *testing.T) {
	tests := []struct {
		qty    int
		factor float64
		want   int
	}{
		{10, 1.5, 15},
		{3, 0.5, 2}, // 1.5 rounds away from zero
		{5, 0.1, 1}, // 0.5 rounds away from zero
		{1, 0.4, 0},
		{7, 1, 7},
		{4, 2.25, 9},
	}
	for _, tt := range tests {
		got, err := ScaleQuantity(tt.qty, tt.factor)
		if err != nil {
			t.Errorf("ScaleQuantity(%d, %v) error = %v", tt.qty, tt.factor, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ScaleQuantity(%d, %v) = %d, want %d", tt.qty, tt.factor, got, tt.want)
		}
	}
}

func TestScaleQuantity_RejectsNonFiniteAndOverflow(t *testing.T) {
	for _, factor := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ScaleQuantity(4, factor); !errors.Is(err, ErrInvalidScaleFactor) {
			t.Errorf("ScaleQuantity(4, %v) err = %v, want ErrInvalidScaleFactor", factor, err)
		}
	}
	if got, err := ScaleQuantity(4, 1e19); !errors.Is(err, ErrQuantityOutOfRange) {
		t.Errorf("ScaleQuantity(4, 1e19) = %d, %v; want ErrQuantityOutOfRange", got, err)
	}
	if got, err := ScaleQuantity(MaxQuantity, 1); err != nil || got != MaxQuantity {
		t.Errorf("ScaleQuantity(MaxQuantity, 1) = %d, %v", got, err)
	}
}

func TestMergeOption_Resolve(t *testing.T) {
	tests := []struct {
		opt  MergeOption
		want int
	}{
		{MergeKeepSource, 3},
		{MergeKeepTarget, 5},
		{MergeKeepHighest, 5},
		{MergeKeepLowest, 3},
		{MergeAddQuantities, 8},
		{"", 8},
	}
	for _, tt := range tests {
		if got := tt.opt.Resolve(3, 5); got != tt.want {
			t.Errorf("%q.Resolve(3, 5) = %d, want %d", tt.opt, got, tt.want)
		}
	}
	if MergeOption("bogus").Valid() {
		t.Error("bogus option reported valid")
	}
}

func TestOrderStore_Scale(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	order := testhelpers.CreateTestOrder(t, app, 1, "Scale me")
	testhelpers.CreateTestOrderItem(t, app, order.Id, "TI", "LM317", 10)
	testhelpers.CreateTestOrderItem(t, app, order.Id, "ST", "L7805", 1)

	res, err := NewOrderStore(app).Scale(context.Background(), ScaleRequest{OrderID: 1, ScaleFactor: 0.4})
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if res.Status != "success" || res.RowsUpdated != 2 {
		t.Errorf("result = %+v", res)
	}
	qty := testhelpers.ItemQuantities(t, app, order.Id)
	if qty["LM317"] != 4 {
		t.Errorf("LM317 = %d, want 4", qty["LM317"])
	}
	if _, ok := qty["L7805"]; ok {
		t.Error("L7805 should be removed after rounding to zero")
	}
}

func TestOrderStore_ScaleRejectsBadInput(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	order := testhelpers.CreateTestOrder(t, app, 1, "X")
	testhelpers.CreateTestOrderItem(t, app, order.Id, "TI", "LM317", 4)
	store := NewOrderStore(app)

	for _, factor := range []float64{0, math.NaN(), math.Inf(1)} {
		if _, err := store.Scale(context.Background(), ScaleRequest{OrderID: 1, ScaleFactor: factor}); !errors.Is(err, ErrInvalidScaleFactor) {
			t.Errorf("factor %v: err = %v", factor, err)
		}
	}
	if _, err := store.Scale(context.Background(), ScaleRequest{OrderID: 1, ScaleFactor: 1e19}); !errors.Is(err, ErrQuantityOutOfRange) {
		t.Errorf("factor 1e19: err = %v", err)
	}
	if got := testhelpers.ItemQuantities(t, app, order.Id)["LM317"]; got != 4 {
		t.Errorf("LM317 = %d after rejected scale, want 4", got)
	}
	if _, err := store.Scale(context.Background(), ScaleRequest{OrderID: 9, ScaleFactor: 2}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown order: err = %v", err)
	}
}

func TestOrderStore_Merge(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	src := testhelpers.CreateTestOrder(t, app, 1, "Source")
	dst := testhelpers.CreateTestOrder(t, app, 2, "Target")
	testhelpers.CreateTestOrderItem(t, app, src.Id, "TI", "LM317", 3)
	testhelpers.CreateTestOrderItem(t, app, src.Id, "Murata", "GRM188", 2)
	testhelpers.CreateTestOrderItem(t, app, dst.Id, "TI", "LM317", 5)

	res, err := NewOrderStore(app).Merge(context.Background(), MergeRequest{SourceID: 1, TargetID: 2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if res.RowsUpdated != 2 {
		t.Errorf("rows = %d, want 2", res.RowsUpdated)
	}

	target := testhelpers.ItemQuantities(t, app, dst.Id)
	if target["LM317"] != 8 || target["GRM188"] != 2 {
		t.Errorf("target = %v, want LM317:8 GRM188:2", target)
	}
	source := testhelpers.ItemQuantities(t, app, src.Id)
	if source["LM317"] != 3 || source["GRM188"] != 2 {
		t.Errorf("source changed: %v", source)
	}
}

func TestOrderStore_MergeKeepHighest(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	src := testhelpers.CreateTestOrder(t, app, 1, "Source")
	dst := testhelpers.CreateTestOrder(t, app, 2, "Target")
	testhelpers.CreateTestOrderItem(t, app, src.Id, "TI", "LM317", 9)
	testhelpers.CreateTestOrderItem(t, app, dst.Id, "TI", "LM317", 5)

	_, err := NewOrderStore(app).Merge(context.Background(), MergeRequest{SourceID: 1, TargetID: 2, Option: MergeKeepHighest})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got := testhelpers.ItemQuantities(t, app, dst.Id)["LM317"]; got != 9 {
		t.Errorf("LM317 = %d, want 9", got)
	}
}

func TestOrderStore_MergeSameOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOrder(t, app, 1, "Only")

	_, err := NewOrderStore(app).Merge(context.Background(), MergeRequest{SourceID: 1, TargetID: 1})
	if !errors.Is(err, ErrSameOrder) {
		t.Errorf("err = %v, want ErrSameOrder", err)
	}
}

func TestOrderStore_Subtract(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	from := testhelpers.CreateTestOrder(t, app, 1, "From")
	what := testhelpers.CreateTestOrder(t, app, 2, "What")
	testhelpers.CreateTestOrderItem(t, app, from.Id, "TI", "LM317", 10)
	testhelpers.CreateTestOrderItem(t, app, from.Id, "ST", "L7805", 2)
	testhelpers.CreateTestOrderItem(t, app, from.Id, "Murata", "GRM188", 4)
	testhelpers.CreateTestOrderItem(t, app, what.Id, "TI", "LM317", 3)
	testhelpers.CreateTestOrderItem(t, app, what.Id, "ST", "L7805", 5)
	testhelpers.CreateTestOrderItem(t, app, what.Id, "Bourns", "PTV09", 1)

	res, err := NewOrderStore(app).Subtract(context.Background(), SubtractRequest{FromID: 1, SubtractID: 2})
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	if res.RowsUpdated != 2 {
		t.Errorf("rows = %d, want 2", res.RowsUpdated)
	}

	qty := testhelpers.ItemQuantities(t, app, from.Id)
	if qty["LM317"] != 7 {
		t.Errorf("LM317 = %d, want 7", qty["LM317"])
	}
	if _, ok := qty["L7805"]; ok {
		t.Error("L7805 should be removed when it reaches zero")
	}
	if qty["GRM188"] != 4 {
		t.Errorf("GRM188 = %d, want 4 (untouched)", qty["GRM188"])
	}
	if _, ok := qty["PTV09"]; ok {
		t.Error("items only in the subtracted order must not be added")
	}
}

func TestOrderStore_SubtractUnknownOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOrder(t, app, 1, "From")

	_, err := NewOrderStore(app).Subtract(context.Background(), SubtractRequest{FromID: 1, SubtractID: 3})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

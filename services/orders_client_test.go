package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOrdersClient_ListOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/orders/list" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"description":"A"},{"id":2}]`))
	}))
	defer srv.Close()

	orders, err := NewOrdersClient(srv.URL+"/", nil).ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(orders) != 2 || orders[1].Label() != "#2 - Untitled" {
		t.Errorf("orders = %+v", orders)
	}
}

func TestOrdersClient_ScaleSendsJSON(t *testing.T) {
	var got ScaleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/scale" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"success","rows_updated":3}`))
	}))
	defer srv.Close()

	res, err := NewOrdersClient(srv.URL, nil).Scale(context.Background(), ScaleRequest{OrderID: 7, ScaleFactor: 2})
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if got.OrderID != 7 || got.ScaleFactor != 2 {
		t.Errorf("request body = %+v", got)
	}
	if res.RowsUpdated != 3 {
		t.Errorf("rows = %d, want 3", res.RowsUpdated)
	}
}

func TestOrdersClient_MergeAndSubtractBodies(t *testing.T) {
	bodies := map[string]map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		json.NewDecoder(r.Body).Decode(&m)
		bodies[r.URL.Path] = m
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewOrdersClient(srv.URL, nil)
	if _, err := c.Merge(context.Background(), MergeRequest{SourceID: 1, TargetID: 2}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if _, err := c.Subtract(context.Background(), SubtractRequest{FromID: 3, SubtractID: 4}); err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}

	merge := bodies["/orders/merge"]
	if merge["source_id"] != float64(1) || merge["target_id"] != float64(2) {
		t.Errorf("merge body = %v", merge)
	}
	if _, ok := merge["option"]; ok {
		t.Errorf("empty option should be omitted: %v", merge)
	}
	sub := bodies["/orders/subtract"]
	if sub["from_id"] != float64(3) || sub["subtract_id"] != float64(4) {
		t.Errorf("subtract body = %v", sub)
	}
}

func TestOrdersClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"order not found"}`))
	}))
	defer srv.Close()

	_, err := NewOrdersClient(srv.URL, nil).Scale(context.Background(), ScaleRequest{OrderID: 9, ScaleFactor: 1})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Endpoint != "/orders/scale" {
		t.Errorf("status error = %+v", se)
	}
}

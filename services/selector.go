package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Operation names one of the order-combination operations.
type Operation string

const (
	OpNone     Operation = ""
	OpScale    Operation = "scale"
	OpMerge    Operation = "merge"
	OpSubtract Operation = "subtract"
)

// Operations lists the selectable operations in menu order.
var Operations = []Operation{OpScale, OpMerge, OpSubtract}

// ErrUnknownOperation is returned by Refresh for unsupported operation names.
var ErrUnknownOperation = errors.New("unknown operation")

// ParseOperation validates an operation name coming from a request.
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OpNone, OpScale, OpMerge, OpSubtract:
		return op, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Result messages shown in the result area.
const (
	MsgScaleOK       = "Order scaled successfully!"
	MsgScaleErr      = "Error scaling order."
	MsgMergeOK       = "Orders merged successfully!"
	MsgMergeErr      = "Error merging orders."
	MsgSubtractOK    = "Orders subtracted successfully!"
	MsgSubtractErr   = "Error subtracting orders."
	MsgDifferentPair = "Select two different orders."
)

// OrderBackend is what the operation selector talks to: the order listing
// and the three operation endpoints.
type OrderBackend interface {
	ListOrders(ctx context.Context) ([]OrderRef, error)
	Scale(ctx context.Context, req ScaleRequest) (OperationResult, error)
	Merge(ctx context.Context, req MergeRequest) (OperationResult, error)
	Subtract(ctx context.Context, req SubtractRequest) (OperationResult, error)
}

// Result is the content of the result message area. The zero value is an
// empty area.
type Result struct {
	Shown   bool
	Success bool
	Text    string
}

// Class returns the CSS classes of the result area.
func (r Result) Class() string {
	if !r.Shown {
		return "result-message"
	}
	if r.Success {
		return "result-message success"
	}
	return "result-message error"
}

// Selector renders one of the scale/merge/subtract sub-forms and submits
// them. Each refresh takes a generation token; a listing that resolves after
// a newer refresh started is discarded.
type Selector struct {
	backend OrderBackend

	mu         sync.Mutex
	generation uint64
	op         Operation
	orders     []OrderRef
	result     Result
}

// NewSelector returns an idle selector bound to backend.
func NewSelector(backend OrderBackend) *Selector {
	return &Selector{backend: backend}
}

// Refresh switches to the sub-form of op. The result area is cleared and the
// order list refetched; a failed listing degrades to an empty list. An empty
// op returns the selector to idle without fetching. It reports whether this
// refresh was still the latest one when its listing arrived.
func (s *Selector) Refresh(ctx context.Context, op Operation) (bool, error) {
	if _, err := ParseOperation(string(op)); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.result = Result{}
	if op == OpNone {
		s.op = OpNone
		s.orders = nil
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		log.Printf("selector: Refresh: listing orders failed, using empty list: %v", err)
		orders = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false, nil
	}
	s.op = op
	s.orders = orders
	return true, nil
}

// State returns the active sub-form, OpNone when idle.
func (s *Selector) State() Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.op
}

// Orders returns the order options of the active sub-form.
func (s *Selector) Orders() []OrderRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OrderRef, len(s.orders))
	copy(out, s.orders)
	return out
}

// Result returns the current content of the result area.
func (s *Selector) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// ShowResult sets the result area to a ✅-prefixed success message or a
// ❌-prefixed error message.
func (s *Selector) ShowResult(success bool, successMsg, errorMsg string) Result {
	r := Result{Shown: true, Success: success}
	if success {
		r.Text = "✅ " + successMsg
	} else {
		r.Text = "❌ " + errorMsg
	}
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
	return r
}

// SubmitScale asks the backend to scale an order.
func (s *Selector) SubmitScale(ctx context.Context, orderID int, factor float64) Result {
	_, err := s.backend.Scale(ctx, ScaleRequest{OrderID: orderID, ScaleFactor: factor})
	if err != nil {
		log.Printf("selector: SubmitScale: order #%d factor %v: %v", orderID, factor, err)
	}
	return s.ShowResult(err == nil, MsgScaleOK, MsgScaleErr)
}

// SubmitMerge asks the backend to merge source into target. Equal ids are
// rejected without calling the backend.
func (s *Selector) SubmitMerge(ctx context.Context, source, target int) Result {
	if source == target {
		return s.ShowResult(false, "", MsgDifferentPair)
	}
	_, err := s.backend.Merge(ctx, MergeRequest{SourceID: source, TargetID: target})
	if err != nil {
		log.Printf("selector: SubmitMerge: #%d into #%d: %v", source, target, err)
	}
	return s.ShowResult(err == nil, MsgMergeOK, MsgMergeErr)
}

// SubmitSubtract asks the backend to subtract one order from another. Equal
// ids are rejected without calling the backend.
func (s *Selector) SubmitSubtract(ctx context.Context, from, what int) Result {
	if from == what {
		return s.ShowResult(false, "", MsgDifferentPair)
	}
	_, err := s.backend.Subtract(ctx, SubtractRequest{FromID: from, SubtractID: what})
	if err != nil {
		log.Printf("selector: SubmitSubtract: #%d from #%d: %v", what, from, err)
	}
	return s.ShowResult(err == nil, MsgSubtractOK, MsgSubtractErr)
}

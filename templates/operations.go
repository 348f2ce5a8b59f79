package templates

import (
	"context"

	"github.com/a-h/templ"

	"ordertracker/services"
)

var operationLabels = map[services.Operation]string{
	services.OpScale:    "Scale order",
	services.OpMerge:    "Merge orders",
	services.OpSubtract: "Subtract orders",
}

// OperationsContent renders the operation selector, the empty sub-form slot
// and the result area.
func OperationsContent() templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section id="order-arithmetic"><h1>Order arithmetic</h1>`)
		hw.raw(`<div class="field"><label for="operation">Operation</label>`)
		hw.raw(`<select id="operation" name="operation" hx-get="/orders/arithmetic/form" hx-trigger="change" hx-target="#operation-form" hx-sync="this:replace">`)
		hw.raw(`<option value="">-- Select operation --</option>`)
		for _, op := range services.Operations {
			hw.raw(`<option`)
			hw.attr("value", string(op))
			hw.raw(`>`)
			hw.text(operationLabels[op])
			hw.raw(`</option>`)
		}
		hw.raw(`</select></div>`)
		hw.raw(`<div id="operation-form"></div>`)
		hw.render(ctx, ResultMessage(services.Result{}, false))
		hw.raw(`</section>`)
	})
}

// OperationsPage is the full order arithmetic page.
func OperationsPage(header HeaderData) templ.Component {
	return Page("Order arithmetic", header, OperationsContent())
}

func writeOrderSelect(hw *htmlWriter, id, name string, orders []services.OrderRef) {
	hw.raw(`<select required`)
	hw.attr("id", id)
	hw.attr("name", name)
	hw.raw(`>`)
	for _, o := range orders {
		hw.rawf(`<option value="%d">`, o.ID)
		hw.text(o.Label())
		hw.raw(`</option>`)
	}
	hw.raw(`</select>`)
}

func writeLabel(hw *htmlWriter, id, text string) {
	hw.raw(`<label`)
	hw.attr("for", id)
	hw.raw(`>`)
	hw.text(text)
	hw.raw(`</label>`)
}

// OperationForm renders the sub-form of op with the given order options.
// OpNone renders nothing.
func OperationForm(op services.Operation, orders []services.OrderRef) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		if op == services.OpNone {
			return
		}
		hw.raw(`<form class="operation-form" hx-target="#result-message" hx-swap="outerHTML"`)
		hw.attr("hx-post", "/orders/arithmetic/"+string(op))
		hw.raw(`>`)

		switch op {
		case services.OpScale:
			hw.raw(`<div class="field">`)
			writeLabel(hw, "scaleOrder", "Order")
			writeOrderSelect(hw, "scaleOrder", "order_id", orders)
			hw.raw(`</div><div class="field">`)
			writeLabel(hw, "scaleFactor", "Scale factor")
			hw.raw(`<input type="number" id="scaleFactor" name="scale_factor" value="1" step="0.1" min="0.1" required>`)
			hw.raw(`</div><button type="submit" class="btn">Scale</button>`)
		case services.OpMerge:
			hw.raw(`<div class="field">`)
			writeLabel(hw, "mergeSource", "Source order")
			writeOrderSelect(hw, "mergeSource", "source_id", orders)
			hw.raw(`</div><div class="field">`)
			writeLabel(hw, "mergeTarget", "Target order")
			writeOrderSelect(hw, "mergeTarget", "target_id", orders)
			hw.raw(`</div><button type="submit" class="btn">Merge</button>`)
		case services.OpSubtract:
			hw.raw(`<div class="field">`)
			writeLabel(hw, "subFrom", "Subtract from")
			writeOrderSelect(hw, "subFrom", "from_id", orders)
			hw.raw(`</div><div class="field">`)
			writeLabel(hw, "subWhat", "Order to subtract")
			writeOrderSelect(hw, "subWhat", "subtract_id", orders)
			hw.raw(`</div><button type="submit" class="btn">Subtract</button>`)
		}
		hw.raw(`</form>`)
	})
}

// OperationFormFragment answers a selector change: the new sub-form plus an
// out-of-band reset of the result area.
func OperationFormFragment(op services.Operation, orders []services.OrderRef) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.render(ctx, OperationForm(op, orders))
		hw.render(ctx, ResultMessage(services.Result{}, true))
	})
}

// ResultMessage renders the result area.
func ResultMessage(r services.Result, oob bool) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div id="result-message"`)
		hw.attr("class", r.Class())
		if oob {
			hw.raw(` hx-swap-oob="true"`)
		}
		hw.raw(`>`)
		hw.text(r.Text)
		hw.raw(`</div>`)
	})
}

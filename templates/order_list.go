package templates

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"ordertracker/services"
)

// OrderListData is the content of the orders list page.
type OrderListData struct {
	Orders []services.Order
	Filter services.OrderFilter
}

var listFilters = []struct {
	filter services.OrderFilter
	label  string
}{
	{services.FilterAll, "All"},
	{services.FilterOpen, "Open"},
	{services.FilterReady, "Awaiting approval"},
	{services.FilterConfirmed, "Approved"},
}

func writeFilterTabs(hw *htmlWriter, current services.OrderFilter) {
	hw.raw(`<nav class="filter-tabs">`)
	for _, f := range listFilters {
		href := "/orders"
		if f.filter != services.FilterAll {
			href += "?status=" + string(f.filter)
		}
		hw.raw(`<a`)
		hw.attr("href", href)
		if f.filter == current {
			hw.raw(` class="active" aria-current="page"`)
		}
		hw.raw(`>`)
		hw.text(f.label)
		hw.raw(`</a>`)
	}
	hw.raw(`</nav>`)
}

// OrderListContent renders the orders table.
func OrderListContent(data OrderListData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section id="order-list"><div class="page-header"><h1>Orders</h1>`)
		hw.raw(`<a class="btn" href="/orders/new">New order</a></div>`)
		writeFilterTabs(hw, data.Filter)

		if len(data.Orders) == 0 {
			if data.Filter == services.FilterAll {
				hw.raw(`<p class="empty-state">No orders yet.</p></section>`)
			} else {
				hw.raw(`<p class="empty-state">No orders in this view.</p></section>`)
			}
			return
		}

		hw.raw(`<table class="orders"><thead><tr>`)
		hw.raw(`<th>#</th><th>Description</th><th>Area</th><th>Date</th><th>Status</th><th></th>`)
		hw.raw(`</tr></thead><tbody>`)
		for _, o := range data.Orders {
			hw.rawf(`<tr id="order-%d">`, o.Number)
			hw.rawf(`<td>%d</td><td>`, o.Number)
			hw.text(orDefault(o.Description, "Untitled"))
			hw.raw(`</td><td>`)
			hw.text(o.AreaDivision)
			if o.AreaSubArea != "" {
				hw.raw(` / `)
				hw.text(o.AreaSubArea)
			}
			hw.raw(`</td><td>`)
			hw.text(o.Date)
			hw.raw(`</td><td><span`)
			hw.attr("class", "status "+o.StatusClass())
			hw.raw(`>`)
			hw.text(o.Status())
			hw.raw(`</span></td><td class="actions">`)
			hw.rawf(`<a href="/orders/%d/edit">Edit</a>`, o.Number)
			hw.rawf(`<a href="/orders/%d/export/bom">BOM</a>`, o.Number)
			hw.rawf(`<a href="/orders/%d/export/pdf">PDF</a>`, o.Number)
			hw.rawf(`<button type="button" class="danger" hx-post="/orders/%d/delete" hx-target="#order-%d" hx-swap="delete" hx-confirm="%s">Delete</button>`,
				o.Number, o.Number, templ.EscapeString(fmt.Sprintf("Delete order #%d?", o.Number)))
			hw.raw(`</td></tr>`)
		}
		hw.raw(`</tbody></table></section>`)
	})
}

// OrderListPage is the full orders list page.
func OrderListPage(data OrderListData, header HeaderData) templ.Component {
	return Page("Orders", header, OrderListContent(data))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

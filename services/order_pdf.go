package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateOrderPDF renders an order summary sheet: header fields, status and
// the item table.
func GenerateOrderPDF(order Order, items []OrderItem) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addOrderHeader(m, order)
	addOrderTableHeader(m)
	total := 0
	for i, it := range items {
		addOrderTableRow(m, i, it)
		total += it.Quantity
	}
	addOrderSummary(m, len(items), total)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// OrderPDFFilename returns the download name for an order's PDF.
func OrderPDFFilename(order Order) string {
	return fmt.Sprintf("order_%d.pdf", order.Number)
}

func addOrderHeader(m core.Maroto, order Order) {
	title := OrderRef{ID: order.Number, Description: order.Description}.Label()
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Order "+title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	date := order.Date
	if date == "" {
		date = time.Now().Format("02/01/2006")
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Area: %s / %s", order.AreaDivision, order.AreaSubArea), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", date), props.Text{
					Size:  9,
					Align: align.Right,
					Color: grey,
				}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Status: %s", order.Status()), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addOrderTableHeader(m core.Maroto) {
	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	qtyText := headerText
	qtyText.Align = align.Right

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Manufacturer", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Manufacturer PN", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Proposal", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Project", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", qtyText)).WithStyle(&headerCell),
		),
	)
}

func addOrderTableRow(m core.Maroto, i int, it OrderItem) {
	base := props.Text{Size: 7, Align: align.Left}
	right := base
	right.Align = align.Right

	r := row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), base)),
		col.New(3).Add(text.New(it.Manufacturer, base)),
		col.New(3).Add(text.New(it.ManufacturerPN, base)),
		col.New(2).Add(text.New(it.Proposal, base)),
		col.New(2).Add(text.New(it.Project, base)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), right)),
	)
	// zebra striping
	if i%2 == 1 {
		r = r.WithStyle(&props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}})
	}
	m.AddRows(r)
}

func addOrderSummary(m core.Maroto, lines, pieces int) {
	m.AddRows(row.New(6))

	cell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(8).Add(
			col.New(10).Add(text.New("Lines", label)).WithStyle(cell),
			col.New(2).Add(text.New(fmt.Sprintf("%d", lines), label)).WithStyle(cell),
		),
		row.New(8).Add(
			col.New(10).Add(text.New("Total pieces", label)).WithStyle(cell),
			col.New(2).Add(text.New(fmt.Sprintf("%d", pieces), label)).WithStyle(cell),
		),
	)
}

package services

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BOMSheetName is the sheet written by GenerateBOMExcel.
const BOMSheetName = "Ordine"

// VATRate is applied to the "Price incl. VAT" column.
const VATRate = 1.22

var bomHeaders = []string{
	"Description",
	"Manufacturer PN",
	"Manufacturer",
	"Quantity",
	"Unit price",
	"Price",
	"Price incl. VAT",
	"Proposta (Descrizione spesa)",
	"Link",
	"Project",
	"Delivered",
}

// BOMFilename returns the download name for an order's BOM workbook.
func BOMFilename(order Order) string {
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(order.Description), " ", "_"))
	if base == "" {
		base = fmt.Sprintf("bom_%d", order.Number)
	}
	return base + ".xlsx"
}

// GenerateBOMExcel writes the bill of materials of an order as an xlsx
// workbook: one row per item with price formulas and a totals row.
func GenerateBOMExcel(order Order, items []OrderItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, BOMSheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := []float64{30, 22, 18, 10, 12, 12, 16, 30, 30, 18, 10}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(BOMSheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// ── Row 1: headers ──────────────────────────────────────────────────
	for i, h := range bomHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(BOMSheetName, cell, h)
	}
	f.SetCellStyle(BOMSheetName, "A1", "K1", headerStyle)

	// ── Item rows (starting row 2) ──────────────────────────────────────
	row := 2
	for _, it := range items {
		r := strconv.Itoa(row)
		f.SetCellValue(BOMSheetName, "A"+r, "")
		f.SetCellValue(BOMSheetName, "B"+r, sanitizeExcelCell(it.ManufacturerPN))
		f.SetCellValue(BOMSheetName, "C"+r, sanitizeExcelCell(it.Manufacturer))
		f.SetCellValue(BOMSheetName, "D"+r, it.Quantity)
		f.SetCellValue(BOMSheetName, "E"+r, 0)
		f.SetCellFormula(BOMSheetName, "F"+r, fmt.Sprintf("D%d*E%d", row, row))
		f.SetCellFormula(BOMSheetName, "G"+r, fmt.Sprintf("F%d*%.2f", row, VATRate))
		f.SetCellValue(BOMSheetName, "H"+r, sanitizeExcelCell(it.Proposal))
		f.SetCellValue(BOMSheetName, "I"+r, "")
		f.SetCellValue(BOMSheetName, "J"+r, sanitizeExcelCell(it.Project))
		f.SetCellValue(BOMSheetName, "K"+r, "")
		f.SetCellStyle(BOMSheetName, "A"+r, "K"+r, itemStyle)
		row++
	}

	// ── Totals row ──────────────────────────────────────────────────────
	r := strconv.Itoa(row)
	f.SetCellValue(BOMSheetName, "E"+r, "Total:")
	if len(items) > 0 {
		f.SetCellFormula(BOMSheetName, "F"+r, fmt.Sprintf("SUM(F2:F%d)", row-1))
		f.SetCellFormula(BOMSheetName, "G"+r, fmt.Sprintf("SUM(G2:G%d)", row-1))
	} else {
		f.SetCellValue(BOMSheetName, "F"+r, 0)
		f.SetCellValue(BOMSheetName, "G"+r, 0)
	}
	f.SetCellStyle(BOMSheetName, "E"+r, "G"+r, totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// KiCadItem is one usable row of a KiCad BOM export.
type KiCadItem struct {
	Quantity       int
	Manufacturer   string
	ManufacturerPN string
}

// ParseKiCadBOM reads the first sheet of a KiCad BOM workbook. Quantity,
// manufacturer and manufacturer PN are read from columns A, B and C starting
// at row 2; rows missing any of them are skipped.
func ParseKiCadBOM(r io.Reader) ([]KiCadItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	var items []KiCadItem
	for i, cols := range rows {
		if i == 0 {
			continue // header
		}
		if len(cols) < 3 {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(cols[0]))
		if err != nil {
			qty = 0
		}
		man := strings.TrimSpace(cols[1])
		pn := strings.TrimSpace(cols[2])
		if qty > 0 && man != "" && pn != "" {
			items = append(items, KiCadItem{Quantity: qty, Manufacturer: man, ManufacturerPN: pn})
		}
	}
	return items, nil
}

// LineItems converts KiCad rows into order lines tagged with one proposal
// and project.
func KiCadLineItems(items []KiCadItem, proposal, project string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			Proposal:       proposal,
			Project:        project,
			Manufacturer:   it.Manufacturer,
			ManufacturerPN: it.ManufacturerPN,
			Quantity:       it.Quantity,
		})
	}
	return out
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateBOMExcel_Layout(t *testing.T) {
	order := Order{Number: 3, Description: "Sensor board"}
	items := []OrderItem{
		{LineItem: LineItem{Proposal: "Sensoristica AUV", Project: "Nereo", Manufacturer: "TI", ManufacturerPN: "LM317", Quantity: 4}},
		{LineItem: LineItem{Proposal: "Elettronica generale", Project: "Varie per lab", Manufacturer: "Murata", ManufacturerPN: "=GRM188", Quantity: 10}},
	}

	result, err := GenerateBOMExcel(order, items)
	if err != nil {
		t.Fatalf("GenerateBOMExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("failed to open generated Excel: %v", err)
	}
	defer f.Close()

	if name := f.GetSheetName(0); name != BOMSheetName {
		t.Errorf("sheet = %q, want %q", name, BOMSheetName)
	}

	checks := map[string]string{
		"A1": "Description",
		"B1": "Manufacturer PN",
		"H1": "Proposta (Descrizione spesa)",
		"K1": "Delivered",
		"B2": "LM317",
		"C2": "TI",
		"D2": "4",
		"J2": "Nereo",
		"B3": "'=GRM188",
		"E4": "Total:",
	}
	for cell, want := range checks {
		got, _ := f.GetCellValue(BOMSheetName, cell)
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	formulas := map[string]string{
		"F2": "D2*E2",
		"G2": "F2*1.22",
		"F4": "SUM(F2:F3)",
		"G4": "SUM(G2:G3)",
	}
	for cell, want := range formulas {
		got, _ := f.GetCellFormula(BOMSheetName, cell)
		if got != want {
			t.Errorf("%s formula = %q, want %q", cell, got, want)
		}
	}
}

func TestBOMFilename(t *testing.T) {
	if got := BOMFilename(Order{Number: 2, Description: "Sensor Board"}); got != "sensor_board.xlsx" {
		t.Errorf("BOMFilename = %q", got)
	}
	if got := BOMFilename(Order{Number: 2}); got != "bom_2.xlsx" {
		t.Errorf("BOMFilename(untitled) = %q", got)
	}
}

func buildKiCadWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseKiCadBOM(t *testing.T) {
	data := buildKiCadWorkbook(t, [][]any{
		{"Qty", "Manufacturer", "MPN"},
		{2, "TI", "LM317"},
		{"x", "ST", "L7805"},
		{5, "", "NOMAN"},
		{0, "Bourns", "PTV09"},
		{3, " Murata ", " GRM188 "},
	})

	items, err := ParseKiCadBOM(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseKiCadBOM() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v, want 2", items)
	}
	if items[0] != (KiCadItem{Quantity: 2, Manufacturer: "TI", ManufacturerPN: "LM317"}) {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1] != (KiCadItem{Quantity: 3, Manufacturer: "Murata", ManufacturerPN: "GRM188"}) {
		t.Errorf("items[1] = %+v", items[1])
	}

	lines := KiCadLineItems(items, "Sensoristica AUV", "Nereo")
	if len(lines) != 2 || lines[1].Project != "Nereo" || lines[1].Quantity != 3 {
		t.Errorf("lines = %+v", lines)
	}
}

func TestParseKiCadBOM_NotExcel(t *testing.T) {
	if _, err := ParseKiCadBOM(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Error("expected error for non-xlsx input")
	}
}

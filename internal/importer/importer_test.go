package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "label,width,length\na,10,20\n", ','},
		{"semicolon", "label;width;length\na;10;20\n", ';'},
		{"tab", "label\twidth\tlength\na\t10\t20\n", '\t'},
		{"pipe", "label|width|length\na|10|20\n", '|'},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tc.data)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDetectColumns_Header(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Name", "Width", "Length", "Qty"})
	if !hasHeader {
		t.Fatal("expected header detection")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Length != 2 || mapping.Quantity != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_Reordered(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"qty", "len", "w", "label"})
	if !hasHeader {
		t.Fatal("expected header detection")
	}
	if mapping.Quantity != 0 || mapping.Length != 1 || mapping.Width != 2 || mapping.Label != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Bracket", "40", "25", "2"})
	if hasHeader {
		t.Fatal("expected positional fallback")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Length != 2 || mapping.Quantity != 3 {
		t.Errorf("unexpected positional mapping: %+v", mapping)
	}
}

func TestImportCSV_WithHeaders(t *testing.T) {
	path := writeTempFile(t, "items.csv",
		"Label,Width,Length,Qty\nBracket,40,25,1\nLid,80.5,60,1\n")

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Label != "Bracket" {
		t.Errorf("expected 'Bracket', got %q", result.Items[0].Label)
	}
	if result.Items[1].Width != 80.5 || result.Items[1].Length != 60 {
		t.Errorf("unexpected dimensions: %v x %v", result.Items[1].Width, result.Items[1].Length)
	}
}

func TestImportCSV_QuantityExpansion(t *testing.T) {
	path := writeTempFile(t, "items.csv",
		"Label,Width,Length,Qty\nFoot,20,20,4\n")

	result := ImportCSV(path)

	if len(result.Items) != 4 {
		t.Fatalf("expected 4 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Label != "Foot #1" || result.Items[3].Label != "Foot #4" {
		t.Errorf("unexpected expanded labels: %q, %q", result.Items[0].Label, result.Items[3].Label)
	}
	if result.Items[0].ID == result.Items[1].ID {
		t.Error("expanded items must get independent IDs")
	}
}

func TestImportCSV_InvalidRows(t *testing.T) {
	path := writeTempFile(t, "items.csv",
		"Label,Width,Length\nGood,10,20\nBad,abc,20\nNegative,-5,20\n")

	result := ImportCSV(path)

	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(result.Items))
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 row errors, got %v", result.Errors)
	}
}

func TestImportCSV_NoQuantityColumn(t *testing.T) {
	path := writeTempFile(t, "items.csv", "Label,Width,Length\nSolo,15,30\n")

	result := ImportCSV(path)

	if len(result.Items) != 1 {
		t.Fatalf("expected quantity to default to 1, got %d items", len(result.Items))
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")
	result := ImportCSV(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Length", "Quantity"},
		{"Base", 120, 90, 1},
		{"Cap", 40, 40, 2},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items (with quantity expansion), got %d", len(result.Items))
	}
	if result.Items[0].Label != "Base" || result.Items[0].Width != 120 {
		t.Errorf("unexpected first item: %+v", result.Items[0])
	}
}

func TestImport_DispatchesByExtension(t *testing.T) {
	path := writeTempFile(t, "items.csv", "Label,Width,Length\nA,10,20\n")
	result := Import(path)
	if len(result.Items) != 1 {
		t.Fatalf("expected CSV dispatch to yield 1 item, got %d", len(result.Items))
	}

	result = Import("model.stl")
	if len(result.Errors) == 0 {
		t.Error("expected error for unsupported extension")
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/file.dxf")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestChainSegments_ClosedSquare(t *testing.T) {
	segs := []segment{
		{start: point2{0, 0}, end: point2{10, 0}},
		{start: point2{10, 0}, end: point2{10, 10}},
		{start: point2{10, 10}, end: point2{0, 10}},
		{start: point2{0, 10}, end: point2{0, 0}},
	}

	outlines := chainSegments(segs, 0.01)
	if len(outlines) != 1 {
		t.Fatalf("expected 1 outline, got %d", len(outlines))
	}
	if len(outlines[0]) != 4 {
		t.Errorf("expected 4 points after closing, got %d", len(outlines[0]))
	}

	min, max := outlines[0].boundingBox()
	if min.x != 0 || min.y != 0 || max.x != 10 || max.y != 10 {
		t.Errorf("unexpected bounding box: %+v %+v", min, max)
	}
	if a := outlines[0].area(); a != 100 {
		t.Errorf("expected area 100, got %v", a)
	}
}

func TestChainSegments_IgnoresOpenChain(t *testing.T) {
	segs := []segment{
		{start: point2{0, 0}, end: point2{10, 0}},
		{start: point2{10, 0}, end: point2{10, 10}},
	}

	outlines := chainSegments(segs, 0.01)
	// An open two-segment chain still has 3 points; it is kept and its
	// bounding box is what the packer cares about.
	if len(outlines) != 1 {
		t.Fatalf("expected 1 chained outline, got %d", len(outlines))
	}
}

// Package importer reads footprint lists from CSV, Excel and DXF files.
// Tabular formats support automatic delimiter detection, flexible column
// mapping and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/plateforge/plateforge/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []*model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Width    int
	Length   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases
// (all lowercase). Width is the X extent, length the Y extent.
var headerAliases = map[string][]string{
	"label":    {"label", "name", "part", "object", "description", "desc", "item"},
	"width":    {"width", "w", "x"},
	"length":   {"length", "len", "l", "depth", "y"},
	"quantity": {"quantity", "qty", "count", "num", "copies", "pcs"},
}

// Import reads a footprint list, choosing the parser by file extension.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xls":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportResult{Errors: []string{
			fmt.Sprintf("Unsupported file type %q", filepath.Ext(path)),
		}}
	}
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab and pipe; the one producing the most consistent
// multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. It
// matches case-insensitively against known aliases for each column
// role. Returns the mapping and true if a header was detected, or a
// positional Label, Width, Length, Quantity mapping and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Length: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Width: 1, Length: 2, Quantity: 3}, false
	}
	return mapping, true
}

// ImportCSV imports items from a CSV file with delimiter auto-detection.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports items from an Excel file. Reads the first sheet
// and auto-detects the column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row")
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Header found but missing columns: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for rowIdx := startRow; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, rowIdx+1)
		items, errMsg := parseRow(row, mapping, rowLabel, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Items = append(result.Items, items...)
	}

	if len(result.Items) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No usable rows found")
	}
	return result
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts items from a row using the given column mapping.
// Quantity expands into that many independent items, each with its own
// ID, so the arranger sees one footprint per physical object.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) ([]*model.Item, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Object %d", itemCount+1)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return nil, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid width %q", rowLabel, widthStr)
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return nil, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid length %q", rowLabel, lengthStr)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid quantity %q", rowLabel, qtyStr)
		}
	}

	if width <= 0 || length <= 0 || qty <= 0 {
		return nil, fmt.Sprintf("%s: Width, length and quantity must be positive", rowLabel)
	}

	items := make([]*model.Item, 0, qty)
	for i := 0; i < qty; i++ {
		itemLabel := label
		if qty > 1 {
			itemLabel = fmt.Sprintf("%s #%d", label, i+1)
		}
		items = append(items, model.NewItem(itemLabel, width, length))
	}
	return items, ""
}

// Package importer reads request lists from CSV and Excel files and cut
// pieces from DXF drawings. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CakeCut/internal/model"
)

// ImportResult holds the results of an import operation. Requests and
// Labels are filled by the request importers, Pieces by ImportDXF.
type ImportResult struct {
	Requests []float64
	Labels   []string
	Pieces   []model.Piece
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A request area comes from the Area column, or from Width x Height when
// there is none.
type ColumnMapping struct {
	Label    int
	Area     int
	Width    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "guest", "request", "description", "desc", "item"},
	"area":     {"area", "size", "cm2", "area cm2", "portion", "surface"},
	"width":    {"width", "w"},
	"height":   {"height", "h", "length", "len", "l"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := readCSV(bytes.NewReader(data), delim)
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

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Area: -1, Width: -1, Height: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				var slot *int
				switch role {
				case "label":
					slot = &mapping.Label
				case "area":
					slot = &mapping.Area
				case "width":
					slot = &mapping.Width
				case "height":
					slot = &mapping.Height
				case "quantity":
					slot = &mapping.Quantity
				}
				if *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(row), false
	}
	return mapping, true
}

// positionalMapping guesses the layout of a headerless file: a bare list of
// areas, area and quantity, or label, area and quantity.
func positionalMapping(row []string) ColumnMapping {
	none := ColumnMapping{Label: -1, Area: 0, Width: -1, Height: -1, Quantity: -1}
	if len(row) < 2 {
		return none
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err == nil {
		none.Quantity = 1
		return none
	}
	return ColumnMapping{Label: 0, Area: 1, Width: -1, Height: -1, Quantity: 2}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a request area, label and quantity from a row.
// Returns any error message and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, requestCount int) (area float64, label string, qty int, errMsg, warning string) {
	label = getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Request %d", requestCount+1)
	}

	if mapping.Area >= 0 && getCell(row, mapping.Area) != "" {
		area, errMsg = parseNumber(row, mapping.Area, "area", rowLabel)
		if errMsg != "" {
			return 0, "", 0, errMsg, ""
		}
	} else if mapping.Width >= 0 && mapping.Height >= 0 {
		w, msg := parseNumber(row, mapping.Width, "width", rowLabel)
		if msg != "" {
			return 0, "", 0, msg, ""
		}
		h, msg := parseNumber(row, mapping.Height, "height", rowLabel)
		if msg != "" {
			return 0, "", 0, msg, ""
		}
		if w <= 0 || h <= 0 {
			return 0, "", 0, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
		}
		area = w * h
	} else {
		return 0, "", 0, fmt.Sprintf("%s: Missing area value", rowLabel), ""
	}

	qty = 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return 0, "", 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = n
	}

	if area <= 0 || qty <= 0 {
		return 0, "", 0, fmt.Sprintf("%s: Area and quantity must be positive", rowLabel), ""
	}
	if area > 10000 {
		warning = fmt.Sprintf("%s: Area %.2f cm2 is unusually large for a single portion", rowLabel, area)
	}

	return area, label, qty, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportRequests picks the request importer by file extension.
func ImportRequests(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// delimiterNames names the non-comma delimiters in import warnings.
var delimiterNames = map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

// ImportCSV imports requests from a CSV file, guessing the delimiter.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if name, ok := delimiterNames[delimiter]; ok {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	rows, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(rows, "Line", warnings)
}

// ImportCSVFromReader imports requests from CSV data whose delimiter is known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	rows, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(rows, "Line", nil)
}

// ImportExcel imports requests from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
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

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and expands each row into Quantity
// requests.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Area == -1 && (mapping.Width == -1 || mapping.Height == -1) {
			result.Errors = append(result.Errors, "Required columns not found in header: Area (or Width and Height)")
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], mapping.Area), 64); err != nil {
		// Unrecognized header: skip it but keep the positional mapping
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		area, label, qty, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Requests))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		for n := 0; n < qty; n++ {
			result.Requests = append(result.Requests, area)
			if qty > 1 {
				result.Labels = append(result.Labels, fmt.Sprintf("%s #%d", label, n+1))
			} else {
				result.Labels = append(result.Labels, label)
			}
		}
	}

	return result
}

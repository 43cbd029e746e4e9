// Package importer provides CSV and Excel import functionality for print
// task lists. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GangSheet/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Tasks    []model.Task
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Product  int
	Size     int
	Color    int
	Quantity int
	Deadline int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "order", "order name", "description", "desc", "job", "item"},
	"product":  {"product", "product type", "type", "transfer", "transfer type"},
	"size":     {"size", "format", "transfer size", "dimensions"},
	"color":    {"color", "colour", "ink", "ink color", "ink colour"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "sheets", "repeats"},
	"deadline": {"deadline", "due", "due date", "ship date", "delivery"},
}

// deadlineFormats lists the accepted deadline cell layouts, tried in order.
var deadlineFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006",
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

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
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Label:    -1,
		Product:  -1,
		Size:     -1,
		Color:    -1,
		Quantity: -1,
		Deadline: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "label":
						if mapping.Label == -1 {
							mapping.Label = i
						}
					case "product":
						if mapping.Product == -1 {
							mapping.Product = i
						}
					case "size":
						if mapping.Size == -1 {
							mapping.Size = i
						}
					case "color":
						if mapping.Color == -1 {
							mapping.Color = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					case "deadline":
						if mapping.Deadline == -1 {
							mapping.Deadline = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: Label, Product, Size, Color, Quantity, Deadline
		return ColumnMapping{
			Label:    0,
			Product:  1,
			Size:     2,
			Color:    3,
			Quantity: 4,
			Deadline: 5,
		}, false
	}

	return mapping, true
}

// ParseProduct converts a product type string to a model.ProductType value.
// It returns the product and a boolean indicating whether the string was recognized.
func ParseProduct(s string) (model.ProductType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full colour", "full color", "full_colour", "full", "fc", "cmyk":
		return model.ProductFullColour, true
	case "single colour", "single color", "single_colour", "single", "sc", "spot":
		return model.ProductSingleColour, true
	case "metal", "metallic", "foil":
		return model.ProductMetal, true
	case "zero", "blank", "none":
		return model.ProductZero, true
	default:
		return "", false
	}
}

// ParseSize normalizes a size cell to a catalog SizeID. Accepts the badge
// names used in order sheets ("A4", "295×100MM") as well as the raw IDs.
func ParseSize(s string, catalog model.SizeCatalog) (model.SizeID, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "×", "x")
	normalized = strings.TrimSuffix(normalized, "mm")
	normalized = strings.TrimSpace(normalized)
	id := model.SizeID(normalized)
	if _, ok := catalog.Get(id); ok {
		return id, true
	}
	return "", false
}

// parseDeadline tries the accepted timestamp layouts in order.
func parseDeadline(s string) (time.Time, bool) {
	for _, layout := range deadlineFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Task from a row using the given column mapping.
// Returns the task, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, catalog model.SizeCatalog, rowLabel string, taskCount int) (model.Task, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Task %d", taskCount+1)
	}

	productStr := getCell(row, mapping.Product)
	if productStr == "" {
		return model.Task{}, fmt.Sprintf("%s: Missing product type", rowLabel), ""
	}
	product, ok := ParseProduct(productStr)
	if !ok {
		return model.Task{}, fmt.Sprintf("%s: Unknown product type '%s'", rowLabel, productStr), ""
	}

	sizeStr := getCell(row, mapping.Size)
	if sizeStr == "" {
		return model.Task{}, fmt.Sprintf("%s: Missing size", rowLabel), ""
	}
	size, ok := ParseSize(sizeStr, catalog)
	if !ok {
		return model.Task{}, fmt.Sprintf("%s: Unknown size '%s'", rowLabel, sizeStr), ""
	}

	qty := 1
	var warning string
	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr != "" {
		parsed, err := strconv.Atoi(qtyStr)
		if err != nil || parsed <= 0 {
			return model.Task{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = parsed
	} else {
		warning = fmt.Sprintf("%s: Missing quantity, defaulting to 1", rowLabel)
	}

	color := model.Color(strings.ToLower(getCell(row, mapping.Color)))
	if product.NeedsColor() && color == "" {
		return model.Task{}, fmt.Sprintf("%s: %s tasks require a color", rowLabel, product), ""
	}
	if !product.NeedsColor() {
		color = ""
	}

	task := model.NewTask(label, product, size, color, qty)

	// Optional deadline
	deadlineStr := getCell(row, mapping.Deadline)
	if deadlineStr != "" {
		if ts, ok := parseDeadline(deadlineStr); ok {
			task.Deadline = &ts
		} else {
			warning = fmt.Sprintf("%s: Unreadable deadline '%s', leaving unset", rowLabel, deadlineStr)
		}
	}

	return task, "", warning
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

// ImportCSV imports tasks from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, catalog model.SizeCatalog) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, catalog, "Line", result.Warnings)
}

// ImportCSVFromReader imports tasks from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, catalog model.SizeCatalog) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, catalog, "Line", nil)
}

// ImportExcel imports tasks from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, catalog model.SizeCatalog) ImportResult {
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

	return importFromRows(rows, catalog, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into tasks.
func importFromRows(rows [][]string, catalog model.SizeCatalog, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Product == -1 {
			missing = append(missing, "Product")
		}
		if mapping.Size == -1 {
			missing = append(missing, "Size")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// No header: check whether the first row already parses as data.
		// An unrecognized header row would fail product parsing.
		if len(rows[0]) >= 3 {
			if _, ok := ParseProduct(getCell(rows[0], 1)); !ok {
				startRow = 1
				result.Warnings = append(result.Warnings, "Detected header row, skipping")
			}
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		task, errMsg, warning := parseRow(row, mapping, catalog, rowLabel, len(result.Tasks))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Tasks = append(result.Tasks, task)
	}

	return result
}

// Package rows loads receipt rows from the source spreadsheet.
package rows

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lagardere/internal"
	"lagardere/internal/config"
)

// Column defaults used when a header name is not present in row 1. They
// mirror the fixed layout of the upstream export (number in B, client in D,
// date in F, product in H, quantity in J).
const (
	defaultNumberCol   = 2
	defaultClientCol   = 4
	defaultDateCol     = 6
	defaultProductCol  = 8
	defaultQuantityCol = 10
)

type Options struct {
	// Sheet selects the worksheet by name; empty means the first sheet.
	Sheet        string
	ClientPrefix string

	NumberHeader   string
	ClientHeader   string
	DateHeader     string
	ProductHeader  string
	QuantityHeader string
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ClientPrefix:   cfg.ClientPrefix,
		NumberHeader:   cfg.NumberHeader,
		ClientHeader:   cfg.ClientHeader,
		DateHeader:     cfg.DateHeader,
		ProductHeader:  cfg.ProductHeader,
		QuantityHeader: cfg.QuantityHeader,
	}
}

// Load reads every row whose client starts with the configured prefix
// (case-insensitive). A sheet without a header row is a load error.
func Load(f *excelize.File, opts Options) ([]internal.ReceiptRow, error) {
	sheet, grid, err := sheetRows(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	header, err := headerMap(grid)
	if err != nil {
		return nil, err
	}

	numberCol := col(header, opts.NumberHeader, defaultNumberCol)
	clientCol := col(header, opts.ClientHeader, defaultClientCol)
	dateCol := col(header, opts.DateHeader, defaultDateCol)
	productCol := col(header, opts.ProductHeader, defaultProductCol)
	quantityCol := col(header, opts.QuantityHeader, defaultQuantityCol)

	prefix := strings.ToLower(strings.TrimSpace(opts.ClientPrefix))

	out := []internal.ReceiptRow{}
	for r := 1; r < len(grid); r++ {
		client := strings.TrimSpace(cellAt(grid[r], clientCol))
		if client == "" || !strings.HasPrefix(strings.ToLower(client), prefix) {
			continue
		}

		number := strings.TrimSpace(cellAt(grid[r], numberCol))
		if number == "" {
			continue
		}

		out = append(out, internal.ReceiptRow{
			Number:   number,
			Client:   client,
			Date:     normalizeDate(cellAt(grid[r], dateCol)),
			Product:  strings.TrimSpace(cellAt(grid[r], productCol)),
			Quantity: strings.TrimSpace(cellAt(grid[r], quantityCol)),
			Link:     cellLink(f, sheet, numberCol, r+1, number),
		})
	}

	return out, nil
}

// Links reads distinct document numbers and their hyperlinks from the number
// column, first occurrence winning, rows without a link skipped.
func Links(f *excelize.File, sheet, numberHeader string) ([]internal.NumberLink, error) {
	sheet, grid, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}

	header, err := headerMap(grid)
	if err != nil {
		return nil, err
	}
	numberCol := col(header, numberHeader, defaultNumberCol)

	seen := map[string]struct{}{}
	out := []internal.NumberLink{}
	for r := 1; r < len(grid); r++ {
		number := strings.TrimSpace(cellAt(grid[r], numberCol))
		if number == "" {
			continue
		}
		if _, ok := seen[number]; ok {
			continue
		}
		link := cellLink(f, sheet, numberCol, r+1, number)
		if link == "" {
			continue
		}
		seen[number] = struct{}{}
		out = append(out, internal.NumberLink{Number: number, Link: link})
	}

	return out, nil
}

func sheetRows(f *excelize.File, sheet string) (string, [][]string, error) {
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return "", nil, errors.New("workbook has no sheets")
		}
		sheet = list[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return "", nil, fmt.Errorf("sheet not found: %s", sheet)
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, err
	}
	return sheet, grid, nil
}

func headerMap(grid [][]string) (map[string]int, error) {
	if len(grid) == 0 {
		return nil, errors.New("missing header row")
	}
	header := map[string]int{}
	for i, cell := range grid[0] {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, ok := header[name]; !ok {
			header[name] = i + 1
		}
	}
	if len(header) == 0 {
		return nil, errors.New("missing header row")
	}
	return header, nil
}

func col(header map[string]int, name string, fallback int) int {
	if idx, ok := header[strings.TrimSpace(name)]; ok {
		return idx
	}
	return fallback
}

func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

// cellLink prefers a real hyperlink on the cell, falling back to a cell
// value that is itself a URL.
func cellLink(f *excelize.File, sheet string, colIdx, rowIdx int, value string) string {
	cell, err := excelize.CoordinatesToCellName(colIdx, rowIdx)
	if err != nil {
		return ""
	}
	if ok, target, err := f.GetCellHyperLink(sheet, cell); err == nil && ok && target != "" {
		return target
	}
	if strings.HasPrefix(value, "http") {
		return value
	}
	return ""
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"02.01.2006",
	"2.1.2006",
}

// normalizeDate renders date-like cell values as ISO dates; anything
// unrecognized passes through trimmed.
func normalizeDate(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return text
}

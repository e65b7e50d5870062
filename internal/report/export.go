package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"lagardere/internal"
)

var tableHeader = []string{"Номер", "Предал", "Дата", "Продукт", "Количество"}

const (
	summaryTitle  = "Обобщение по продукт"
	brandFillARGB = "FFA500"
	maxColWidth   = 60
	maxSheetTitle = 31
)

// WriteWorkbook renders one sheet per responsible person: the raw rows with
// the number cell hyperlinked, then the product summary with brand subtotal
// rows highlighted.
func WriteWorkbook(w io.Writer, groups []internal.Group, engine *Engine) error {
	f := excelize.NewFile()
	defer f.Close()
	defaultSheet := f.GetSheetName(0)

	brandStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{brandFillARGB}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	titles := map[string]struct{}{}
	for _, group := range groups {
		sheet := safeSheetTitle(group.Name, titles)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		widths := newColWidths()
		r := 1
		setRow(f, sheet, r, toAny(tableHeader), widths)
		for _, row := range group.Rows {
			r++
			setRow(f, sheet, r, []any{row.Number, row.Responsible, row.Date, row.Product, row.Quantity}, widths)
			if row.Link != "" {
				cell, _ := excelize.CoordinatesToCellName(1, r)
				if err := f.SetCellHyperLink(sheet, cell, row.Link, "External"); err != nil {
					return err
				}
				_ = f.SetCellStyle(sheet, cell, cell, linkStyle)
			}
		}

		summary := engine.Summarize(group.Rows)
		r += 2
		setRow(f, sheet, r, []any{summaryTitle}, widths)
		r++
		header := append([]any{"Продукт"}, toAny(summary.Dates)...)
		setRow(f, sheet, r, header, widths)
		for _, sr := range summary.Rows {
			r++
			cells := make([]any, 0, len(sr.Totals)+1)
			cells = append(cells, sr.Product)
			for _, total := range sr.Totals {
				cells = append(cells, totalValue(total))
			}
			setRow(f, sheet, r, cells, widths)
			if sr.IsSubtotal() {
				first, _ := excelize.CoordinatesToCellName(1, r)
				last, _ := excelize.CoordinatesToCellName(len(cells), r)
				_ = f.SetCellStyle(sheet, first, last, brandStyle)
			}
		}

		applyColWidths(f, sheet, widths)
	}

	if len(groups) > 0 {
		_ = f.DeleteSheet(defaultSheet)
	}
	_, err = f.WriteTo(w)
	return err
}

// SaveWorkbook writes the grouped report to a file, creating the parent
// directory as needed.
func SaveWorkbook(path string, groups []internal.Group, engine *Engine) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return WriteWorkbook(out, groups, engine)
}

// WriteTable renders the flat five-column table, xlsx or CSV by extension.
func WriteTable(path string, rows []internal.OutputRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeTableXLSX(path, rows)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Number, row.Responsible, row.Date, row.Product, row.Quantity}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTableXLSX(path string, rows []internal.OutputRow) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "Lagardere"); err != nil {
		return err
	}
	sheet = "Lagardere"

	setRow(f, sheet, 1, toAny(tableHeader), nil)
	for i, row := range rows {
		setRow(f, sheet, i+2, []any{row.Number, row.Responsible, row.Date, row.Product, row.Quantity}, nil)
	}
	return f.SaveAs(path)
}

// WriteExtractCSV renders the number->name extraction result, optionally
// with the document link as a third column.
func WriteExtractCSV(w io.Writer, results []internal.NumberLink, names map[string]string, includeLink bool) error {
	cw := csv.NewWriter(w)
	header := []string{"Номер", "Предал"}
	if includeLink {
		header = append(header, "Линк")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, item := range results {
		record := []string{item.Number, names[item.Link]}
		if includeLink {
			record = append(record, item.Link)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// totalValue keeps integral totals integral in the sheet.
func totalValue(v float64) any {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return int64(v)
	}
	return v
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func setRow(f *excelize.File, sheet string, row int, values []any, widths map[int]float64) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
		if widths != nil {
			if w := float64(len([]rune(fmt.Sprint(v)))) + 2; w > widths[i+1] {
				widths[i+1] = w
			}
		}
	}
}

func newColWidths() map[int]float64 {
	return map[int]float64{}
}

func applyColWidths(f *excelize.File, sheet string, widths map[int]float64) {
	for col, width := range widths {
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		_ = f.SetColWidth(sheet, name, name, width)
	}
}

// safeSheetTitle sanitizes a person's name into a legal, unique sheet title.
func safeSheetTitle(name string, existing map[string]struct{}) string {
	invalid := strings.NewReplacer("[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", "\\", "_")
	base := strings.TrimSpace(invalid.Replace(name))
	if base == "" {
		base = internal.UnknownResponsible
	}
	if runes := []rune(base); len(runes) > maxSheetTitle {
		base = string(runes[:maxSheetTitle])
	}

	title := base
	for counter := 2; ; counter++ {
		if _, taken := existing[title]; !taken {
			break
		}
		suffix := fmt.Sprintf(" %d", counter)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetTitle {
			runes = runes[:maxSheetTitle-len(suffix)]
		}
		title = string(runes) + suffix
	}
	existing[title] = struct{}{}
	return title
}

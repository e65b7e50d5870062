package report

import (
	"sort"
	"strings"

	"lagardere/internal"
	"lagardere/internal/util"
)

// PlaceholderDate is the single column header used when a group has no
// dated rows at all.
const PlaceholderDate = "Дата"

// Summary is the per-person pivot: one column per distinct date, one row per
// catalog product, with a blank-label brand subtotal row right after each
// brand's boundary product.
type Summary struct {
	Dates []string
	Rows  []SummaryRow
}

// SummaryRow holds one product's totals per date column. A row with an
// empty Product is a brand subtotal.
type SummaryRow struct {
	Product string
	Totals  []float64
}

// IsSubtotal reports whether the row is a brand subtotal row.
func (r SummaryRow) IsSubtotal() bool { return r.Product == "" }

// Engine aggregates output rows against a validated catalog.
type Engine struct {
	catalog Catalog
	// canonical catalog name by normalized form
	byNorm map[string]string
}

func NewEngine(catalog Catalog) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	byNorm := make(map[string]string, len(catalog.Order))
	for _, product := range catalog.Order {
		byNorm[util.NormalizeProduct(product)] = product
	}
	return &Engine{catalog: catalog, byNorm: byNorm}, nil
}

// Groups partitions rows by responsible person, preserving first-appearance
// order. Blank names fall into the sentinel group.
func Groups(rows []internal.OutputRow) []internal.Group {
	byName := map[string]int{}
	out := []internal.Group{}

	for _, row := range rows {
		name := strings.TrimSpace(row.Responsible)
		if name == "" {
			name = internal.UnknownResponsible
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(out)
			byName[name] = idx
			out = append(out, internal.Group{Name: name})
		}
		out[idx].Rows = append(out[idx].Rows, row)
	}

	return out
}

type cellKey struct {
	product string
	date    string
}

// Summarize builds one group's pivot. Rows whose product is not in the
// catalog or whose quantity does not parse are excluded from the totals
// (they still appear in the group's raw listing upstream).
func (e *Engine) Summarize(rows []internal.OutputRow) Summary {
	totals := map[cellKey]float64{}
	dateSet := map[string]struct{}{}

	for _, row := range rows {
		if row.Date != "" {
			dateSet[row.Date] = struct{}{}
		}
		canonical, ok := e.byNorm[util.NormalizeProduct(row.Product)]
		if !ok {
			continue
		}
		qty, ok := util.ParseQuantity(row.Quantity)
		if !ok {
			continue
		}
		totals[cellKey{product: canonical, date: row.Date}] += qty
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) == 0 {
		dates = []string{PlaceholderDate}
	}

	summary := Summary{Dates: dates}
	for _, product := range e.catalog.Order {
		row := SummaryRow{Product: product, Totals: make([]float64, len(dates))}
		for i, date := range dates {
			row.Totals[i] = totals[cellKey{product: product, date: date}]
		}
		summary.Rows = append(summary.Rows, row)

		brand, ok := e.catalog.Boundaries[product]
		if !ok {
			continue
		}
		subtotal := SummaryRow{Totals: make([]float64, len(dates))}
		for i, date := range dates {
			for _, brandProduct := range e.catalog.Brands[brand] {
				subtotal.Totals[i] += totals[cellKey{product: brandProduct, date: date}]
			}
		}
		summary.Rows = append(summary.Rows, subtotal)
	}

	return summary
}

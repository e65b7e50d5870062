package report

import (
	"reflect"
	"testing"

	"lagardere/internal"
)

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestGroupsFirstAppearanceOrder(t *testing.T) {
	rows := []internal.OutputRow{
		{Number: "1", Responsible: "Иван"},
		{Number: "2", Responsible: "Мария"},
		{Number: "3", Responsible: "Иван"},
		{Number: "4", Responsible: ""},
		{Number: "5", Responsible: "  "},
	}

	groups := Groups(rows)
	if len(groups) != 3 {
		t.Fatalf("len=%d", len(groups))
	}
	if groups[0].Name != "Иван" || groups[1].Name != "Мария" || groups[2].Name != internal.UnknownResponsible {
		t.Fatalf("order=%v %v %v", groups[0].Name, groups[1].Name, groups[2].Name)
	}
	if len(groups[0].Rows) != 2 || len(groups[2].Rows) != 2 {
		t.Fatalf("rows split: %d %d %d", len(groups[0].Rows), len(groups[1].Rows), len(groups[2].Rows))
	}
	if groups[0].Rows[1].Number != "3" {
		t.Fatalf("input order lost: %+v", groups[0].Rows)
	}
}

func TestSummarizeTotalsAndBrandSubtotal(t *testing.T) {
	engine := mustEngine(t)
	rows := []internal.OutputRow{
		{Product: "PAZ X-Freeze", Quantity: "3", Date: "2024-01-01"},
		{Product: "paz  x-freeze", Quantity: "2", Date: "2024-01-01"},
		{Product: "PAZ Mango", Quantity: "1,5", Date: "2024-01-02"},
		{Product: "Unknown product", Quantity: "99", Date: "2024-01-01"},
		{Product: "PAZ X-Freeze", Quantity: "abc", Date: "2024-01-01"},
	}

	summary := engine.Summarize(rows)
	if !reflect.DeepEqual(summary.Dates, []string{"2024-01-01", "2024-01-02"}) {
		t.Fatalf("dates=%v", summary.Dates)
	}

	byProduct := map[string]SummaryRow{}
	for _, row := range summary.Rows {
		if !row.IsSubtotal() {
			byProduct[row.Product] = row
		}
	}
	if got := byProduct["PAZ X-Freeze"].Totals[0]; got != 5 {
		t.Fatalf("x-freeze total=%v", got)
	}
	if got := byProduct["PAZ Mango"].Totals[1]; got != 1.5 {
		t.Fatalf("mango total=%v", got)
	}

	// Subtotal row sits immediately after the brand's boundary product.
	for i, row := range summary.Rows {
		if row.Product == "PAZ Berry frost +" {
			next := summary.Rows[i+1]
			if !next.IsSubtotal() {
				t.Fatalf("row after boundary is %+v", next)
			}
			if next.Totals[0] != 5 || next.Totals[1] != 1.5 {
				t.Fatalf("brand subtotal=%v", next.Totals)
			}
		}
	}
}

func TestSummarizeSubtotalPlacement(t *testing.T) {
	engine := mustEngine(t)
	summary := engine.Summarize(nil)

	catalog := DefaultCatalog()
	subtotals := 0
	for i, row := range summary.Rows {
		if row.IsSubtotal() {
			subtotals++
			if i == 0 {
				t.Fatal("subtotal before any product")
			}
			prev := summary.Rows[i-1]
			if _, ok := catalog.Boundaries[prev.Product]; !ok {
				t.Fatalf("subtotal after non-boundary product %q", prev.Product)
			}
		}
	}
	if subtotals != len(catalog.Boundaries) {
		t.Fatalf("subtotals=%d want %d", subtotals, len(catalog.Boundaries))
	}
	if len(summary.Rows) != len(catalog.Order)+len(catalog.Boundaries) {
		t.Fatalf("rows=%d", len(summary.Rows))
	}
}

func TestSummarizePlaceholderDateColumn(t *testing.T) {
	engine := mustEngine(t)
	rows := []internal.OutputRow{
		{Product: "PAZ Mango", Quantity: "4", Date: ""},
	}
	summary := engine.Summarize(rows)
	if !reflect.DeepEqual(summary.Dates, []string{PlaceholderDate}) {
		t.Fatalf("dates=%v", summary.Dates)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	engine := mustEngine(t)
	rows := []internal.OutputRow{
		{Product: "PAZ Lush ice", Quantity: "2,5", Date: "2024-02-01"},
		{Product: "V&YOU Boost+ Spearmint", Quantity: "1 000", Date: "2024-02-02"},
	}
	first := engine.Summarize(rows)
	second := engine.Summarize(rows)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("summaries differ between runs")
	}
}

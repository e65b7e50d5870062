package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"lagardere/internal/fetch"
	"lagardere/internal/report"
	"lagardere/internal/rows"
	"lagardere/internal/storage"
)

func TestSmokeSheetToWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	grid := [][]any{
		{"Номер", "Клиент", "Дата на документа", "Наименование на продукта", "Количество"},
		{"1001", "Лагардер Сървисиз", "2024-01-01", "PAZ X-Freeze", "3"},
		{"1002", "Лагардер Сървисиз", "2024-01-01", "PAZ X-Freeze", "2"},
		{"1003", "Лагардер Травел", "2024-01-02", "PAZ Mango", "1,5"},
	}
	for r, row := range grid {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, cell := range []string{"A2", "A3"} {
		if err := f.SetCellHyperLink(sheet, cell, "https://docs.example.test/shared", "External"); err != nil {
			t.Fatal(err)
		}
	}

	receipts, err := rows.Load(f, rows.Options{
		ClientPrefix:   "Лагардер",
		NumberHeader:   "Номер",
		ClientHeader:   "Клиент",
		DateHeader:     "Дата на документа",
		ProductHeader:  "Наименование на продукта",
		QuantityHeader: "Количество",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(receipts) != 3 {
		t.Fatalf("receipts=%d", len(receipts))
	}

	fetcher := &countingFetcher{}
	resolver := fetch.NewResolver(fetcher, nil)
	result := Resolve(context.Background(), receipts, resolver, nil)
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls=%d", fetcher.calls)
	}
	if result.Missing != 1 {
		t.Fatalf("missing=%d", result.Missing)
	}

	engine, err := report.NewEngine(report.DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}

	tmp := t.TempDir()
	out := filepath.Join(tmp, "result.xlsx")
	if err := report.SaveWorkbook(out, report.Groups(result.Rows), engine); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.UpsertLinks(resolver.Resolved()); err != nil {
		t.Fatal(err)
	}
	cached, err := db.AllLinks()
	if err != nil {
		t.Fatal(err)
	}
	if cached["https://docs.example.test/shared"] != "Иван Иванов" {
		t.Fatalf("cached=%v", cached)
	}
}

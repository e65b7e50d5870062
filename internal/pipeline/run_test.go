package pipeline

import (
	"context"
	"testing"

	"lagardere/internal"
	"lagardere/internal/fetch"
)

type countingFetcher struct {
	calls int
}

func (f *countingFetcher) Fetch(_ context.Context, link string) ([]byte, string, error) {
	f.calls++
	return []byte(`<p>Предал: Иван Иванов</p>`), "text/html; charset=utf-8", nil
}

func TestResolveRows(t *testing.T) {
	fetcher := &countingFetcher{}
	resolver := fetch.NewResolver(fetcher, nil)

	rows := []internal.ReceiptRow{
		{Number: "1", Link: "https://docs.example.test/a", Product: "PAZ Mango", Quantity: "2", Date: "2024-01-01"},
		{Number: "2", Link: "https://docs.example.test/a", Product: "PAZ Mango", Quantity: "3", Date: "2024-01-01"},
		{Number: "3", Product: "PAZ Mango", Quantity: "1"},
	}

	progress := [][2]int{}
	result := Resolve(context.Background(), rows, resolver, ObserverFunc(func(current, total int) {
		progress = append(progress, [2]int{current, total})
	}))

	if result.Processed != 3 || result.Missing != 1 {
		t.Fatalf("processed=%d missing=%d", result.Processed, result.Missing)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls=%d", fetcher.calls)
	}
	if result.Rows[0].Responsible != "Иван Иванов" || result.Rows[1].Responsible != "Иван Иванов" {
		t.Fatalf("rows=%+v", result.Rows)
	}
	if result.Rows[2].Responsible != "" {
		t.Fatalf("unlinked row resolved: %+v", result.Rows[2])
	}
	if len(progress) != 3 || progress[2] != [2]int{3, 3} {
		t.Fatalf("progress=%v", progress)
	}
}

func TestResolveLinks(t *testing.T) {
	fetcher := &countingFetcher{}
	resolver := fetch.NewResolver(fetcher, nil)

	links := []internal.NumberLink{
		{Number: "1001", Link: "https://docs.example.test/x"},
		{Number: "1002", Link: "https://docs.example.test/x"},
	}
	names := ResolveLinks(context.Background(), links, resolver, nil)
	if names["https://docs.example.test/x"] != "Иван Иванов" {
		t.Fatalf("names=%v", names)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls=%d", fetcher.calls)
	}
}

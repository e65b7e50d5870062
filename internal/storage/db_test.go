package storage

import (
	"path/filepath"
	"testing"
)

func TestLinkCacheRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	values := map[string]string{
		"https://docs.example.test/1": "Иван Иванов",
		"https://docs.example.test/2": "",
	}
	if err := db.UpsertLinks(values); err != nil {
		t.Fatal(err)
	}

	got, err := db.AllLinks()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got["https://docs.example.test/1"] != "Иван Иванов" {
		t.Fatalf("links=%v", got)
	}

	one, err := db.GetLink("https://docs.example.test/2")
	if err != nil {
		t.Fatal(err)
	}
	if one == nil || *one != "" {
		t.Fatalf("cached absence lost: %v", one)
	}

	missing, err := db.GetLink("https://docs.example.test/none")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("unexpected hit: %v", *missing)
	}

	if err := db.InsertRun("abc123", "report", "input.xlsx", map[string]int{"processed": 3, "missing": 1}, map[string]float64{"totalMs": 12}); err != nil {
		t.Fatal(err)
	}
}

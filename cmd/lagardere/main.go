package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"lagardere/internal"
	"lagardere/internal/config"
	"lagardere/internal/fetch"
	"lagardere/internal/merge"
	"lagardere/internal/pipeline"
	"lagardere/internal/report"
	"lagardere/internal/rows"
	"lagardere/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input .xlsx file")
		output := fs.String("output", "", "output CSV file")
		sheet := fs.String("sheet", "", "sheet name (default: first sheet)")
		numberHeader := fs.String("number-header", cfg.NumberHeader, "header of the number column")
		includeLink := fs.Bool("include-link", false, "include the document link column")
		addFetchFlags(fs, &cfg)
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		runExtract(cfg, *input, *output, *sheet, *numberHeader, *includeLink)
	case "table":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input .xlsx file")
		output := fs.String("output", "", "output file (.xlsx or .csv)")
		sheet := fs.String("sheet", "", "sheet name (default: first sheet)")
		prefix := fs.String("prefix", cfg.ClientPrefix, "client name prefix")
		addFetchFlags(fs, &cfg)
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		runTable(cfg, *input, *output, *sheet, *prefix)
	case "report":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input .xlsx file")
		output := fs.String("output", "", "output .xlsx file")
		sheet := fs.String("sheet", "", "sheet name (default: first sheet)")
		prefix := fs.String("prefix", cfg.ClientPrefix, "client name prefix")
		addFetchFlags(fs, &cfg)
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		runReport(cfg, *input, *output, *sheet, *prefix)
	case "csv:merge":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		glob := fs.String("glob", "", "input glob, e.g. './data/*.csv'")
		output := fs.String("output", "", "output CSV file")
		preview := fs.Int("preview", 5, "data rows to preview (0 to disable)")
		_ = fs.Parse(os.Args[2:])
		if *glob == "" || *output == "" {
			must(fmt.Errorf("--glob and --output are required"))
		}
		result, err := merge.Merge(*glob, *output)
		must(err)
		fmt.Printf("merged %d files, %d rows -> %s\n", result.Files, result.Rows, *output)
		if *preview > 0 {
			fmt.Println("\npreview:")
			must(merge.Preview(os.Stdout, *output, *preview))
		}
	default:
		usage()
		os.Exit(1)
	}
}

func addFetchFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.IntVar(&cfg.FetchTimeoutMs, "timeout-ms", cfg.FetchTimeoutMs, "request timeout in milliseconds")
	fs.IntVar(&cfg.FetchDelayMs, "delay-ms", cfg.FetchDelayMs, "delay between requests in milliseconds")
	fs.StringVar(&cfg.FetchCookie, "cookie", cfg.FetchCookie, "Cookie header value if login is required")
}

func runExtract(cfg config.Config, input, output, sheet, numberHeader string, includeLink bool) {
	f, err := excelize.OpenFile(input)
	if err != nil {
		must(fmt.Errorf("failed to read Excel file: %w", err))
	}
	defer f.Close()

	links, err := rows.Links(f, sheet, numberHeader)
	must(err)
	if len(links) == 0 {
		must(fmt.Errorf("no hyperlinks found in the number column"))
	}

	started := time.Now()
	resolver, db := makeResolver(cfg)
	if db != nil {
		defer db.Close()
	}
	names := pipeline.ResolveLinks(context.Background(), links, resolver, progressObserver())
	fmt.Fprintln(os.Stderr)

	out, err := os.Create(output)
	must(err)
	defer out.Close()
	must(report.WriteExtractCSV(out, links, names, includeLink))

	missing := 0
	for _, item := range links {
		if names[item.Link] == "" {
			missing++
		}
	}
	finishRun(cfg, db, "extract", input, resolver, pipeline.Result{Processed: len(links), Missing: missing}, started)
	fmt.Printf("processed %d documents, missing 'Предал' for %d\n", len(links), missing)
}

func runTable(cfg config.Config, input, output, sheet, prefix string) {
	receipts := loadReceipts(cfg, input, sheet, prefix)

	started := time.Now()
	resolver, db := makeResolver(cfg)
	if db != nil {
		defer db.Close()
	}
	result := pipeline.Resolve(context.Background(), receipts, resolver, progressObserver())
	fmt.Fprintln(os.Stderr)

	must(report.WriteTable(output, result.Rows))
	finishRun(cfg, db, "table", input, resolver, result, started)
	fmt.Printf("wrote %d rows, missing 'Предал' for %d rows\n", result.Processed, result.Missing)
}

func runReport(cfg config.Config, input, output, sheet, prefix string) {
	engine, err := report.NewEngine(report.DefaultCatalog())
	must(err)

	receipts := loadReceipts(cfg, input, sheet, prefix)

	started := time.Now()
	resolver, db := makeResolver(cfg)
	if db != nil {
		defer db.Close()
	}
	result := pipeline.Resolve(context.Background(), receipts, resolver, progressObserver())
	fmt.Fprintln(os.Stderr)

	must(report.SaveWorkbook(output, report.Groups(result.Rows), engine))
	finishRun(cfg, db, "report", input, resolver, result, started)
	fmt.Printf("wrote %s, %d rows, missing 'Предал' for %d rows\n", output, result.Processed, result.Missing)
}

func loadReceipts(cfg config.Config, input, sheet, prefix string) []internal.ReceiptRow {
	f, err := excelize.OpenFile(input)
	if err != nil {
		must(fmt.Errorf("failed to read Excel file: %w", err))
	}
	defer f.Close()

	opts := rows.OptionsFromConfig(cfg)
	opts.Sheet = sheet
	opts.ClientPrefix = prefix
	receipts, err := rows.Load(f, opts)
	must(err)
	if len(receipts) == 0 {
		must(fmt.Errorf("no matching rows for the client prefix"))
	}
	return receipts
}

func makeResolver(cfg config.Config) (*fetch.Resolver, *storage.DB) {
	resolver := fetch.NewResolver(fetch.NewClient(cfg), fetch.NewPacer(time.Duration(cfg.FetchDelayMs)*time.Millisecond))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storage unavailable: %v\n", err)
		return resolver, nil
	}
	if cfg.LinkCacheEnabled {
		if cached, err := db.AllLinks(); err == nil {
			resolver.Seed(cached)
		}
	}
	return resolver, db
}

func finishRun(cfg config.Config, db *storage.DB, command, input string, resolver *fetch.Resolver, result pipeline.Result, started time.Time) {
	if db == nil {
		return
	}
	if cfg.LinkCacheEnabled {
		_ = db.UpsertLinks(resolver.Resolved())
	}
	pipeline.RecordRun(db, command, input, result, started)
}

func progressObserver() pipeline.Observer {
	return pipeline.ObserverFunc(func(current, total int) {
		fmt.Fprintf(os.Stderr, "\rобработени: %d/%d", current, total)
	})
}

func usage() {
	fmt.Println("usage: lagardere <command>")
	fmt.Println("commands:")
	fmt.Println("  extract   --input=in.xlsx --output=out.csv [--sheet=...] [--number-header=Номер] [--include-link]")
	fmt.Println("  table     --input=in.xlsx --output=out.csv|out.xlsx [--prefix=Лагардер] [--sheet=...]")
	fmt.Println("  report    --input=in.xlsx --output=out.xlsx [--prefix=Лагардер] [--sheet=...]")
	fmt.Println("  csv:merge --glob='./data/*.csv' --output=merged.csv [--preview=5]")
	fmt.Println("fetch flags: --timeout-ms --delay-ms --cookie")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

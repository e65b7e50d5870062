// Package pipeline ties row loading, name resolution and reporting together.
package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"lagardere/internal"
	"lagardere/internal/fetch"
)

// Observer receives per-row progress. Implementations must not block; a nil
// observer disables progress reporting.
type Observer interface {
	OnProgress(current, total int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(current, total int)

func (f ObserverFunc) OnProgress(current, total int) { f(current, total) }

// Result is one run's output rows plus the counts always reported to the
// user.
type Result struct {
	Rows      []internal.OutputRow
	Processed int
	Missing   int
}

// Resolve turns receipt rows into output rows by resolving each linked
// document's "Предал" name through the cache. Rows without a link keep an
// empty responsible field. Individual fetch failures never abort the run.
func Resolve(ctx context.Context, rows []internal.ReceiptRow, resolver *fetch.Resolver, obs Observer) Result {
	out := make([]internal.OutputRow, 0, len(rows))
	missing := 0

	for i, row := range rows {
		responsible := ""
		if row.Link != "" {
			responsible = resolver.Resolve(ctx, row.Link)
		}
		if strings.TrimSpace(responsible) == "" {
			missing++
		}
		out = append(out, internal.OutputRow{
			Number:      row.Number,
			Responsible: responsible,
			Date:        row.Date,
			Product:     row.Product,
			Quantity:    row.Quantity,
			Link:        row.Link,
		})
		if obs != nil {
			obs.OnProgress(i+1, len(rows))
		}
	}

	return Result{Rows: out, Processed: len(out), Missing: missing}
}

// ResolveLinks resolves the distinct number->link pairs of the extraction
// command, returning the name per link.
func ResolveLinks(ctx context.Context, links []internal.NumberLink, resolver *fetch.Resolver, obs Observer) map[string]string {
	names := make(map[string]string, len(links))
	for i, item := range links {
		names[item.Link] = resolver.Resolve(ctx, item.Link)
		if obs != nil {
			obs.OnProgress(i+1, len(links))
		}
	}
	return names
}

// RunRecorder persists run statistics. Persistence failures are reported by
// the recorder itself and never fail the run.
type RunRecorder interface {
	InsertRun(traceID, command, sourceFile string, counts map[string]int, timings map[string]float64) error
}

// RecordRun logs one finished run to the recorder, best effort.
func RecordRun(rec RunRecorder, command, sourceFile string, result Result, started time.Time) {
	if rec == nil {
		return
	}
	counts := map[string]int{"processed": result.Processed, "missing": result.Missing}
	timings := map[string]float64{"totalMs": float64(time.Since(started).Milliseconds())}
	if err := rec.InsertRun(TraceID(), command, sourceFile, counts, timings); err != nil {
		fmt.Printf("run record failed: %v\n", err)
	}
}

// TraceID returns a short random identifier for correlating run records.
func TraceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

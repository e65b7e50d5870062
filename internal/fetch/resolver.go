package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html/charset"

	"lagardere/internal/chunk"
	"lagardere/internal/extract"
)

// Resolver memoizes fetch-and-extract per document link: at most one fetch
// per distinct link for the lifetime of the resolver, failures included.
// Concurrent callers of the same link wait for the in-flight fetch and share
// its result.
type Resolver struct {
	fetcher Fetcher
	pacer   *Pacer

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	done  chan struct{}
	value string
}

func NewResolver(fetcher Fetcher, pacer *Pacer) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		pacer:   pacer,
		entries: map[string]*entry{},
	}
}

// Seed pre-populates resolved values, e.g. from a persistent link cache.
// Seeded links are never fetched.
func (r *Resolver) Seed(values map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for link, value := range values {
		if _, ok := r.entries[link]; ok {
			continue
		}
		e := &entry{done: make(chan struct{}), value: value}
		close(e.done)
		r.entries[link] = e
	}
}

// Resolve returns the "Предал" name behind link, "" when absent. Transport
// errors, non-textual content and marker misses all degrade to "" and are
// cached like any other result.
func (r *Resolver) Resolve(ctx context.Context, link string) string {
	r.mu.Lock()
	if e, ok := r.entries[link]; ok {
		r.mu.Unlock()
		<-e.done
		return e.value
	}
	e := &entry{done: make(chan struct{})}
	r.entries[link] = e
	r.mu.Unlock()

	e.value = r.fetchAndExtract(ctx, link)
	close(e.done)
	return e.value
}

// Resolved snapshots every settled link, for write-through to the
// persistent cache. Links still in flight are skipped.
func (r *Resolver) Resolved() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.entries))
	for link, e := range r.entries {
		select {
		case <-e.done:
			out[link] = e.value
		default:
		}
	}
	return out
}

func (r *Resolver) fetchAndExtract(ctx context.Context, link string) string {
	if r.pacer != nil {
		r.pacer.WaitTurn()
	}

	body, contentType, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed for %s: %v\n", link, err)
		return ""
	}

	var chunks []string
	switch {
	case strings.Contains(contentType, "text/html"):
		decoded, err := charset.NewReader(bytes.NewReader(body), contentType)
		if err != nil {
			decoded = bytes.NewReader(body)
		}
		chunks = chunk.HTML(decoded)
	case strings.Contains(contentType, "application/pdf"):
		chunks, err = chunk.PDF(body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pdf parse failed for %s: %v\n", link, err)
			return ""
		}
	default:
		return ""
	}

	return extract.Clean(extract.FromChunks(chunks))
}

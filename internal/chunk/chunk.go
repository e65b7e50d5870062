// Package chunk flattens marked-up documents into ordered, trimmed text
// fragments. Markup structure is discarded; only text content survives.
package chunk

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// HTML returns the non-empty trimmed text nodes of an HTML document in
// document order. Malformed markup never aborts: whatever was collected
// before a failure is returned.
func HTML(r io.Reader) []string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil
	}

	out := []string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range doc.Selection.Nodes {
		walk(node)
	}
	return out
}

// HTMLString is HTML over an in-memory document.
func HTMLString(doc string) []string {
	return HTML(strings.NewReader(doc))
}

// PDF returns the non-empty trimmed lines of a PDF document, page by page.
// Pages that fail to render are skipped.
func PDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, splitLines(text)...)
	}
	return out, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

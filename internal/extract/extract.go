// Package extract locates the "ПРЕДАЛ" name inside receipt text chunks.
package extract

import (
	"strings"
	"unicode"
)

// Marker labels the handed-over-by field in receipt documents.
const Marker = "ПРЕДАЛ"

// boilerplate is the signature hint some receipts append after the name slot.
const boilerplate = "(име, фамилия, подпис):"

// markerCutset covers the punctuation around the label: spaces, colons and
// the no-break space.
const markerCutset = " : "

// FromChunks scans chunks in order for the marker, case-insensitively. The
// name is either the remainder of the marker's own chunk or, failing that,
// the following chunk when that chunk is not itself a label (does not end
// with a colon). A marker occurrence that yields neither does not stop the
// scan; later occurrences are still considered. Returns "" when no
// occurrence yields a value.
func FromChunks(chunks []string) string {
	for i, chunk := range chunks {
		idx, width := markerIndex(chunk)
		if idx < 0 {
			continue
		}

		after := strings.TrimLeft(chunk[idx+width:], markerCutset)
		if after != "" {
			return after
		}

		if i+1 < len(chunks) {
			next := strings.TrimSpace(chunks[i+1])
			if next != "" && !strings.HasSuffix(next, ":") {
				return next
			}
		}
	}
	return ""
}

// Clean strips the boilerplate phrase wherever it occurs, case-insensitively,
// and re-trims label punctuation. A separate step so callers that want the
// raw extracted value can skip it.
func Clean(value string) string {
	text := strings.TrimSpace(value)
	for {
		idx := strings.Index(strings.ToLower(text), boilerplate)
		if idx < 0 {
			break
		}
		text = strings.TrimSpace(text[:idx] + text[idx+len(boilerplate):])
	}
	return strings.Trim(text, markerCutset)
}

// markerIndex finds the marker in chunk ignoring case and returns its byte
// offset and byte width there, or (-1, 0). Cased rune-by-rune so offsets
// stay valid in the original string.
func markerIndex(chunk string) (int, int) {
	marker := []rune(Marker)
	runes := []rune(chunk)

	for i := 0; i+len(marker) <= len(runes); i++ {
		match := true
		for j, m := range marker {
			if unicode.ToUpper(runes[i+j]) != m {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		start := len(string(runes[:i]))
		width := len(string(runes[i : i+len(marker)]))
		return start, width
	}
	return -1, 0
}

package catalog

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Columns holds the resolved header indexes for a catalog. An index of -1
// means the column is absent.
type Columns struct {
	ID    int
	Front int
	Back  int
}

// Resolved reports whether both asset columns were found.
func (c Columns) Resolved() bool {
	return c.Front >= 0 && c.Back >= 0
}

var idHeaders = []string{"card_id", "id", "cardid", "name"}

// DetectColumns resolves the id, front and back columns from a header row.
//
// Front prefers a header containing both "front" and "url", then any
// "front" header, then the first "url" header. Back works the same way with
// "back" and falls back to the second "url" header. Matching is a
// case-insensitive substring test.
func DetectColumns(headers []string) (Columns, error) {
	var urlCols, frontCols, backCols []int
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(lower, "url") {
			urlCols = append(urlCols, i)
		}
		if strings.Contains(lower, "front") {
			frontCols = append(frontCols, i)
		}
		if strings.Contains(lower, "back") {
			backCols = append(backCols, i)
		}
	}
	if len(urlCols) == 0 && len(frontCols) == 0 {
		return Columns{ID: -1, Front: -1, Back: -1}, missingHeadersError(headers)
	}

	cols := Columns{
		ID:    detectIDColumn(headers),
		Front: pickColumn(headers, frontCols, urlCols, 0),
		Back:  pickColumn(headers, backCols, urlCols, 1),
	}
	return cols, nil
}

func pickColumn(headers []string, named, urls []int, urlFallback int) int {
	for _, i := range named {
		if strings.Contains(strings.ToLower(headers[i]), "url") {
			return i
		}
	}
	if len(named) > 0 {
		return named[0]
	}
	if len(urls) > urlFallback {
		return urls[urlFallback]
	}
	return -1
}

func detectIDColumn(headers []string) int {
	for _, want := range idHeaders {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
	}
	return -1
}

func missingHeadersError(headers []string) error {
	if len(headers) == 0 {
		return fmt.Errorf("header row is empty")
	}
	return fmt.Errorf("no url/front column in headers %q (closest: %q)", headers, closestHeader(headers, "front_url"))
}

func closestHeader(headers []string, want string) string {
	best, bestDist := "", -1
	for _, h := range headers {
		d := levenshtein.ComputeDistance(strings.ToLower(strings.TrimSpace(h)), want)
		if bestDist < 0 || d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

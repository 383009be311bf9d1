package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Result summarises one catalog ingestion.
type Result struct {
	Cards   []Card
	Headers []string
	Columns Columns
	Rows    int
	Dropped int
}

// Parse reads a header-first CSV catalog and returns the valid cards in row
// order. Rows missing either asset reference are dropped silently. Zero
// valid rows is reported as ErrEmptyCatalog; a missing or unusable header
// row as ErrCatalogParse.
func Parse(r io.Reader, source string, rw Rewriter) (Result, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	csvr.LazyQuotes = true

	headers, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, parseErrorf(source, "catalog is empty")
	}
	if err != nil {
		return Result{}, parseErrorf(source, "read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	cols, err := DetectColumns(headers)
	if err != nil {
		return Result{Headers: headers}, &Error{Kind: ErrCatalogParse, Source: source, Err: err}
	}

	res := Result{Headers: headers, Columns: cols}
	seen := make(map[string]int)
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, parseErrorf(source, "line %d: %w", res.Rows+2, err)
		}
		res.Rows++
		if blankRecord(rec) {
			res.Rows--
			continue
		}
		card, ok := rowToCard(rec, cols, res.Rows, rw)
		if !ok {
			res.Dropped++
			continue
		}
		card.ID = uniqueID(seen, card.ID)
		res.Cards = append(res.Cards, card)
	}
	if len(res.Cards) == 0 {
		return res, EmptyError(source)
	}
	return res, nil
}

func rowToCard(rec []string, cols Columns, row int, rw Rewriter) (Card, bool) {
	front := field(rec, cols.Front)
	back := field(rec, cols.Back)
	if front == "" || back == "" {
		return Card{}, false
	}
	id := field(rec, cols.ID)
	if id == "" {
		id = fmt.Sprintf("row-%d", row)
	}
	c := Card{
		ID:            id,
		FrontRef:      rw.Rewrite(front),
		BackRef:       rw.Rewrite(back),
		FrontOriginal: front,
		BackOriginal:  back,
	}
	return c, c.Valid()
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// uniqueID suffixes repeated ids with "#2", "#3", ... so every card in a
// catalog is distinct.
func uniqueID(seen map[string]int, id string) string {
	seen[id]++
	n := seen[id]
	if n == 1 {
		return id
	}
	candidate := fmt.Sprintf("%s#%d", id, n)
	for seen[candidate] > 0 {
		n++
		candidate = fmt.Sprintf("%s#%d", id, n)
	}
	seen[candidate] = 1
	return candidate
}

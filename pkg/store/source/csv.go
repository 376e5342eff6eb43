package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/fleximart/pkg/models/domain"
)

// naTokens are the cell spellings read as a missing value.
var naTokens = func() map[string]struct{} {
	tokens := []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}()

// IsMissing reports whether a raw cell stands for an absent value.
func IsMissing(cell string) bool {
	_, ok := naTokens[strings.TrimSpace(cell)]
	return ok
}

// ParseCell turns a raw cell into a Present or Missing value.
func ParseCell(cell string) domain.Value {
	if IsMissing(cell) {
		return domain.Missing()
	}
	return domain.Present(cell)
}

// ReadCSV decodes a header-first CSV stream into a text-typed table.
func ReadCSV(r io.Reader, name string) (domain.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, fmt.Errorf("%s: empty file, header row expected", name)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("%s: failed to read header: %w", name, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	table := domain.NewTable(name, header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("%s: failed to read row %d: %w", name, table.Len()+1, err)
		}

		values := make([]domain.Value, len(record))
		for i, cell := range record {
			values[i] = ParseCell(cell)
		}
		table.Append(values...)
	}
	return table, nil
}

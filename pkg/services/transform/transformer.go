// Package transform cleans one raw table at a time: it removes exact
// duplicates, applies the per-column missing-value policies and normalizers,
// and reports what it changed through domain.QualityCounters.
package transform

import (
	"context"
	"fmt"

	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Transformer struct {
	table       string
	rules       []Rule
	derivations []Derivation
}

func New(table string, rules []Rule, derivations ...Derivation) *Transformer {
	return &Transformer{
		table:       table,
		rules:       rules,
		derivations: derivations,
	}
}

func NewCustomers() *Transformer {
	return New(CustomersTable, CustomerRules())
}

func NewProducts() *Transformer {
	return New(ProductsTable, ProductRules())
}

func NewSales() *Transformer {
	return New(SalesTable, SaleRules(), Subtotal)
}

func (t *Transformer) Table() string {
	return t.table
}

// Transform returns a cleaned copy of raw together with the counters of the
// run. raw itself is never modified.
func (t *Transformer) Transform(ctx context.Context, raw domain.Table) (domain.Table, domain.QualityCounters, error) {
	logger := zerolog.Ctx(ctx).With().Str("table", t.table).Logger()
	counters := domain.NewQualityCounters(t.table)
	counters.Processed = raw.Len()

	indexes, err := t.resolve(raw)
	if err != nil {
		return domain.Table{}, counters, err
	}

	cleaned := coerce(raw, t.rules, indexes)
	cleaned, counters.DuplicatesRemoved = dropDuplicates(cleaned)
	cleaned = t.dropMissing(cleaned, indexes, &counters)
	cleaned = t.fillMissing(cleaned, indexes, &counters)
	cleaned = t.normalize(cleaned, indexes)

	cleaned, err = t.derive(cleaned)
	if err != nil {
		return domain.Table{}, counters, err
	}
	counters.Loaded = cleaned.Len()

	logger.Debug().
		Int("processed", counters.Processed).
		Int("duplicates_removed", counters.DuplicatesRemoved).
		Int("loaded", counters.Loaded).
		Msg("table transformed")

	return cleaned, counters, nil
}

func (t *Transformer) resolve(raw domain.Table) (map[string]int, error) {
	indexes := make(map[string]int, len(t.rules))
	for _, rule := range t.rules {
		idx := raw.Index(rule.Column)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s.%s", domain.ErrMissingColumn, t.table, rule.Column)
		}
		indexes[rule.Column] = idx
	}
	return indexes, nil
}

// coerce copies raw, stamps the rule column types and turns numeric text
// into canonical decimal text. Unparseable numbers become Invalid.
func coerce(raw domain.Table, rules []Rule, indexes map[string]int) domain.Table {
	out := raw.Clone()
	for _, rule := range rules {
		idx := indexes[rule.Column]
		if rule.Type != "" {
			out.Columns[idx].Type = rule.Type
		}
		if rule.Type != domain.ColumnNumber && rule.Type != domain.ColumnInteger {
			continue
		}
		for _, row := range out.Rows {
			row[idx] = coerceNumber(row[idx], rule.Type)
		}
	}
	return out
}

func coerceNumber(v domain.Value, typ domain.ColumnType) domain.Value {
	if !v.IsPresent() {
		return v
	}
	d, err := decimal.NewFromString(v.Text())
	if err != nil {
		return domain.Invalid(v.Text())
	}
	if typ == domain.ColumnInteger && !d.IsInteger() {
		return domain.Invalid(v.Text())
	}
	return domain.Present(d.String())
}

// dropDuplicates keeps the first occurrence of every distinct row.
func dropDuplicates(table domain.Table) (domain.Table, int) {
	seen := make(map[string]struct{}, table.Len())
	kept := make([]domain.Record, 0, table.Len())
	for _, row := range table.Rows {
		key := row.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := table.Len() - len(kept)
	table.Rows = kept
	return table, removed
}

// dropMissing counts the gaps of every Drop column first, then removes each
// row with at least one of them. A row missing two such columns counts once
// per column.
func (t *Transformer) dropMissing(table domain.Table, indexes map[string]int, counters *domain.QualityCounters) domain.Table {
	var cols []int
	for _, rule := range t.rules {
		if rule.Policy != Drop {
			continue
		}
		idx := indexes[rule.Column]
		cols = append(cols, idx)
		counters.MissingRemoved[rule.Column] = countAbsent(table, idx)
	}
	if len(cols) == 0 {
		return table
	}

	kept := make([]domain.Record, 0, table.Len())
	for _, row := range table.Rows {
		if hasAbsent(row, cols) {
			continue
		}
		kept = append(kept, row)
	}
	table.Rows = kept
	return table
}

// fillMissing computes each Fill column's substitute before touching the
// column, so earlier substitutions never feed into it.
func (t *Transformer) fillMissing(table domain.Table, indexes map[string]int, counters *domain.QualityCounters) domain.Table {
	for _, rule := range t.rules {
		if rule.Policy != Fill || rule.Fill == nil {
			continue
		}
		idx := indexes[rule.Column]
		fill := rule.Fill(table.Column(rule.Column))
		counters.MissingFilled[rule.Column] = countAbsent(table, idx)
		for _, row := range table.Rows {
			if !row[idx].IsPresent() {
				row[idx] = fill
			}
		}
	}
	return table
}

// normalize rewrites every value of the normalized columns. Values that fail
// to normalize stay in the table as Invalid.
func (t *Transformer) normalize(table domain.Table, indexes map[string]int) domain.Table {
	for _, rule := range t.rules {
		if rule.Normalize == nil {
			continue
		}
		idx := indexes[rule.Column]
		for _, row := range table.Rows {
			row[idx] = rule.Normalize(row[idx])
		}
	}
	return table
}

func (t *Transformer) derive(table domain.Table) (domain.Table, error) {
	for _, d := range t.derivations {
		sources := make([]int, len(d.Sources))
		for i, name := range d.Sources {
			sources[i] = table.Index(name)
			if sources[i] < 0 {
				return domain.Table{}, fmt.Errorf("%w: %s.%s", domain.ErrMissingColumn, t.table, name)
			}
		}

		target := table.Index(d.Column)
		if target < 0 {
			target = len(table.Columns)
			table.Columns = append(table.Columns, domain.Column{Name: d.Column})
			for i, row := range table.Rows {
				table.Rows[i] = append(row, domain.Missing())
			}
		}
		table.Columns[target].Type = d.Type

		for _, row := range table.Rows {
			args := make([]domain.Value, len(sources))
			for j, idx := range sources {
				args[j] = row[idx]
			}
			row[target] = d.Compute(args)
		}
	}
	return table, nil
}

func countAbsent(table domain.Table, idx int) int {
	n := 0
	for _, row := range table.Rows {
		if !row[idx].IsPresent() {
			n++
		}
	}
	return n
}

func hasAbsent(row domain.Record, cols []int) bool {
	for _, idx := range cols {
		if !row[idx].IsPresent() {
			return true
		}
	}
	return false
}

package adapters

import (
	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/de-tools/fleximart/pkg/models/store"
	"github.com/shopspring/decimal"
)

// MapDomainTableToStoreBatch converts a cleaned table into driver values.
// Missing and Invalid values become NULL.
func MapDomainTableToStoreBatch(name string, table domain.Table) store.TableBatch {
	batch := store.TableBatch{
		Name:    name,
		Columns: make([]store.Column, len(table.Columns)),
		Rows:    make([][]any, 0, table.Len()),
	}
	for i, c := range table.Columns {
		batch.Columns[i] = MapDomainColumnToStore(c)
	}
	for _, row := range table.Rows {
		values := make([]any, len(table.Columns))
		for i, c := range table.Columns {
			values[i] = MapValueToDriver(row[i], c.Type)
		}
		batch.Rows = append(batch.Rows, values)
	}
	return batch
}

func MapDomainColumnToStore(c domain.Column) store.Column {
	typ := store.ColumnText
	switch c.Type {
	case domain.ColumnNumber:
		typ = store.ColumnNumber
	case domain.ColumnInteger:
		typ = store.ColumnInteger
	case domain.ColumnDate:
		typ = store.ColumnDate
	}
	return store.Column{Name: c.Name, Type: typ}
}

// MapValueToDriver renders v for a column of type typ. Numeric text that
// does not parse is stored as NULL rather than failing the load.
func MapValueToDriver(v domain.Value, typ domain.ColumnType) any {
	if !v.IsPresent() {
		return nil
	}
	switch typ {
	case domain.ColumnNumber:
		d, err := decimal.NewFromString(v.Text())
		if err != nil {
			return nil
		}
		return d.InexactFloat64()
	case domain.ColumnInteger:
		d, err := decimal.NewFromString(v.Text())
		if err != nil {
			return nil
		}
		return d.IntPart()
	default:
		return v.Text()
	}
}

package adapters

import (
	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/de-tools/fleximart/pkg/models/store"
)

func MapDomainOrdersToStoreBatch(orders []domain.Order) store.TableBatch {
	batch := store.TableBatch{
		Name:    store.OrdersTable,
		Columns: store.OrdersSchema,
		Rows:    make([][]any, 0, len(orders)),
	}
	for _, o := range orders {
		batch.Rows = append(batch.Rows, []any{
			MapValueToDriver(o.CustomerID, domain.ColumnText),
			MapValueToDriver(o.OrderDate, domain.ColumnDate),
			MapValueToDriver(o.Status, domain.ColumnText),
			o.TotalAmount.InexactFloat64(),
		})
	}
	return batch
}

func MapDomainOrderItemsToStoreBatch(items []domain.OrderItem) store.TableBatch {
	batch := store.TableBatch{
		Name:    store.OrderItemsTable,
		Columns: store.OrderItemsSchema,
		Rows:    make([][]any, 0, len(items)),
	}
	for _, item := range items {
		batch.Rows = append(batch.Rows, []any{
			MapValueToDriver(item.ProductID, domain.ColumnText),
			MapValueToDriver(item.Quantity, domain.ColumnInteger),
			MapValueToDriver(item.UnitPrice, domain.ColumnNumber),
			MapValueToDriver(item.Subtotal, domain.ColumnNumber),
		})
	}
	return batch
}

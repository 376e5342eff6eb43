// Package orders splits the cleaned sales table into orders and order items.
package orders

import (
	"fmt"
	"strings"

	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const (
	colCustomerID      = "customer_id"
	colTransactionDate = "transaction_date"
	colStatus          = "status"
	colProductID       = "product_id"
	colQuantity        = "quantity"
	colUnitPrice       = "unit_price"
	colSubtotal        = "subtotal"
)

// Derive returns the orders and order items of a cleaned sales table.
func Derive(sales domain.Table) ([]domain.Order, []domain.OrderItem, error) {
	orders, err := DeriveOrders(sales)
	if err != nil {
		return nil, nil, err
	}
	items, err := DeriveItems(sales)
	if err != nil {
		return nil, nil, err
	}
	return orders, items, nil
}

// DeriveOrders projects every sales row to (customer_id, order_date, status),
// stamps it with the batch-wide subtotal sum of its customer and keeps the
// first occurrence of each distinct tuple.
//
// Totals are grouped by customer only, so orders of the same customer on
// different dates all carry the same grand total, and two transactions that
// share customer, date and status collapse into one order.
func DeriveOrders(sales domain.Table) ([]domain.Order, error) {
	idx, err := indexes(sales, colCustomerID, colTransactionDate, colStatus, colSubtotal)
	if err != nil {
		return nil, err
	}

	totals := CustomerTotals(sales.Rows, idx[colCustomerID], idx[colSubtotal])

	seen := make(map[string]struct{}, sales.Len())
	orders := make([]domain.Order, 0, sales.Len())
	for _, row := range sales.Rows {
		customer := row[idx[colCustomerID]]
		order := domain.Order{
			CustomerID:  customer,
			OrderDate:   row[idx[colTransactionDate]],
			Status:      row[idx[colStatus]],
			TotalAmount: totals[customer.NullKey()],
		}

		key := strings.Join([]string{
			order.CustomerID.NullKey(),
			order.OrderDate.NullKey(),
			order.Status.NullKey(),
			order.TotalAmount.String(),
		}, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		orders = append(orders, order)
	}
	return orders, nil
}

// CustomerTotals sums the usable subtotals per customer key. Absent or
// non-numeric subtotals add nothing.
func CustomerTotals(rows []domain.Record, customerIdx, subtotalIdx int) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, row := range rows {
		key := row[customerIdx].NullKey()
		sum := totals[key]
		if v := row[subtotalIdx]; v.IsPresent() {
			if d, err := decimal.NewFromString(v.Text()); err == nil {
				sum = sum.Add(d)
			}
		}
		totals[key] = sum
	}
	return totals
}

// DeriveItems maps each sales row to exactly one order item.
func DeriveItems(sales domain.Table) ([]domain.OrderItem, error) {
	idx, err := indexes(sales, colProductID, colQuantity, colUnitPrice, colSubtotal)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, sales.Len())
	for _, row := range sales.Rows {
		items = append(items, domain.OrderItem{
			ProductID: row[idx[colProductID]],
			Quantity:  row[idx[colQuantity]],
			UnitPrice: row[idx[colUnitPrice]],
			Subtotal:  row[idx[colSubtotal]],
		})
	}
	return items, nil
}

func indexes(table domain.Table, columns ...string) (map[string]int, error) {
	out := make(map[string]int, len(columns))
	for _, c := range columns {
		i := table.Index(c)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s.%s", domain.ErrMissingColumn, table.Name, c)
		}
		out[c] = i
	}
	return out, nil
}

package domain

import "github.com/shopspring/decimal"

// Order is derived from the cleaned sales rows of one batch.
// TotalAmount is the sum of every sales subtotal of CustomerID in the batch,
// not of this order alone.
type Order struct {
	CustomerID  Value
	OrderDate   Value
	Status      Value
	TotalAmount decimal.Decimal
}

// OrderItem mirrors one surviving sales row.
type OrderItem struct {
	ProductID Value
	Quantity  Value
	UnitPrice Value
	Subtotal  Value
}

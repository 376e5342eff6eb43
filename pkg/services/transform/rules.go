package transform

import (
	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/de-tools/fleximart/pkg/services/normalize"
	"github.com/shopspring/decimal"
)

// MissingPolicy says what happens to a row whose value in a column is absent.
type MissingPolicy int

const (
	// Keep leaves the row and value alone.
	Keep MissingPolicy = iota
	// Drop removes the row.
	Drop
	// Fill substitutes a value computed by the rule's FillStrategy.
	Fill
)

// Normalizer maps a value to its canonical form.
type Normalizer func(domain.Value) domain.Value

// FillStrategy computes the substitute for missing values of a column from
// the column's values before any substitution happens.
type FillStrategy func(column []domain.Value) domain.Value

// Derivation computes an extra column from each finished row.
type Derivation struct {
	Column  string
	Type    domain.ColumnType
	Sources []string
	Compute func(values []domain.Value) domain.Value
}

// Rule is the per-column policy of a table transform.
type Rule struct {
	Column    string
	Type      domain.ColumnType
	Policy    MissingPolicy
	Fill      FillStrategy
	Normalize Normalizer
}

const (
	CustomersTable = "customers"
	ProductsTable  = "products"
	SalesTable     = "sales"
)

func CustomerRules() []Rule {
	return []Rule{
		{Column: "email", Type: domain.ColumnText, Policy: Drop},
		{Column: "phone", Type: domain.ColumnText, Normalize: normalize.Phone},
		{Column: "registration_date", Type: domain.ColumnDate, Normalize: normalize.Date},
	}
}

func ProductRules() []Rule {
	return []Rule{
		{Column: "price", Type: domain.ColumnNumber, Policy: Fill, Fill: Median},
		{Column: "stock_quantity", Type: domain.ColumnInteger, Policy: Fill, Fill: Constant(domain.Present("0"))},
		{Column: "category", Type: domain.ColumnText, Normalize: normalize.Category},
	}
}

// SaleRules type quantity as an integer: a fractional quantity such as 1.5
// becomes Invalid and its subtotal is NULL instead of a fractional product.
func SaleRules() []Rule {
	return []Rule{
		{Column: "customer_id", Type: domain.ColumnText, Policy: Drop},
		{Column: "product_id", Type: domain.ColumnText, Policy: Drop},
		{Column: "transaction_date", Type: domain.ColumnDate, Normalize: normalize.Date},
		{Column: "quantity", Type: domain.ColumnInteger},
		{Column: "unit_price", Type: domain.ColumnNumber},
	}
}

// Subtotal multiplies quantity by unit_price. An absent factor yields an
// absent subtotal and is not counted anywhere.
var Subtotal = Derivation{
	Column:  "subtotal",
	Type:    domain.ColumnNumber,
	Sources: []string{"quantity", "unit_price"},
	Compute: func(values []domain.Value) domain.Value {
		product := decimal.NewFromInt(1)
		for _, v := range values {
			if !v.IsPresent() {
				if v.IsInvalid() {
					return domain.Invalid(v.Raw())
				}
				return domain.Missing()
			}
			d, err := decimal.NewFromString(v.Text())
			if err != nil {
				return domain.Invalid(v.Text())
			}
			product = product.Mul(d)
		}
		return domain.Present(product.String())
	},
}

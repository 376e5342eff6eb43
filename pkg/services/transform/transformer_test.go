package transform

import (
	"context"
	"testing"

	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p(s string) domain.Value { return domain.Present(s) }

func m() domain.Value { return domain.Missing() }

func customersTable() domain.Table {
	t := domain.NewTable(CustomersTable, "customer_id", "first_name", "email", "phone", "registration_date")
	t.Append(p("C001"), p("Rahul"), p("rahul@example.com"), p("9876543210"), p("2023-01-15"))
	t.Append(p("C001"), p("Rahul"), p("rahul@example.com"), p("9876543210"), p("2023-01-15"))
	t.Append(p("C002"), p("Priya"), m(), p("+91 98765 43211"), p("15/02/2023"))
	t.Append(p("C003"), p("Amit"), p("amit@example.com"), p("98765-43212"), p("03-20-2023"))
	return t
}

func productsTable() domain.Table {
	t := domain.NewTable(ProductsTable, "product_id", "product_name", "category", "price", "stock_quantity")
	t.Append(p("P001"), p("Phone"), p("electronics"), p("100"), p("5"))
	t.Append(p("P002"), p("Shirt"), p("FASHION"), m(), m())
	t.Append(p("P003"), p("Laptop"), p(" Electronics "), p("300"), p("2"))
	return t
}

func salesTable() domain.Table {
	t := domain.NewTable(SalesTable, "transaction_id", "customer_id", "product_id", "quantity", "unit_price", "transaction_date", "status")
	t.Append(p("T001"), p("C001"), p("P001"), p("2"), p("100"), p("2024-01-15"), p("Completed"))
	t.Append(p("T001"), p("C001"), p("P001"), p("2"), p("100"), p("2024-01-15"), p("Completed"))
	t.Append(p("T002"), m(), p("P002"), p("1"), p("50"), p("2024-01-16"), p("Completed"))
	t.Append(p("T003"), p("C002"), m(), p("1"), p("50"), p("2024-01-16"), p("Pending"))
	t.Append(p("T004"), p("C003"), p("P003"), m(), p("300"), p("16/01/2024"), p("Completed"))
	return t
}

func column(t *testing.T, table domain.Table, name string) []string {
	t.Helper()
	values := table.Column(name)
	require.NotNil(t, values, "column %s", name)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func TestTransformer_Customers(t *testing.T) {
	raw := customersTable()

	cleaned, counters, err := NewCustomers().Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 4, counters.Processed)
	assert.Equal(t, 1, counters.DuplicatesRemoved)
	assert.Equal(t, 1, counters.Removed("email"))
	assert.Equal(t, 2, counters.Loaded)
	assert.Equal(t, []string{"C001", "C003"}, column(t, cleaned, "customer_id"))
	assert.Equal(t, []string{"+91-9876543210", "+91-9876543212"}, column(t, cleaned, "phone"))
	assert.Equal(t, []string{"2023-01-15", "2023-03-20"}, column(t, cleaned, "registration_date"))
}

func TestTransformer_CustomersDuplicatesExcludeDroppedRows(t *testing.T) {
	raw := domain.NewTable(CustomersTable, "email", "phone", "registration_date")
	raw.Append(m(), p("9876543210"), p("2024-01-01"))
	raw.Append(p("a@b.com"), p("919876543210"), p("2024-01-01"))

	cleaned, counters, err := NewCustomers().Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 2, counters.Processed)
	assert.Equal(t, 0, counters.DuplicatesRemoved)
	assert.Equal(t, 1, counters.Removed("email"))
	assert.Equal(t, 1, counters.Loaded)
	assert.Equal(t, []string{"+91-9876543210"}, column(t, cleaned, "phone"))
}

func TestTransformer_Products(t *testing.T) {
	t.Run("median and zero fill", func(t *testing.T) {
		cleaned, counters, err := NewProducts().Transform(context.Background(), productsTable())
		require.NoError(t, err)

		assert.Equal(t, 3, counters.Processed)
		assert.Equal(t, 1, counters.Filled("price"))
		assert.Equal(t, 1, counters.Filled("stock_quantity"))
		assert.Equal(t, 3, counters.Loaded)
		assert.Equal(t, []string{"100", "200", "300"}, column(t, cleaned, "price"))
		assert.Equal(t, []string{"5", "0", "2"}, column(t, cleaned, "stock_quantity"))
		assert.Equal(t, []string{"Electronics", "Fashion", "Electronics"}, column(t, cleaned, "category"))
	})

	t.Run("no price at all", func(t *testing.T) {
		raw := domain.NewTable(ProductsTable, "product_id", "category", "price", "stock_quantity")
		raw.Append(p("P001"), p("toys"), m(), p("1"))
		raw.Append(p("P002"), p("toys"), p("n/a price"), p("1"))

		cleaned, counters, err := NewProducts().Transform(context.Background(), raw)
		require.NoError(t, err)

		assert.Equal(t, 2, counters.Filled("price"))
		assert.Equal(t, 2, counters.Loaded)
		for _, v := range cleaned.Column("price") {
			assert.False(t, v.IsPresent())
		}
	})

	t.Run("duplicates removed", func(t *testing.T) {
		raw := productsTable()
		raw.Append(raw.Rows[0]...)

		_, counters, err := NewProducts().Transform(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, 4, counters.Processed)
		assert.Equal(t, 1, counters.DuplicatesRemoved)
		assert.Equal(t, 3, counters.Loaded)
	})
}

func TestTransformer_Sales(t *testing.T) {
	cleaned, counters, err := NewSales().Transform(context.Background(), salesTable())
	require.NoError(t, err)

	assert.Equal(t, 5, counters.Processed)
	assert.Equal(t, 1, counters.DuplicatesRemoved)
	assert.Equal(t, 1, counters.Removed("customer_id"))
	assert.Equal(t, 1, counters.Removed("product_id"))
	assert.Equal(t, 2, counters.Loaded)

	assert.Equal(t, []string{"T001", "T004"}, column(t, cleaned, "transaction_id"))
	assert.Equal(t, []string{"2024-01-15", "2024-01-16"}, column(t, cleaned, "transaction_date"))
	assert.Equal(t, []string{"200", "<missing>"}, column(t, cleaned, "subtotal"))
	assert.Equal(t, domain.ColumnNumber, cleaned.Columns[cleaned.Index("subtotal")].Type)
}

func TestTransformer_SalesRowMissingBothIDs(t *testing.T) {
	raw := domain.NewTable(SalesTable, "customer_id", "product_id", "quantity", "unit_price", "transaction_date")
	raw.Append(m(), m(), p("1"), p("10"), p("2024-01-01"))
	raw.Append(p("C1"), p("P1"), p("1"), p("10"), p("2024-01-01"))

	_, counters, err := NewSales().Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 1, counters.Removed("customer_id"))
	assert.Equal(t, 1, counters.Removed("product_id"))
	assert.Equal(t, 1, counters.Loaded)
}

func TestTransformer_InvalidNumbers(t *testing.T) {
	raw := domain.NewTable(SalesTable, "customer_id", "product_id", "quantity", "unit_price", "transaction_date")
	raw.Append(p("C1"), p("P1"), p("two"), p("10"), p("2024-01-01"))
	raw.Append(p("C1"), p("P2"), p("1.5"), p("10"), p("bad date"))
	raw.Append(p("C1"), p("P3"), p("3"), p("2.50"), p("2024-01-01"))

	cleaned, _, err := NewSales().Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"<invalid:two>", "<invalid:1.5>", "3"}, column(t, cleaned, "quantity"))
	assert.Equal(t, []string{"<invalid:two>", "<invalid:1.5>", "7.5"}, column(t, cleaned, "subtotal"))
	assert.True(t, cleaned.Rows[1][cleaned.Index("transaction_date")].IsInvalid())
}

func TestTransformer_Invariants(t *testing.T) {
	tests := []struct {
		name        string
		transformer *Transformer
		raw         domain.Table
	}{
		{"customers", NewCustomers(), customersTable()},
		{"products", NewProducts(), productsTable()},
		{"sales", NewSales(), salesTable()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.raw.Clone()

			cleaned, counters, err := tt.transformer.Transform(context.Background(), tt.raw)
			require.NoError(t, err)

			assert.Equal(t, before, tt.raw, "input must not change")
			assert.LessOrEqual(t, counters.Loaded, counters.Processed)
			assert.Equal(t, cleaned.Len(), counters.Loaded)

			removed := counters.DuplicatesRemoved
			for _, n := range counters.MissingRemoved {
				removed += n
			}
			assert.GreaterOrEqual(t, counters.Processed-counters.Loaded, 0)
			assert.LessOrEqual(t, counters.Processed-counters.Loaded, removed)
		})
	}
}

func TestTransformer_MissingColumn(t *testing.T) {
	raw := domain.NewTable(CustomersTable, "customer_id", "phone", "registration_date")

	_, _, err := NewCustomers().Transform(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestTransformer_EmptyTable(t *testing.T) {
	raw := domain.NewTable(SalesTable, "customer_id", "product_id", "quantity", "unit_price", "transaction_date")

	cleaned, counters, err := NewSales().Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, 0, counters.Processed)
	assert.Equal(t, 0, counters.Loaded)
	assert.Equal(t, 0, cleaned.Len())
	assert.GreaterOrEqual(t, cleaned.Index("subtotal"), 0)
}

func TestMedian(t *testing.T) {
	t.Run("odd count", func(t *testing.T) {
		assert.Equal(t, p("20"), Median([]domain.Value{p("30"), p("10"), p("20")}))
	})
	t.Run("even count", func(t *testing.T) {
		assert.Equal(t, p("15"), Median([]domain.Value{p("10"), p("20")}))
	})
	t.Run("absent values ignored", func(t *testing.T) {
		assert.Equal(t, p("10"), Median([]domain.Value{m(), p("10"), domain.Invalid("x")}))
	})
	t.Run("nothing usable", func(t *testing.T) {
		assert.True(t, Median([]domain.Value{m(), m()}).IsMissing())
	})
}

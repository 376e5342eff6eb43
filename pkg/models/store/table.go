package store

type ColumnType string

const (
	ColumnText      ColumnType = "text"
	ColumnNumber    ColumnType = "number"
	ColumnInteger   ColumnType = "integer"
	ColumnDate      ColumnType = "date"
	ColumnTimestamp ColumnType = "timestamp"
)

type Column struct {
	Name string
	Type ColumnType
}

// TableBatch is a set of rows ready to be appended to a destination table.
// Each row holds driver values: nil, string, float64 or int64.
type TableBatch struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

const (
	CustomersTable  = "customers"
	ProductsTable   = "products"
	OrdersTable     = "orders"
	OrderItemsTable = "order_items"
	RunsTable       = "etl_runs"
)

var OrdersSchema = []Column{
	{Name: "customer_id", Type: ColumnText},
	{Name: "order_date", Type: ColumnDate},
	{Name: "status", Type: ColumnText},
	{Name: "total_amount", Type: ColumnNumber},
}

var OrderItemsSchema = []Column{
	{Name: "product_id", Type: ColumnText},
	{Name: "quantity", Type: ColumnInteger},
	{Name: "unit_price", Type: ColumnNumber},
	{Name: "subtotal", Type: ColumnNumber},
}

var RunsSchema = []Column{
	{Name: "run_id", Type: ColumnText},
	{Name: "started_at", Type: ColumnTimestamp},
	{Name: "finished_at", Type: ColumnTimestamp},
	{Name: "status", Type: ColumnText},
	{Name: "error", Type: ColumnText},
}

// Package orders holds the export domain: the denormalized order rows
// visible to a caller, the ownership authorizer, and the CSV exporter.
package orders

import "context"

// ExportColumns is the header of the export document, in the natural
// column order of the orders_with_customers view.
var ExportColumns = []string{
	"order_id",
	"customer_id",
	"status",
	"total_amount",
	"order_created_at",
	"order_date_formatted",
	"customer_name",
	"customer_email",
}

// ExportRow is one denormalized order row. Values are already in text
// form; absent database values arrive as empty strings.
type ExportRow struct {
	OrderID        string
	CustomerID     string
	Status         string
	TotalAmount    string
	OrderCreatedAt string
	OrderDate      string
	CustomerName   string
	CustomerEmail  string
}

// Values returns the row's cells in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{
		r.OrderID,
		r.CustomerID,
		r.Status,
		r.TotalAmount,
		r.OrderCreatedAt,
		r.OrderDate,
		r.CustomerName,
		r.CustomerEmail,
	}
}

// Store is the caller-scoped read surface over the relational store.
// Implementations must evaluate every query under the given caller's
// row-level visibility, so that "row absent" already encodes the
// store's ownership verdict.
type Store interface {
	// CustomerVisible reports whether a customer row with the id is
	// visible to the caller.
	CustomerVisible(ctx context.Context, userID, customerID string) (bool, error)

	// OrderOwner resolves an order to its parent customer's owning
	// user. found is false when no such order is visible.
	OrderOwner(ctx context.Context, userID, orderID string) (ownerID string, found bool, err error)

	// OrdersWithCustomer lists the denormalized order rows for a
	// customer in a deterministic order.
	OrdersWithCustomer(ctx context.Context, userID, customerID string) ([]ExportRow, error)
}

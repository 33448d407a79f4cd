package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderdesk.org/internal/auth"
)

// Document is the transient export artifact. It is built fresh per
// request and discarded after the response is written.
type Document struct {
	Filename string
	Content  []byte
}

// Exporter builds CSV exports of a customer's orders after an
// ownership check.
type Exporter struct {
	authz Authorizer
	store Store
	now   func() time.Time
}

// NewExporter constructs an Exporter.
func NewExporter(authz Authorizer, store Store) *Exporter {
	return &Exporter{authz: authz, store: store, now: time.Now}
}

// WithClock overrides the time source used for the filename date.
func (e *Exporter) WithClock(fn func() time.Time) *Exporter {
	if fn != nil {
		e.now = fn
	}
	return e
}

// Export authorizes the customer for the caller, fetches its order
// rows caller-scoped, and serializes them. Read-only.
func (e *Exporter) Export(ctx context.Context, ident auth.Identity, customerID string) (Document, error) {
	decision, err := e.authz.Authorize(ctx, ident, KindCustomer, customerID)
	switch decision {
	case DecisionAllowed:
	case DecisionDenied:
		return Document{}, ErrDenied
	default:
		return Document{}, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	rows, err := e.store.OrdersWithCustomer(ctx, ident.UserID, customerID)
	if err != nil {
		return Document{}, fmt.Errorf("orders: fetch rows: %w", err)
	}
	if len(rows) == 0 {
		return Document{}, ErrNoOrders
	}

	return Document{
		Filename: fmt.Sprintf("orders_%s_%s.csv", customerID, e.now().UTC().Format("2006-01-02")),
		Content:  BuildCSV(ExportColumns, rows),
	}, nil
}

// BuildCSV serializes rows under the given header. The header cells
// are written as-is; every data cell goes through SanitizeCell. Rows
// are joined by \n with no trailing newline.
func BuildCSV(columns []string, rows []ExportRow) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, v := range row.Values() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(SanitizeCell(v))
		}
	}
	return []byte(b.String())
}

// SanitizeCell renders one CSV cell. A leading formula trigger
// (= - + @) is neutralized with a single quote so spreadsheet
// applications treat the cell as text; the cell is then wrapped in
// double quotes with embedded quotes doubled.
func SanitizeCell(v string) string {
	if len(v) > 0 {
		switch v[0] {
		case '=', '-', '+', '@':
			v = "'" + v
		}
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"orderdesk.org/internal/audit"
	"orderdesk.org/internal/auth"
	"orderdesk.org/internal/orders"
)

type exportRequest struct {
	CustomerID string `json:"customerId"`
}

// handleExportCSV serializes an authorized customer's orders. The
// ownership check is delegated to the caller-scoped store query; this
// handler only sequences the steps and maps the outcomes.
func (a *API) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ident, ok := a.authenticate(w, r, writeFailure)
	if !ok {
		return
	}

	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	customerID := strings.TrimSpace(req.CustomerID)
	if !validUUIDv4(customerID) {
		writeFailure(w, http.StatusUnprocessableEntity, "Invalid customerId (UUID v4 expected)")
		return
	}

	ctx := auth.ContextWithIdentity(r.Context(), ident)
	doc, err := a.exporter.Export(ctx, ident, customerID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrCheckFailed):
			logUpstreamError(r, "export_ownership_check_failed", err)
			writeFailure(w, http.StatusInternalServerError, "Ownership check failed")
		case errors.Is(err, orders.ErrDenied):
			writeFailure(w, http.StatusForbidden, "Not allowed to export this customer")
		case errors.Is(err, orders.ErrNoOrders):
			writeFailure(w, http.StatusNotFound, "No orders found for this customer")
		default:
			logUpstreamError(r, "export_query_failed", err)
			writeFailure(w, http.StatusInternalServerError, "Error fetching orders")
		}
		return
	}

	_ = audit.LogEvent(ctx, "orders.export", map[string]any{
		"customer_id": customerID,
		"filename":    doc.Filename,
	})

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orderdesk.org/internal/audit"
	"orderdesk.org/internal/auth"
	"orderdesk.org/internal/mail"
	"orderdesk.org/internal/orders"
)

type notifyRequest struct {
	Email   string `json:"email"`
	OrderID string `json:"orderId"`
}

// handleSendConfirmationEmail dispatches the confirmation email for
// an order the caller owns. Validation runs before any external call.
func (a *API) handleSendConfirmationEmail(w http.ResponseWriter, r *http.Request) {
	ident, ok := a.authenticate(w, r, writeFailure)
	if !ok {
		return
	}

	var req notifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	email := strings.TrimSpace(req.Email)
	orderID := strings.TrimSpace(req.OrderID)

	if !validEmail(email) {
		writeFailure(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if !validUUIDv4(orderID) {
		writeFailure(w, http.StatusBadRequest, "Invalid orderId (must be UUID v4)")
		return
	}

	ctx := auth.ContextWithIdentity(r.Context(), ident)
	if err := a.notifier.SendConfirmation(ctx, ident, email, orderID); err != nil {
		switch {
		case errors.Is(err, orders.ErrDenied):
			writeFailure(w, http.StatusForbidden, "Not allowed to notify this order")
		case errors.Is(err, mail.ErrProvider):
			logUpstreamError(r, "confirmation_email_provider_failed", err)
			writeFailure(w, http.StatusBadGateway, "Failed to send email")
		default:
			logUpstreamError(r, "confirmation_email_failed", err)
			writeFailure(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	_ = audit.LogEvent(ctx, "orders.confirmation_email", map[string]any{
		"order_id": orderID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Confirmation email sent",
	})
}

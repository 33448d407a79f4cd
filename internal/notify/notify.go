// Package notify sends order-confirmation emails after verifying the
// caller owns the order.
package notify

import (
	"context"
	"fmt"

	"orderdesk.org/internal/auth"
	"orderdesk.org/internal/mail"
	"orderdesk.org/internal/orders"
)

const confirmationSubject = "Your order has been confirmed!"

// The body embeds only the order id; no other order data is needed.
const confirmationBody = `
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
    <h2 style="color: #1a73e8;">Order Confirmed!</h2>
    <p>Hello! Thank you for shopping with us.</p>
    <p>Your order <strong>#%s</strong> has been confirmed.</p>
    <p>You will receive email updates as soon as it ships.</p>
    <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;" />
    <p style="font-size: 12px; color: #888;">This is an automated email. Please do not reply.</p>
  </div>`

// Service dispatches confirmation emails through the external
// provider. Nothing is recorded locally on success.
type Service struct {
	authz  orders.Authorizer
	sender mail.Sender
	from   string
}

// NewService constructs a Service with the configured sender address.
func NewService(authz orders.Authorizer, sender mail.Sender, from string) *Service {
	return &Service{authz: authz, sender: sender, from: from}
}

// SendConfirmation authorizes the order for the caller, composes the
// fixed HTML body and dispatches it. Errors: orders.ErrDenied,
// orders.ErrCheckFailed, mail.ErrProvider.
func (s *Service) SendConfirmation(ctx context.Context, ident auth.Identity, email, orderID string) error {
	decision, err := s.authz.Authorize(ctx, ident, orders.KindOrder, orderID)
	switch decision {
	case orders.DecisionAllowed:
	case orders.DecisionDenied:
		return orders.ErrDenied
	default:
		return fmt.Errorf("%w: %v", orders.ErrCheckFailed, err)
	}

	_, err = s.sender.Send(ctx, mail.Message{
		From:    s.from,
		To:      email,
		Subject: confirmationSubject,
		HTML:    fmt.Sprintf(confirmationBody, orderID),
	})
	return err
}

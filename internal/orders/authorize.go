package orders

import (
	"context"

	"orderdesk.org/internal/auth"
)

// ResourceKind discriminates what an id refers to during an
// authorization check.
type ResourceKind int

const (
	KindCustomer ResourceKind = iota
	KindOrder
)

func (k ResourceKind) String() string {
	switch k {
	case KindCustomer:
		return "customer"
	case KindOrder:
		return "order"
	default:
		return "unknown"
	}
}

// Decision is the tri-state outcome of an ownership check.
type Decision int

const (
	DecisionAllowed Decision = iota
	DecisionDenied
	DecisionCheckFailed
)

// Authorizer decides whether a caller owns a resource. The error is
// non-nil only for DecisionCheckFailed and carries the underlying
// query failure for server-side logging.
type Authorizer interface {
	Authorize(ctx context.Context, ident auth.Identity, kind ResourceKind, id string) (Decision, error)
}

// StoreAuthorizer delegates ownership to the store's row-level
// visibility: a row the caller can see is a row the caller owns.
// Decisions are never cached; every request re-verifies.
type StoreAuthorizer struct {
	store Store
}

var _ Authorizer = (*StoreAuthorizer)(nil)

// NewStoreAuthorizer constructs an Authorizer over the given store.
func NewStoreAuthorizer(store Store) *StoreAuthorizer {
	return &StoreAuthorizer{store: store}
}

func (a *StoreAuthorizer) Authorize(ctx context.Context, ident auth.Identity, kind ResourceKind, id string) (Decision, error) {
	switch kind {
	case KindCustomer:
		visible, err := a.store.CustomerVisible(ctx, ident.UserID, id)
		if err != nil {
			return DecisionCheckFailed, err
		}
		if !visible {
			return DecisionDenied, nil
		}
		return DecisionAllowed, nil

	case KindOrder:
		// Ownership is transitive: the order's parent customer must
		// be owned by the caller.
		ownerID, found, err := a.store.OrderOwner(ctx, ident.UserID, id)
		if err != nil {
			return DecisionCheckFailed, err
		}
		if !found || ownerID == "" || ownerID != ident.UserID {
			return DecisionDenied, nil
		}
		return DecisionAllowed, nil

	default:
		return DecisionDenied, nil
	}
}

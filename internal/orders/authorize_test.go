package orders

import (
	"context"
	"errors"
	"testing"

	"orderdesk.org/internal/auth"
)

func TestAuthorizeCustomer(t *testing.T) {
	ident := auth.Identity{UserID: "user-1"}

	t.Run("visible row is allowed", func(t *testing.T) {
		a := NewStoreAuthorizer(&stubStore{visible: true})
		d, err := a.Authorize(context.Background(), ident, KindCustomer, "c1")
		if d != DecisionAllowed || err != nil {
			t.Fatalf("got %v, %v", d, err)
		}
	})

	t.Run("absent row is denied", func(t *testing.T) {
		a := NewStoreAuthorizer(&stubStore{visible: false})
		d, err := a.Authorize(context.Background(), ident, KindCustomer, "c1")
		if d != DecisionDenied || err != nil {
			t.Fatalf("got %v, %v", d, err)
		}
	})

	t.Run("query error fails closed", func(t *testing.T) {
		cause := errors.New("timeout")
		a := NewStoreAuthorizer(&stubStore{visibleErr: cause})
		d, err := a.Authorize(context.Background(), ident, KindCustomer, "c1")
		if d != DecisionCheckFailed {
			t.Fatalf("got decision %v", d)
		}
		if !errors.Is(err, cause) {
			t.Fatalf("expected underlying cause, got %v", err)
		}
	})
}

func TestAuthorizeOrder(t *testing.T) {
	ident := auth.Identity{UserID: "user-1"}

	cases := []struct {
		name  string
		store *stubStore
		want  Decision
	}{
		{"owned order", &stubStore{ownerID: "user-1", ownerFound: true}, DecisionAllowed},
		{"someone else's order", &stubStore{ownerID: "user-2", ownerFound: true}, DecisionDenied},
		{"missing order", &stubStore{ownerFound: false}, DecisionDenied},
		{"null owner", &stubStore{ownerID: "", ownerFound: true}, DecisionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewStoreAuthorizer(tc.store)
			d, err := a.Authorize(context.Background(), ident, KindOrder, "o1")
			if d != tc.want || err != nil {
				t.Fatalf("got %v, %v; want %v", d, err, tc.want)
			}
		})
	}

	t.Run("query error fails closed", func(t *testing.T) {
		a := NewStoreAuthorizer(&stubStore{ownerErr: errors.New("boom")})
		d, err := a.Authorize(context.Background(), ident, KindOrder, "o1")
		if d != DecisionCheckFailed || err == nil {
			t.Fatalf("got %v, %v", d, err)
		}
	})
}

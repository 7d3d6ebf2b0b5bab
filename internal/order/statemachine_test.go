package order

import (
	"testing"

	"craftconnect-be/internal/identity"

	"github.com/stretchr/testify/assert"
)

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(StatusPending))
	assert.True(t, Cancellable(StatusConfirmed))
	assert.False(t, Cancellable(StatusProcessing))
	assert.False(t, Cancellable(StatusShipped))
	assert.False(t, Cancellable(StatusDelivered))
	assert.False(t, Cancellable(StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusDelivered))
	assert.True(t, ValidStatus(StatusRefunded))
	assert.False(t, ValidStatus(OrderStatus("archived")))
}

func TestAuthorizeTransition(t *testing.T) {
	buyer := identity.Identity{UserID: "buyer-1", Role: identity.RoleBuyer}
	otherBuyer := identity.Identity{UserID: "buyer-2", Role: identity.RoleBuyer}
	admin := identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin}
	artisanOwner := identity.Identity{UserID: "art-1", Role: identity.RoleArtisan}
	artisanOther := identity.Identity{UserID: "art-9", Role: identity.RoleArtisan}

	o := &Order{
		BuyerID: "buyer-1",
		Status:  StatusPending,
		Items: []OrderItem{
			{ProductID: "P", ArtisanID: "art-1"},
		},
	}

	tests := []struct {
		name    string
		caller  identity.Identity
		status  OrderStatus
		current OrderStatus
		wantErr error
	}{
		{"BuyerCancelsOwnPending", buyer, StatusCancelled, StatusPending, nil},
		{"BuyerCancelsOwnConfirmed", buyer, StatusCancelled, StatusConfirmed, nil},
		{"BuyerCancelsOwnShipped", buyer, StatusCancelled, StatusShipped, ErrNotCancellable},
		{"BuyerRequestsConfirmed", buyer, StatusConfirmed, StatusPending, ErrNotCancellable},
		{"BuyerTouchesForeignOrder", otherBuyer, StatusCancelled, StatusPending, ErrUnauthorized},
		{"AdminSetsAnyStatus", admin, StatusRefunded, StatusDelivered, nil},
		{"ArtisanWithLineItem", artisanOwner, StatusShipped, StatusProcessing, nil},
		{"ArtisanWithoutLineItem", artisanOther, StatusShipped, StatusProcessing, ErrUnauthorized},
		{"UnknownStatus", admin, OrderStatus("archived"), StatusPending, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o.Status = tt.current
			err := AuthorizeTransition(tt.caller, o, tt.status)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeCancel(t *testing.T) {
	o := &Order{
		BuyerID: "buyer-1",
		Status:  StatusPending,
		Items:   []OrderItem{{ProductID: "P", ArtisanID: "art-1"}},
	}

	assert.NoError(t, AuthorizeCancel(identity.Identity{UserID: "buyer-1", Role: identity.RoleBuyer}, o))
	assert.NoError(t, AuthorizeCancel(identity.Identity{UserID: "admin", Role: identity.RoleAdmin}, o))
	assert.ErrorIs(t, AuthorizeCancel(identity.Identity{UserID: "buyer-2", Role: identity.RoleBuyer}, o), ErrUnauthorized)
	assert.ErrorIs(t, AuthorizeCancel(identity.Identity{UserID: "art-1", Role: identity.RoleArtisan}, o), ErrUnauthorized)
}

func TestAuthorizeRead(t *testing.T) {
	o := &Order{
		BuyerID: "buyer-1",
		Items:   []OrderItem{{ProductID: "P", ArtisanID: "art-1"}},
	}

	assert.NoError(t, AuthorizeRead(identity.Identity{UserID: "buyer-1", Role: identity.RoleBuyer}, o))
	assert.NoError(t, AuthorizeRead(identity.Identity{UserID: "admin", Role: identity.RoleAdmin}, o))
	assert.NoError(t, AuthorizeRead(identity.Identity{UserID: "art-1", Role: identity.RoleArtisan}, o))
	assert.ErrorIs(t, AuthorizeRead(identity.Identity{UserID: "buyer-9", Role: identity.RoleBuyer}, o), ErrUnauthorized)
	assert.ErrorIs(t, AuthorizeRead(identity.Identity{UserID: "art-9", Role: identity.RoleArtisan}, o), ErrUnauthorized)
}

package order

import (
	"craftconnect-be/internal/identity"
)

var validStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

func ValidStatus(s OrderStatus) bool {
	return validStatuses[s]
}

// Cancellable reports whether an order in the given status may still be
// cancelled. Once processing starts the compensation window is closed.
func Cancellable(s OrderStatus) bool {
	return s == StatusPending || s == StatusConfirmed
}

// AuthorizeTransition decides whether the caller may move the order to
// the target status.
//
//   - Admins may set any documented status.
//   - Artisans may set any documented status, but only on orders that
//     contain at least one of their own line items.
//   - Buyers get exactly one self-service move: their own order, from a
//     cancellable stage, to cancelled.
func AuthorizeTransition(caller identity.Identity, o *Order, target OrderStatus) error {
	if !ValidStatus(target) {
		return ErrInvalidTransition
	}

	switch {
	case caller.IsAdmin():
		return nil

	case caller.IsArtisan():
		if !o.ContainsArtisan(caller.UserID) {
			return ErrUnauthorized
		}
		return nil

	default:
		if o.BuyerID != caller.UserID {
			return ErrUnauthorized
		}
		if target != StatusCancelled || !Cancellable(o.Status) {
			return ErrNotCancellable
		}
		return nil
	}
}

// AuthorizeCancel gates the compensating cancellation path: buyers may
// cancel their own orders, admins any order. Artisans do not cancel;
// they reject through a status update of their own orders.
func AuthorizeCancel(caller identity.Identity, o *Order) error {
	switch {
	case caller.IsAdmin():
		return nil
	case caller.IsArtisan():
		return ErrUnauthorized
	default:
		if o.BuyerID != caller.UserID {
			return ErrUnauthorized
		}
		return nil
	}
}

// AuthorizeRead scopes order fetches: the buyer who placed it, any admin,
// or an artisan with at least one line item in it.
func AuthorizeRead(caller identity.Identity, o *Order) error {
	switch {
	case caller.IsAdmin():
		return nil
	case caller.IsArtisan():
		if !o.ContainsArtisan(caller.UserID) {
			return ErrUnauthorized
		}
		return nil
	default:
		if o.BuyerID != caller.UserID {
			return ErrUnauthorized
		}
		return nil
	}
}

// errors.go - Sentinel errors for the ordering workflow.
package fulfillment

import "errors"

var (
	// ErrDuplicatePendingRequest is returned when a shop already has a
	// pending request for the calendar day.
	ErrDuplicatePendingRequest = errors.New("shop already has a pending request today")

	// ErrRequestNotFound is returned when a request id resolves to nothing.
	ErrRequestNotFound = errors.New("request not found")

	// ErrLineNotFound is returned when a delivery targets an item the
	// request never asked for.
	ErrLineNotFound = errors.New("request has no line for item")

	// ErrOverDelivery is returned when a delivery would push DeliveredQty
	// past RequestedQty (pending quantity must stay >= 0).
	ErrOverDelivery = errors.New("delivery exceeds requested quantity")

	// ErrNotPending is returned when delivering against or cancelling a
	// request that is no longer pending.
	ErrNotPending = errors.New("request is not pending")

	// ErrEmptyRequest is returned when a request is opened with no valid lines.
	ErrEmptyRequest = errors.New("request has no lines")
)

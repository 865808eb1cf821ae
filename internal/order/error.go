package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOwner          = errors.New("not authorized to view this order")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrPaymentInit       = errors.New("payment initiation failed")

	// ErrNoPendingOrder signals that a conditional status transition
	// matched no Pending row; callers treat it as an idempotent no-op.
	ErrNoPendingOrder = errors.New("order is not pending")
)

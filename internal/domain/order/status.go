package order

import "github.com/BruksfildServices01/salon-booking/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

const (
	CodeEmptyCart         = "empty_cart"
	CodeInsufficientStock = "insufficient_stock"
	CodeOrderNotFound     = "order_not_found"
	CodeProductNotFound   = "product_not_found"
	CodeInvalidState      = "invalid_state"
	CodeInvalidRequest    = "invalid_request"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransition reports whether an order may move from -> to.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusinessMsg(CodeInvalidState, "order cannot move from "+string(from)+" to "+string(to))
}

// RestoresStock is true for transitions that put the items back on the shelf.
func RestoresStock(to Status) bool {
	return to == StatusCancelled
}

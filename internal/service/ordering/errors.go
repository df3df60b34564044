package ordering

import "errors"

// Business-rule violations carry the user-visible message verbatim; the
// transport surfaces them unmodified.
var (
	ErrTicketSold        = errors.New("Ticket can't be added to cart, it's already sold")
	ErrScreeningInPast   = errors.New("Screening session in past")
	ErrAlreadyInCart     = errors.New("Ticket is already in the cart")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyReturned   = errors.New("Ticket is already returned")
	ErrScreeningStarted  = errors.New("Funds can't be returned. Screening session already started.")

	ErrTicketNotFound = errors.New("ticket not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrBuyerNotFound  = errors.New("buyer not found")
	ErrRateLimited    = errors.New("too many requests")
)

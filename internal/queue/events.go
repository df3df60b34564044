// Package queue publishes ticket lifecycle events to RabbitMQ for
// downstream consumers (notifications, analytics).
package queue

import "time"

const (
	QueueTicketPurchased = "ticket.purchased"
	QueueTicketReturned  = "ticket.returned"
)

type TicketEvent struct {
	OrderID     int64     `json:"order_id"`
	BuyerID     int64     `json:"buyer_id"`
	TicketID    int64     `json:"ticket_id"`
	ScreeningID int64     `json:"screening_id"`
	Price       string    `json:"price"`
	OccurredAt  time.Time `json:"occurred_at"`
}

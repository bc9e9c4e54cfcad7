package notify

import "time"

// BookingCompletedNotice is the payload sent to the notification gateway
// when a booking is completed.
type BookingCompletedNotice struct {
	BookingID     int64     `json:"booking_id"`
	WorkshopID    int64     `json:"workshop_id"`
	CustomerID    *int64    `json:"customer_id,omitempty"`
	Title         string    `json:"title"`
	FinalPriceOre int64     `json:"final_price_ore"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ErrorResponse is the gateway's error envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

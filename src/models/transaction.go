package models

import (
	"abs/src/types"

	"github.com/google/uuid"
)

// Transaction is the append-only payment ledger. The unique key on PaymentID
// is the idempotency guarantee: replaying the same gateway event cannot create
// a second row, and the duplicate-key error is treated as success.
type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	PaymentID    string    `gorm:"uniqueIndex" json:"payment_id"`
	OrderID      string    `gorm:"index" json:"order_id"`
	BookingID    uuid.UUID `json:"booking_id"`
	AmountRupees int64     `json:"amount_rupees"`
	Currency     string    `json:"currency"`
	Status       types.TransactionStatus `json:"status"`
	// raw gateway payload retained for audit/replay
	Payload *types.JSONB `gorm:"type:jsonb" json:"payload,omitempty"`

	types.Timestamps

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`
}

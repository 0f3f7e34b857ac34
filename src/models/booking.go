package models

import (
	"abs/src/types"

	"github.com/google/uuid"
)

type Booking struct {
	// assigned client side so the id exists before the gateway call
	ID       uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	ArtistID uint      `gorm:"index" json:"artist_id,omitempty"`
	// nil for guest bookings
	OrganizerID *uint `json:"organizer_id,omitempty"`

	// contact snapshot captured at creation time so later profile edits do not
	// change historical documents
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`

	AmountRupees int64  `json:"amount_rupees,omitempty"`
	Currency     string `json:"currency,omitempty"`

	EventDate string `json:"event_date,omitempty"`
	EventTime string `json:"event_time,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Notes     string `json:"notes,omitempty"`

	Status        types.BookingStatus `json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `json:"payment_status,omitempty"`

	RazorpayOrderID   *string `gorm:"index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string `json:"razorpay_payment_id,omitempty"`

	// kind -> durable URL or on-demand endpoint path
	Artifacts *types.JSONB `gorm:"type:jsonb" json:"artifacts,omitempty"`
	// party -> channel -> {ok, at, error}
	NotificationLog *types.JSONB `gorm:"type:jsonb" json:"notification_log,omitempty"`

	Artist *Artist `gorm:"foreignKey:artist_id" json:"artist,omitempty"`

	types.Timestamps
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_CANCELED  BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING       PaymentStatus = "pending"
	PAYMENT_CREATED       PaymentStatus = "created"
	PAYMENT_ORDER_CREATED PaymentStatus = "order_created"
	PAYMENT_CAPTURED      PaymentStatus = "captured"
	PAYMENT_FAILED        PaymentStatus = "failed"
	PAYMENT_REFUNDED      PaymentStatus = "refunded"
)

// paymentRank orders the payment status chain. Webhook-driven transitions may
// only move forward; captured leaves the chain only through refunded.
var paymentRank = map[PaymentStatus]int{
	PAYMENT_PENDING:       0,
	PAYMENT_CREATED:       1,
	PAYMENT_ORDER_CREATED: 2,
	PAYMENT_FAILED:        3,
	PAYMENT_CAPTURED:      4,
	PAYMENT_REFUNDED:      5,
}

func (s PaymentStatus) CanAdvanceTo(next PaymentStatus) bool {
	if s == PAYMENT_CAPTURED {
		return next == PAYMENT_REFUNDED
	}
	// a failed payment may re-enter the chain on a new attempt
	if s == PAYMENT_FAILED {
		return next == PAYMENT_ORDER_CREATED || next == PAYMENT_CAPTURED
	}
	return paymentRank[next] > paymentRank[s]
}

type TransactionStatus string

const (
	TRANSACTION_CAPTURED TransactionStatus = "captured"
	TRANSACTION_FAILED   TransactionStatus = "failed"
)

type DocumentKind string

const (
	DOC_CONFIRMATION DocumentKind = "confirmation"
	DOC_RECEIPT      DocumentKind = "receipt"
	DOC_CONTACT      DocumentKind = "contact_sheet"
)

func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch DocumentKind(s) {
	case DOC_CONFIRMATION, DOC_RECEIPT, DOC_CONTACT:
		return DocumentKind(s), true
	}
	return "", false
}

type NotifyChannel string

const (
	CHANNEL_EMAIL    NotifyChannel = "email"
	CHANNEL_WHATSAPP NotifyChannel = "whatsapp"
	CHANNEL_SMS      NotifyChannel = "sms"
)

type CreateBookingRequestBody struct {
	ArtistID  uint    `json:"artist_id" binding:"required"`
	EventDate string  `json:"event_date" binding:"required,bookabledate"`
	EventTime *string `json:"event_time,omitempty"`
	Venue     *string `json:"venue,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	// last-resort fallback only; the resolver prefers the stored profile price
	PriceRupees  *int64  `json:"price_rupees,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type DocumentURIParams struct {
	ID   string `uri:"id" binding:"required,uuid"`
	Kind string `uri:"kind" binding:"required"`
}

type ArtistURIParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the canonical caller identity, resolved once at request entry.
// The same artist may be referenced by account id or by artist profile id
// depending on the caller, so both aliases are carried.
type Identity struct {
	UserID   uint
	ArtistID uint
}

func (i Identity) Matches(userId uint, artistId uint) bool {
	if i.UserID != 0 && i.UserID == userId {
		return true
	}
	return i.ArtistID != 0 && i.ArtistID == artistId
}

package models

import "abs/src/types"

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
	// BookingRate is the account-level price fallback, kept as the loosely
	// formatted string users type in ("₹50,000", "50000/-").
	BookingRate *string `json:"booking_rate,omitempty"`

	types.Timestamps
}

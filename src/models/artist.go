package models

import "abs/src/types"

// Artist is the structured performer profile. An artist may be referenced by
// this row's id or by the owning account's id; both are treated as aliases of
// the same identity.
type Artist struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	UserID    uint    `gorm:"index" json:"user_id,omitempty"`
	StageName string  `json:"stage_name,omitempty"`
	Genre     string  `json:"genre,omitempty"`
	City      string  `json:"city,omitempty"`
	Price     *string `json:"price,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

package utils

import (
	"abs/src/models"
	"abs/src/types"
	"log"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// CoercePriceString strips everything non-numeric from a loosely formatted
// price ("₹50,000", "50000/-", "50k" minus the suffix) and returns the value,
// or 0 when nothing numeric remains.
func CoercePriceString(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ResolveBookingPrice derives the authoritative price for booking an artist.
// Resolution order: artist profile price, account-level rate, client-supplied
// fallback. Client input is never trusted while a stored value resolves.
func ResolveBookingPrice(tx *gorm.DB, artist *models.Artist, clientPrice *int64) (int64, error) {
	if artist.Price != nil {
		if p := CoercePriceString(*artist.Price); p > 0 {
			return p, nil
		}
	}
	var user models.User
	if err := tx.Model(&models.User{}).Where(&models.User{ID: artist.UserID}).First(&user).Error; err == nil {
		if user.BookingRate != nil {
			if p := CoercePriceString(*user.BookingRate); p > 0 {
				return p, nil
			}
		}
	}
	if clientPrice != nil && *clientPrice > 0 {
		log.Printf("[pricing] falling back to client-supplied price for artist %d\n", artist.ID)
		return *clientPrice, nil
	}
	return 0, types.ErrPriceUnavailable
}

// CheckEligibility rejects self-bookings through either id aliasing scheme.
func CheckEligibility(identity *types.Identity, artist *models.Artist) error {
	if identity == nil {
		return nil
	}
	if identity.Matches(artist.UserID, artist.ID) {
		return types.ErrSelfBooking
	}
	return nil
}

package utils

import (
	"abs/src/config"
	"abs/src/db"
	"abs/src/lib"
	"abs/src/models"
	"abs/src/types"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptToken derives the gateway receipt deterministically from the booking
// id, binding the gateway order 1:1 to the booking.
func ReceiptToken(id uuid.UUID) string {
	return "bk_" + strings.ReplaceAll(id.String(), "-", "")
}

type CreateBookingResult struct {
	Booking           *models.Booking
	Order             types.JSONB
	GatewayConfigured bool
}

// CreateNewBooking persists the booking row first and only then attempts the
// gateway order. A failed gateway call leaves the row in place (payment status
// created) for reconciliation instead of rolling back; the caller decides the
// HTTP status. With no gateway configured the booking succeeds with a null
// order.
func CreateNewBooking(params *types.CreateBookingRequestBody, identity *types.Identity) (*CreateBookingResult, error) {
	gdb := db.GetDb()

	var artist models.Artist
	if err := gdb.
		Model(&models.Artist{}).
		Where(&models.Artist{ID: params.ArtistID}).
		Preload("User").
		First(&artist).
		Error; err != nil {
		return nil, fmt.Errorf("%w: %d", types.ErrArtistNotFound, params.ArtistID)
	}

	if err := CheckEligibility(identity, &artist); err != nil {
		return nil, err
	}
	price, err := ResolveBookingPrice(gdb, &artist, params.PriceRupees)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		ID:            uuid.New(),
		ArtistID:      artist.ID,
		AmountRupees:  price,
		Currency:      "INR",
		EventDate:     params.EventDate,
		Status:        types.BOOKING_PENDING,
		PaymentStatus: types.PAYMENT_PENDING,
	}
	if params.EventTime != nil {
		booking.EventTime = *params.EventTime
	}
	if params.Venue != nil {
		booking.Venue = *params.Venue
	}
	if params.Notes != nil {
		booking.Notes = *params.Notes
	}

	// contact snapshot: authenticated organizer profile wins, payload fills gaps
	if identity != nil && identity.UserID != 0 {
		var organizer models.User
		if err := gdb.Model(&models.User{}).Where(&models.User{ID: identity.UserID}).First(&organizer).Error; err == nil {
			oid := organizer.ID
			booking.OrganizerID = &oid
			booking.ContactName = organizer.Name
			booking.ContactEmail = organizer.Email
			booking.ContactPhone = organizer.Phone
		}
	}
	if params.ContactName != nil && booking.ContactName == "" {
		booking.ContactName = *params.ContactName
	}
	if params.ContactEmail != nil && booking.ContactEmail == "" {
		booking.ContactEmail = *params.ContactEmail
	}
	if params.ContactPhone != nil && booking.ContactPhone == "" {
		booking.ContactPhone = *params.ContactPhone
	}
	if booking.OrganizerID == nil && booking.ContactEmail == "" && booking.ContactPhone == "" {
		return nil, types.ErrGuestContactRequired
	}

	if err := gdb.Transaction(func(tx *gorm.DB) error {
		booking.PaymentStatus = types.PAYMENT_CREATED
		return tx.Create(&booking).Error
	}); err != nil {
		log.Printf("Error creating Booking for artist %d: %s\n", artist.ID, err.Error())
		return nil, err
	}

	result := &CreateBookingResult{Booking: &booking}
	if !config.PaymentGatewayConfigured() {
		log.Printf("[gateway] not configured; Booking %s created without an order\n", booking.ID)
		return result, nil
	}
	result.GatewayConfigured = true

	oc := lib.GetOrderClient()
	order, err := oc.CreateOrder(booking.AmountRupees*100, booking.Currency, ReceiptToken(booking.ID), map[string]any{
		"booking_id": booking.ID.String(),
		"artist_id":  fmt.Sprint(artist.ID),
	})
	if err != nil {
		// the row stays behind for manual reconciliation
		log.Printf("Gateway order failed for Booking %s: %s\n", booking.ID, err.Error())
		return result, err
	}
	orderId, _ := order["id"].(string)
	if err := gdb.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(&models.Booking{
			RazorpayOrderID: &orderId,
			PaymentStatus:   types.PAYMENT_ORDER_CREATED,
		}).Error; err != nil {
		log.Printf("Error linking order %s to Booking %s: %s\n", orderId, booking.ID, err.Error())
		return result, err
	}
	booking.RazorpayOrderID = &orderId
	booking.PaymentStatus = types.PAYMENT_ORDER_CREATED
	result.Order = order
	return result, nil
}

// ReconcilePendingBookings surfaces bookings whose gateway call never
// completed. Runs on a schedule; manual follow-up, no automatic retry.
func ReconcilePendingBookings() {
	gdb := db.GetDb()
	cutoff := time.Now().Add(-1 * time.Hour)
	var bookings []models.Booking
	if err := gdb.
		Model(&models.Booking{}).
		Where("payment_status = ? AND razorpay_order_id IS NULL AND created_at < ?", types.PAYMENT_CREATED, cutoff).
		Find(&bookings).
		Error; err != nil {
		log.Printf("[reconcile] query failed: %s\n", err.Error())
		return
	}
	for _, b := range bookings {
		log.Printf("[reconcile] Booking %s has no gateway order since %s\n", b.ID, b.CreatedAt)
		PublishLedgerEvent(types.JSONB{
			"source":     "reconcile.pending",
			"booking_id": b.ID.String(),
			"created_at": b.CreatedAt,
		})
	}
}

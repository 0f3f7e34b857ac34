package main

import (
	"abs/src/db"
	"abs/src/docs"
	"abs/src/lib"
	"abs/src/models"
	"abs/src/notify"
	"abs/src/types"
	"abs/src/utils"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// test seams
var (
	fulfillBooking     = defaultFulfillBooking
	publishLedgerEvent = utils.PublishLedgerEvent
)

func razorpayWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/razorpay", func(ctx *gin.Context) {
		// signature covers the exact raw bytes, read before any parsing
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		signature := ctx.GetHeader("X-Razorpay-Signature")
		if !lib.VerifyWebhookSignature(payload, signature) {
			log.Println("Error verifying webhook signature")
			ctx.Status(http.StatusBadRequest)
			return
		}
		event := gjson.GetBytes(payload, "event").String()
		log.Printf("[RazorpayEvent] %s\n", event)
		switch event {
		case "payment.captured":
			if err := handlePaymentCaptured(payload); err != nil {
				log.Printf("Error handling payment.captured: %s\n", err.Error())
			}
		case "payment.failed":
			if err := handlePaymentFailed(payload); err != nil {
				log.Printf("Error handling payment.failed: %s\n", err.Error())
			}
		default:
			log.Printf("[Razorpay] ignoring event %s\n", event)
		}
		// acknowledged once the signature checks out; retries are handled by
		// the ledger, not by failing the delivery
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

// recordTransaction appends the ledger row for a gateway payment event.
// Returns false on replay: the unique key on payment id already holds a row
// for this event and nothing downstream should run again.
func recordTransaction(booking *models.Booking, paymentId string, orderId string, status types.TransactionStatus, payload []byte) (bool, error) {
	entity := gjson.GetBytes(payload, "payload.payment.entity")
	var raw types.JSONB
	if err := json.Unmarshal(payload, &raw); err != nil {
		log.Printf("Could not retain raw payload for payment %s: %s\n", paymentId, err.Error())
	}
	txn := models.Transaction{
		ID:           uuid.New(),
		PaymentID:    paymentId,
		OrderID:      orderId,
		BookingID:    booking.ID,
		AmountRupees: entity.Get("amount").Int() / 100,
		Currency:     entity.Get("currency").String(),
		Status:       status,
		Payload:      &raw,
	}
	if err := db.GetDb().Create(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[Razorpay] replayed delivery for payment %s, ledger already has it\n", paymentId)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func handlePaymentCaptured(payload []byte) error {
	entity := gjson.GetBytes(payload, "payload.payment.entity")
	paymentId := entity.Get("id").String()
	orderId := entity.Get("order_id").String()
	if paymentId == "" || orderId == "" {
		log.Println("[Razorpay] capture event without payment or order id, skipping")
		return nil
	}
	gdb := db.GetDb()
	var booking models.Booking
	if err := gdb.
		Model(&models.Booking{}).
		Where("razorpay_order_id = ?", orderId).
		First(&booking).
		Error; err != nil {
		log.Printf("[Razorpay] no booking for order %s\n", orderId)
		return nil
	}
	fresh, err := recordTransaction(&booking, paymentId, orderId, types.TRANSACTION_CAPTURED, payload)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}
	if !booking.PaymentStatus.CanAdvanceTo(types.PAYMENT_CAPTURED) {
		log.Printf("[Razorpay] Booking %s is %s, not advancing on payment %s\n", booking.ID, booking.PaymentStatus, paymentId)
		return nil
	}
	if err := gdb.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(&models.Booking{
			Status:            types.BOOKING_CONFIRMED,
			PaymentStatus:     types.PAYMENT_CAPTURED,
			RazorpayPaymentID: &paymentId,
		}).Error; err != nil {
		return err
	}
	publishLedgerEvent(types.JSONB{
		"source":     "payment.captured",
		"booking_id": booking.ID.String(),
		"payment_id": paymentId,
		"order_id":   orderId,
	})
	go fulfillBooking(booking.ID)
	return nil
}

func handlePaymentFailed(payload []byte) error {
	entity := gjson.GetBytes(payload, "payload.payment.entity")
	paymentId := entity.Get("id").String()
	orderId := entity.Get("order_id").String()
	if paymentId == "" || orderId == "" {
		log.Println("[Razorpay] failure event without payment or order id, skipping")
		return nil
	}
	gdb := db.GetDb()
	var booking models.Booking
	if err := gdb.
		Model(&models.Booking{}).
		Where("razorpay_order_id = ?", orderId).
		First(&booking).
		Error; err != nil {
		log.Printf("[Razorpay] no booking for order %s\n", orderId)
		return nil
	}
	fresh, err := recordTransaction(&booking, paymentId, orderId, types.TRANSACTION_FAILED, payload)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}
	// a capture already on the books wins over a late failure delivery
	if !booking.PaymentStatus.CanAdvanceTo(types.PAYMENT_FAILED) {
		log.Printf("[Razorpay] Booking %s is %s, ignoring failure of payment %s\n", booking.ID, booking.PaymentStatus, paymentId)
		return nil
	}
	if err := gdb.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(&models.Booking{PaymentStatus: types.PAYMENT_FAILED}).
		Error; err != nil {
		return err
	}
	publishLedgerEvent(types.JSONB{
		"source":     "payment.failed",
		"booking_id": booking.ID.String(),
		"payment_id": paymentId,
		"order_id":   orderId,
	})
	return nil
}

// defaultFulfillBooking runs the post-payment pipeline: artifacts first, then
// the notification fan-out with the fresh documents attached.
func defaultFulfillBooking(bookingId uuid.UUID) {
	gdb := db.GetDb()
	var booking models.Booking
	if err := gdb.
		Model(&models.Booking{}).
		Where("id = ?", bookingId).
		Preload("Artist").
		Preload("Artist.User").
		First(&booking).
		Error; err != nil {
		log.Printf("Error loading Booking %s for fulfillment: %s\n", bookingId, err.Error())
		return
	}
	artifacts := docs.GenerateAll(&booking)
	notify.Dispatch(&booking, artifacts)
}

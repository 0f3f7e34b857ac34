package docs

import (
	"abs/src/db"
	"abs/src/models"
	"abs/src/types"
	"log"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testBooking() *models.Booking {
	orderId := "order_test001"
	paymentId := "pay_test001"
	return &models.Booking{
		ID:                uuid.MustParse("a2b9cc9e-3a3f-4c55-9e06-6f54f5f0ccdd"),
		ArtistID:          1,
		ContactName:       "Test Organizer",
		ContactEmail:      "organizer@example.com",
		ContactPhone:      "+919800000002",
		AmountRupees:      50000,
		Currency:          "INR",
		EventDate:         "2026-11-21",
		EventTime:         "19:30",
		Venue:             "Pebble Courtyard",
		Notes:             "audience: 200 | rider: two vocal mics | travel: flight from Mumbai | parking: basement",
		Status:            types.BOOKING_CONFIRMED,
		PaymentStatus:     types.PAYMENT_CAPTURED,
		RazorpayOrderID:   &orderId,
		RazorpayPaymentID: &paymentId,
		Artist: &models.Artist{
			ID:        1,
			StageName: "Asha & The Nightowls",
			City:      "Bengaluru",
		},
	}
}

func TestParseEventNotes(t *testing.T) {
	t.Run("splits known keys and keeps the overflow", func(t *testing.T) {
		notes := ParseEventNotes("audience: 200 | rider: two vocal mics | travel: flight from Mumbai | parking: basement")
		assert.Equal(t, "200", notes.Audience)
		assert.Equal(t, "two vocal mics", notes.Rider)
		assert.Equal(t, "flight from Mumbai", notes.Travel)
		assert.Equal(t, "basement", notes.Extra["parking"])
	})

	t.Run("keys are case insensitive", func(t *testing.T) {
		notes := ParseEventNotes("Audience: 50 | RIDER: none")
		assert.Equal(t, "50", notes.Audience)
		assert.Equal(t, "none", notes.Rider)
	})

	t.Run("keeps bare segments", func(t *testing.T) {
		notes := ParseEventNotes("outdoor stage, bring covers")
		assert.Equal(t, "outdoor stage, bring covers", notes.Extra["note"])
	})

	t.Run("empty input parses to empty notes", func(t *testing.T) {
		assert.True(t, ParseEventNotes("").Empty())
		assert.True(t, ParseEventNotes(" | | ").Empty())
	})
}

func TestSecurityCode(t *testing.T) {
	code := SecurityCode("a2b9cc9e-3a3f-4c55-9e06-6f54f5f0ccdd")
	assert.Len(t, code, 6)
	assert.Equal(t, strings.ToUpper(code), code)
	// regeneration must print the same code on every document
	assert.Equal(t, code, SecurityCode("a2b9cc9e-3a3f-4c55-9e06-6f54f5f0ccdd"))
	assert.NotEqual(t, code, SecurityCode("something-else"))
}

func TestRenderHTML(t *testing.T) {
	booking := testBooking()
	for _, kind := range DocumentKinds {
		html, err := RenderHTML(kind, booking)
		assert.Nil(t, err)
		assert.Contains(t, html, "Asha &amp; The Nightowls")
		assert.Contains(t, html, SecurityCode(booking.ID.String()))
	}
	contact, err := RenderHTML(types.DOC_CONTACT, booking)
	assert.Nil(t, err)
	assert.Contains(t, contact, "two vocal mics")
	assert.Contains(t, contact, "basement")
	receipt, err := RenderHTML(types.DOC_RECEIPT, booking)
	assert.Nil(t, err)
	assert.Contains(t, receipt, "order_test001")
}

func TestFallbackPDF(t *testing.T) {
	booking := testBooking()
	for _, kind := range DocumentKinds {
		data, err := fallbackPDF(kind, booking)
		assert.Nil(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF"), "fallback output is not a PDF")
		assert.Greater(t, len(data), 500)
	}
}

func TestGenerateAll(t *testing.T) {
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	if err := d.AutoMigrate(&models.User{}, &models.Artist{}, &models.Booking{}); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)

	booking := testBooking()
	row := *booking
	row.Artist = nil
	assert.Nil(t, d.Create(&row).Error)

	renderDocument = func(kind types.DocumentKind, b *models.Booking) ([]byte, error) {
		return []byte("%PDF-stub"), nil
	}
	defer func() { renderDocument = RenderPDF }()

	artifacts := GenerateAll(booking)
	assert.Len(t, artifacts, len(DocumentKinds))
	for _, kind := range DocumentKinds {
		a := artifacts[kind]
		assert.NotNil(t, a)
		// no blob storage configured in tests, refs point at the endpoint
		assert.False(t, a.Durable)
		assert.Contains(t, a.Ref, string(kind))
		assert.Contains(t, a.Ref, booking.ID.String())
	}

	var fresh models.Booking
	assert.Nil(t, d.First(&fresh, "id = ?", booking.ID).Error)
	assert.NotNil(t, fresh.Artifacts)
	ref := (*fresh.Artifacts)[string(types.DOC_RECEIPT)].(map[string]any)["ref"].(string)
	assert.Contains(t, ref, "/documents/receipt")
}

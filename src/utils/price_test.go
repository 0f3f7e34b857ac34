package utils

import (
	"abs/src/models"
	"abs/src/types"
	"errors"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	if err := d.AutoMigrate(&models.User{}, &models.Artist{}); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	return d
}

func TestCoercePriceString(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"50000", 50000},
		{"₹50,000", 50000},
		{"50000/-", 50000},
		{"Rs. 1,20,000 onwards", 120000},
		{"negotiable", 0},
		{"", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CoercePriceString(c.in), "input %q", c.in)
	}
}

func TestResolveBookingPrice(t *testing.T) {
	d := newTestDB(t)

	rate := "₹30,000"
	user := models.User{Name: "A", Email: "a@example.com", BookingRate: &rate}
	assert.Nil(t, d.Create(&user).Error)

	t.Run("profile price wins over everything", func(t *testing.T) {
		price := "₹50,000"
		artist := &models.Artist{UserID: user.ID, Price: &price}
		client := int64(10)
		got, err := ResolveBookingPrice(d, artist, &client)
		assert.Nil(t, err)
		assert.Equal(t, int64(50000), got)
	})

	t.Run("falls back to the account rate", func(t *testing.T) {
		junk := "negotiable"
		artist := &models.Artist{UserID: user.ID, Price: &junk}
		got, err := ResolveBookingPrice(d, artist, nil)
		assert.Nil(t, err)
		assert.Equal(t, int64(30000), got)
	})

	t.Run("client price is the last resort", func(t *testing.T) {
		other := models.User{Name: "B", Email: "b@example.com"}
		assert.Nil(t, d.Create(&other).Error)
		artist := &models.Artist{UserID: other.ID}
		client := int64(15000)
		got, err := ResolveBookingPrice(d, artist, &client)
		assert.Nil(t, err)
		assert.Equal(t, int64(15000), got)
	})

	t.Run("falls through to the client price when the rate lookup errors", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		assert.Nil(t, err)
		defer mockDB.Close()
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
		assert.Nil(t, err)
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

		junk := "tbd"
		artist := &models.Artist{UserID: 42, Price: &junk}
		client := int64(20000)
		got, err := ResolveBookingPrice(gormDB, artist, &client)
		assert.Nil(t, err)
		assert.Equal(t, int64(20000), got)
	})

	t.Run("errors when nothing resolves", func(t *testing.T) {
		other := models.User{Name: "C", Email: "c@example.com"}
		assert.Nil(t, d.Create(&other).Error)
		artist := &models.Artist{UserID: other.ID}
		_, err := ResolveBookingPrice(d, artist, nil)
		assert.ErrorIs(t, err, types.ErrPriceUnavailable)
	})
}

func TestCheckEligibility(t *testing.T) {
	artist := &models.Artist{ID: 7, UserID: 3}

	assert.Nil(t, CheckEligibility(nil, artist))
	assert.Nil(t, CheckEligibility(&types.Identity{UserID: 99}, artist))
	assert.ErrorIs(t, CheckEligibility(&types.Identity{UserID: 3}, artist), types.ErrSelfBooking)
	assert.ErrorIs(t, CheckEligibility(&types.Identity{UserID: 99, ArtistID: 7}, artist), types.ErrSelfBooking)
}

func TestReceiptToken(t *testing.T) {
	id := uuid.MustParse("a2b9cc9e-3a3f-4c55-9e06-6f54f5f0ccdd")
	token := ReceiptToken(id)
	assert.Equal(t, "bk_a2b9cc9e3a3f4c559e066f54f5f0ccdd", token)
	// razorpay caps receipts at 40 characters
	assert.LessOrEqual(t, len(token), 40)
	assert.Equal(t, token, ReceiptToken(id))
}

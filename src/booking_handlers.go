package main

import (
	"abs/src/db"
	"abs/src/docs"
	"abs/src/middlewares"
	"abs/src/models"
	"abs/src/types"
	"abs/src/utils"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// myBookingHandlers carries the routes that require a signed-in caller.
func myBookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			v, _ := ctx.Get(middlewares.IdentityKey)
			identity, _ := v.(types.Identity)
			db := db.GetDb()
			var bookings []models.Booking
			q := db.Model(&models.Booking{}).Preload("Artist")
			if identity.ArtistID != 0 {
				// artists see bookings from both sides of the aliasing
				q = q.Where("organizer_id = ? OR artist_id = ?", identity.UserID, identity.ArtistID)
			} else {
				q = q.Where("organizer_id = ?", identity.UserID)
			}
			if err := q.
				Order("created_at desc").
				Limit(100).
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		})
	return g
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error while parsing request body: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
				return
			}
			var identity *types.Identity
			if v, ok := ctx.Get(middlewares.IdentityKey); ok {
				if id, ok := v.(types.Identity); ok {
					identity = &id
				}
			}
			result, err := utils.CreateNewBooking(&body, identity)
			if err != nil {
				if result != nil {
					// the booking row survived the gateway failure
					ctx.JSON(http.StatusBadGateway, gin.H{
						"success":   false,
						"message":   "payment gateway unavailable",
						"bookingId": result.Booking.ID,
					})
					return
				}
				status := http.StatusUnprocessableEntity
				switch {
				case errors.Is(err, types.ErrArtistNotFound):
					status = http.StatusNotFound
				case errors.Is(err, types.ErrSelfBooking):
					status = http.StatusForbidden
				}
				ctx.JSON(status, gin.H{"success": false, "message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"success":                  true,
				"bookingId":                result.Booking.ID,
				"fixedPriceRupees":         result.Booking.AmountRupees,
				"order":                    result.Order,
				"paymentGatewayConfigured": result.GatewayConfigured,
			})
		}).
		GET("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where("id = ?", params.ID).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"bookingId":     booking.ID,
				"status":        booking.Status,
				"paymentStatus": booking.PaymentStatus,
				"artifacts":     booking.Artifacts,
			})
		}).
		GET("/bookings/:id/documents/:kind", func(ctx *gin.Context) {
			var params types.DocumentURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			kind, ok := types.ParseDocumentKind(params.Kind)
			if !ok {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown document kind [%s]", params.Kind)})
				return
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where("id = ?", params.ID).
				Preload("Artist").
				Preload("Artist.User").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if booking.PaymentStatus != types.PAYMENT_CAPTURED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "booking is not paid"})
				return
			}
			if url, ok := docs.CachedURL(&booking, kind); ok {
				ctx.Redirect(http.StatusFound, url)
				return
			}
			data, err := docs.RenderPDF(kind, &booking)
			if err != nil {
				log.Printf("Error rendering %s for Booking %s: %s\n", kind, booking.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s-%s.pdf", kind, booking.ID))
			ctx.Data(http.StatusOK, "application/pdf", data)
		})
	return g
}

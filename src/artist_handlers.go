package main

import (
	"abs/src/db"
	"abs/src/models"
	"abs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func artistHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/artists", func(ctx *gin.Context) {
			db := db.GetDb()
			var artists []models.Artist
			if err := db.
				Model(&models.Artist{}).
				Limit(100).
				Find(&artists).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": artists, "count": len(artists)})
		}).
		GET("/artists/:id", func(ctx *gin.Context) {
			var params types.ArtistURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var artist models.Artist
			if err := db.
				Model(&models.Artist{}).
				Where(&models.Artist{ID: params.ID}).
				First(&artist).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": artist})
		})
	return g
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

func ListArtists(as *services.ArtistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := models.ArtistFilter{
			Query:    strings.TrimSpace(c.Query("q")),
			Type:     c.Query("type"),
			Genre:    c.Query("genre"),
			Location: c.Query("location"),
		}
		artists, err := as.ListArtists(c.Request.Context(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		if artists == nil {
			artists = []*models.Artist{}
		}
		c.JSON(http.StatusOK, gin.H{"artists": artists})
	}
}

func GetArtist(as *services.ArtistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		artist, err := as.GetArtist(c.Request.Context(), param(c, "id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"artist": artist})
	}
}

// ListPool returns the calling venue's saved artists.
// SaveArtist creates or replaces the calling artist account's profile.
func SaveArtist(as *services.ArtistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var artist models.Artist
		if err := c.ShouldBindJSON(&artist); err != nil {
			badRequest(c, err.Error())
			return
		}
		saved, err := as.SaveArtist(c.Request.Context(), &artist, claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"artist": saved})
	}
}

func ListPool(ps *services.PoolService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		artists, err := ps.ListPool(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"artists": artists})
	}
}

func AddToPool(ps *services.PoolService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		pool, err := ps.AddToPool(c.Request.Context(), claims.UserID, param(c, "artistId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(pool, "Artist added to pool"))
	}
}

func RemoveFromPool(ps *services.PoolService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		if err := ps.RemoveFromPool(c.Request.Context(), claims.UserID, param(c, "artistId")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Artist removed from pool"))
	}
}

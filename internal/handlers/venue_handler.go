package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

func GetVenue(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, err := v.GetVenue(c.Request.Context(), param(c, "id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(venue, ""))
	}
}

// SaveVenue creates or replaces the calling venue account's profile. A venue
// shares its id with the owning account.
func SaveVenue(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var venue models.Venue
		if err := c.ShouldBindJSON(&venue); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		venue.ID = claims.UserID

		saved, err := v.SaveVenue(c.Request.Context(), &venue, claims.UserID)
		if err != nil {
			if status := statusFor(err); status != 0 {
				c.JSON(status, models.ErrorResponse(err.Error()))
				return
			}
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(saved, "Venue saved successfully"))
	}
}

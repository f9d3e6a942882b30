package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

type createBookingRequest struct {
	EventID  string `json:"event_id" binding:"required"`
	ArtistID string `json:"artist_id"`
}

func CreateBooking(es *services.EventService, bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var body createBookingRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		ev, err := es.GetEvent(c.Request.Context(), body.EventID)
		if err != nil {
			respondError(c, err)
			return
		}
		if ev.VenueID != "" && !claims.IsOwner(ev.VenueID) {
			respondError(c, models.ErrForbidden)
			return
		}

		booking, err := bs.CreateBooking(c.Request.Context(), ev.ID, body.ArtistID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"booking": booking})
	}
}

func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := bs.ListBookings(c.Request.Context(), param(c, "id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if bookings == nil {
			bookings = []*models.Booking{}
		}
		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

// DeleteBooking removes an unconfirmed booking of the caller's venue.
func DeleteBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		id := param(c, "id")
		booking, err := bs.GetBooking(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if booking.VenueID != "" && !claims.IsOwner(booking.VenueID) {
			respondError(c, models.ErrForbidden)
			return
		}
		if err := bs.DeleteBooking(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

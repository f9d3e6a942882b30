package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/middleware"
	"github.com/joshua-takyi/jocky/internal/models"
)

// statusFor maps domain errors onto HTTP statuses. Zero means the error is
// unexpected and should surface as a 500.
func statusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrRequestNotFound),
		errors.Is(err, models.ErrArtistNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrVenueNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrRequestNotPending),
		errors.Is(err, models.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, helpers.ErrUploadsDisabled):
		return http.StatusServiceUnavailable
	}
	return 0
}

// respondError writes {"error": ...} for known errors and hands the rest to
// the ErrorHandler middleware.
func respondError(c *gin.Context, err error) {
	if status := statusFor(err); status != 0 {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(err)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func param(c *gin.Context, key string) string {
	return helpers.CleanID(c.Param(key))
}

// caller returns the authenticated user or writes a 401.
func caller(c *gin.Context) (*helpers.Claims, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return claims, true
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, key string) (models.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return models.Date{}, true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		badRequest(c, "invalid "+key+": expected YYYY-MM-DD")
		return models.Date{}, false
	}
	return d, true
}

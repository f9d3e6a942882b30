package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

func ListRequests(rs *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqs, err := rs.List(c.Request.Context(), param(c, "id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if reqs == nil {
			reqs = []models.ArtistRequest{}
		}
		c.JSON(http.StatusOK, gin.H{"requests": reqs})
	}
}

// ApplyToEvent files the calling artist's request to play the event.
func ApplyToEvent(rs *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		req, err := rs.Apply(c.Request.Context(), param(c, "id"), claims.UserID, body.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"request": req})
	}
}

// ResolveRequest accepts or declines one request of a venue-owned event.
func ResolveRequest(es *services.EventService, rs *services.RequestService, accept bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		ev, ok := ownedEvent(c, es, claims)
		if !ok {
			return
		}

		resolve := rs.Decline
		if accept {
			resolve = rs.Accept
		}
		res, err := resolve(c.Request.Context(), ev.ID, param(c, "requestId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

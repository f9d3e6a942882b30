package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

// maxRiderSize caps attachment uploads.
const maxRiderSize = 10 << 20

// ownedEvent loads the event and checks that the calling venue owns it.
func ownedEvent(c *gin.Context, es *services.EventService, claims *helpers.Claims) (*models.Event, bool) {
	ev, err := es.GetEvent(c.Request.Context(), param(c, "id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if ev.VenueID != "" && !claims.IsOwner(ev.VenueID) {
		respondError(c, models.ErrForbidden)
		return nil, false
	}
	return ev, true
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		q := models.EventQuery{
			VenueID: c.Query("venue_id"),
			Status:  models.EventStatus(c.Query("status")),
		}
		if q.VenueID == "" && claims.IsVenue() {
			q.VenueID = claims.UserID
		}
		if q.Status != "" && !q.Status.Valid() {
			badRequest(c, "invalid status filter")
			return
		}
		if q.From, ok = parseDateQuery(c, "from"); !ok {
			return
		}
		if q.To, ok = parseDateQuery(c, "to"); !ok {
			return
		}

		events, err := es.ListEvents(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		if events == nil {
			events = []*models.Event{}
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := es.GetEvent(c.Request.Context(), param(c, "id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"event": ev})
	}
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var ev models.Event
		if err := c.ShouldBindJSON(&ev); err != nil {
			badRequest(c, err.Error())
			return
		}

		created, err := es.CreateEvent(c.Request.Context(), &ev, claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"event": created})
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var patch models.EventPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, err.Error())
			return
		}
		ev, ok := ownedEvent(c, es, claims)
		if !ok {
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), ev.ID, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"event": updated})
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		ev, ok := ownedEvent(c, es, claims)
		if !ok {
			return
		}
		if err := es.DeleteEvent(c.Request.Context(), ev.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

// UploadAttachment stores the rider sent as the multipart field "file".
func UploadAttachment(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		ev, ok := ownedEvent(c, es, claims)
		if !ok {
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "file is required")
			return
		}
		if header.Size > maxRiderSize {
			badRequest(c, "file is too large")
			return
		}
		file, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer file.Close()

		updated, err := es.AttachRider(c.Request.Context(), ev.ID, file, filepath.Base(header.Filename))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"event": updated})
	}
}

// ListTransitions exposes the event lifecycle table.
func ListTransitions() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"transitions": lifecycle.Transitions()})
	}
}

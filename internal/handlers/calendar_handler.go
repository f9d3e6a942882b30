package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/scheduling"
	"github.com/joshua-takyi/jocky/internal/services"
)

// calendarVenue is the venue whose calendar is shown: the caller's own,
// unless venue_id names another.
func calendarVenue(c *gin.Context, claims *helpers.Claims) string {
	if id := c.Query("venue_id"); id != "" {
		return id
	}
	if claims.IsVenue() {
		return claims.UserID
	}
	return ""
}

func MonthCalendar(cs *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		ref, ok := parseDateQuery(c, "date")
		if !ok {
			return
		}
		month, err := cs.Month(c.Request.Context(), calendarVenue(c, claims), ref)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"month": month})
	}
}

func WeekCalendar(cs *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		ref, ok := parseDateQuery(c, "date")
		if !ok {
			return
		}
		week, err := cs.Week(c.Request.Context(), calendarVenue(c, claims), ref, scheduling.DefaultWindow)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"week": week})
	}
}

func EventHistory(cs *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		groups, err := cs.History(c.Request.Context(), calendarVenue(c, claims))
		if err != nil {
			respondError(c, err)
			return
		}
		if groups == nil {
			groups = []scheduling.HistoryGroup{}
		}
		c.JSON(http.StatusOK, gin.H{"history": groups})
	}
}

// CalendarFeed serves the venue's events as an iCalendar file.
func CalendarFeed(cs *services.CalendarService, domain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		opts := scheduling.ICSOptions{Domain: domain}
		if err := cs.WriteICS(c.Request.Context(), &buf, calendarVenue(c, claims), opts); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="jocky.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

func ListConversations(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		convs, err := ms.Conversations(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if convs == nil {
			convs = []models.Conversation{}
		}
		c.JSON(http.StatusOK, gin.H{"conversations": convs})
	}
}

func ListMessages(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		msgs, err := ms.Messages(c.Request.Context(), param(c, "conversationId"), claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if msgs == nil {
			msgs = []models.Message{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}

func SendMessage(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		var in services.SendMessageInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}

		sender := &models.User{ID: claims.UserID, Name: claims.Name, Email: claims.Email, Role: claims.Role}
		msg, err := ms.Send(c.Request.Context(), sender, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": msg})
	}
}

func MarkRead(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		n, err := ms.MarkRead(c.Request.Context(), param(c, "conversationId"), claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": n})
	}
}

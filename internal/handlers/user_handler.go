package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/services"
)

// Me returns the caller as the token describes it.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims})
	}
}

// GetUser loads a profile. Users may only read their own.
func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := caller(c)
		if !ok {
			return
		}
		id := param(c, "id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user ID is required"})
			return
		}
		if !claims.IsOwner(id) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only view your own profile"})
			return
		}

		token := c.GetString("access_token")
		user, err := u.GetUser(c.Request.Context(), id, token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

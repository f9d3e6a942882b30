package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

// sessionCookieAge matches the Supabase access token lifetime.
const sessionCookieAge = 3600

func setSessionCookies(c *gin.Context, res *models.AuthResult, secure bool) {
	c.SetCookie("access_token", res.Token, sessionCookieAge, "/", "", secure, true)
	if res.RefreshToken != "" {
		c.SetCookie("refresh_token", res.RefreshToken, 3600*24*30, "/", "", secure, true)
	}
}

func Register(u *services.UserService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}

		res, err := u.Register(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		setSessionCookies(c, res, secure)
		c.JSON(http.StatusCreated, res)
	}
}

func Login(u *services.UserService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		res, err := u.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		setSessionCookies(c, res, secure)
		c.JSON(http.StatusOK, res)
	}
}

// Logout clears the browser cookies. Bearer clients just drop their token.
func Logout(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("access_token", "", -1, "/", "", secure, true)
		c.SetCookie("refresh_token", "", -1, "/", "", secure, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}

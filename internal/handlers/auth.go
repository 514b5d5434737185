package handlers

import (
	"net/http"

	"campus-kpi-tracker/internal/auth"
	"campus-kpi-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login requests
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Login exchanges email and password for a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.Invalid("body", "%v", err))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the claims of the calling token
func (h *AuthHandler) Me(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		respondError(c, auth.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       claims.UserID(),
		"username": claims.Username,
		"role":     claims.Role,
	})
}

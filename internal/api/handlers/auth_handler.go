package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirsaid123/UY-Bor/internal/services"
)

// AuthHandler handles the phone-code authentication endpoints.
type AuthHandler struct {
	authService services.IAuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sendCodeRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// SendCode handles POST /auth/sendcode/
// The code is echoed back in the response. That is acceptable only because
// this is a demo flow; the real delivery path is the SMS task.
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}

	verification, err := h.authService.SendCode(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhoneNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid Phone Number"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send code"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"phone_number": verification.PhoneNumber,
		"random_code":  verification.Code,
	})
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// Login handles POST /auth/login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)

	if req.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}
	if req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code is required"})
		return
	}

	user, created, err := h.authService.Login(c.Request.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhoneNumber):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid Phone Number"})
		case errors.Is(err, services.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid code"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		}
		return
	}

	tokens, err := h.authService.GenerateTokens(user.ID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	message := "User logged in"
	if created {
		message = "User registered and logged in"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"user_id":      user.ID,
		"phone_number": user.PhoneNumber,
		"tokens":       tokens,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh handles POST /auth/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	tokens, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

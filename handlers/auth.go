package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"food-share-api/middleware"
	"food-share-api/models"
	"food-share-api/services"

	"github.com/gin-gonic/gin"
)

const (
	scopeLogin   = "login"
	scopeRecover = "recover"
)

// recoveryMessage is returned for every recovery request so the response
// never reveals whether a phone is registered.
const recoveryMessage = "If the phone number is registered, a temporary password has been sent to it."

type RegisterRequest struct {
	Name     string          `json:"name" form:"name" binding:"required"`
	Phone    string          `json:"phone" form:"phone" binding:"required"`
	Role     models.UserRole `json:"role" form:"role" binding:"required"`
	Password string          `json:"password" form:"password" binding:"required"`
}

type LoginRequest struct {
	Phone    string `json:"phone" form:"phone" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RecoverRequest struct {
	Phone string `json:"phone" form:"phone" binding:"required"`
}

// RegisterForm describes the registration form
func (h *Handler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":   "register",
		"fields": []string{"name", "phone", "role", "password"},
		"roles":  h.identity.RegistrationRoles(),
	})
}

// Register creates a new account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, phone, role and password are required"})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	redirectOrJSON(c, "/login", http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
	})
}

// LoginForm describes the login form
func (h *Handler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":   "login",
		"fields": []string{"phone", "password"},
	})
}

// Login authenticates by phone and password and starts a session.
// A failed attempt leaves any existing session untouched.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone and password are required"})
		return
	}
	ctx := c.Request.Context()

	blocked, err := h.limiter.Blocked(ctx, scopeLogin, req.Phone)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if blocked {
		h.respondError(c, services.ErrTooManyAttempts)
		return
	}

	user, err := h.identity.Login(ctx, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if ferr := h.limiter.Fail(ctx, scopeLogin, req.Phone); ferr != nil {
				h.logger.Warn("record failed login", slog.Any("error", ferr))
			}
		}
		h.respondError(c, err)
		return
	}
	if err := h.limiter.Reset(ctx, scopeLogin, req.Phone); err != nil {
		h.logger.Warn("reset login attempts", slog.Any("error", err))
	}

	// Replace, never stack, sessions on the same client.
	if old := middleware.SessionToken(c, SessionCookie); old != "" {
		if err := h.sessions.End(ctx, old); err != nil {
			h.logger.Warn("end previous session", slog.Any("error", err))
		}
	}

	token, sess, err := h.sessions.Start(ctx, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	redirectOrJSON(c, user.Role.DashboardPath(), http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"user":       user,
	})
}

// RecoverForm describes the password recovery form
func (h *Handler) RecoverForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":   "recover",
		"fields": []string{"phone"},
	})
}

// Recover issues a temporary password through the courier. The answer is the
// same for registered and unknown phones.
func (h *Handler) Recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}
	ctx := c.Request.Context()

	blocked, err := h.limiter.Blocked(ctx, scopeRecover, req.Phone)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if blocked {
		h.respondError(c, services.ErrTooManyAttempts)
		return
	}
	if err := h.limiter.Fail(ctx, scopeRecover, req.Phone); err != nil {
		h.logger.Warn("record recovery attempt", slog.Any("error", err))
	}

	if err := h.identity.Recover(ctx, req.Phone); err != nil && !errors.Is(err, services.ErrPhoneNotFound) {
		// Only the log tells a failed delivery apart from an unknown phone.
		h.logger.Error("password recovery failed", slog.Any("error", err))
	}
	c.JSON(http.StatusOK, gin.H{"message": recoveryMessage})
}

// Logout ends the current session, if any
func (h *Handler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, SessionCookie)
	if err := h.sessions.End(c.Request.Context(), token); err != nil {
		h.logger.Warn("end session", slog.Any("error", err))
	}
	h.clearSessionCookie(c)
	redirectOrJSON(c, "/login", http.StatusOK, gin.H{"message": "Logged out"})
}

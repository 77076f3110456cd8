package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"food-share-api/models"
	"food-share-api/session"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the authenticated caller of one request.
type Identity struct {
	SessionID string
	UserID    uint
	Role      models.UserRole
}

// SessionResolver turns a session token into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Session, error)
}

// RouteAuthorizer decides whether a role may use a route.
type RouteAuthorizer interface {
	Allow(ctx context.Context, role models.UserRole, required string) (bool, error)
}

// LoadSession resolves the caller from a Bearer token or the session cookie.
// Requests without a valid session continue anonymously.
func LoadSession(resolver SessionResolver, cookieName string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		sess, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Warn("session lookup failed", slog.Any("error", err))
			}
			c.Next()
			return
		}
		c.Set(identityKey, Identity{SessionID: sess.ID, UserID: sess.UserID, Role: sess.Role})
		c.Next()
	}
}

// SessionToken extracts the raw session token, preferring the Authorization header.
func SessionToken(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// RoleRequired admits callers whose role satisfies required ("any" admits
// every signed-in user). Anonymous and wrong-role callers are treated alike.
func RoleRequired(authorizer RouteAuthorizer, required string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		allowed, err := authorizer.Allow(c.Request.Context(), id.Role, required)
		if err != nil {
			logger.Error("route policy evaluation failed", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !allowed {
			DenyAccess(c)
			return
		}
		c.Next()
	}
}

// DenyAccess sends the caller to the login page, or answers 401 to JSON clients.
func DenyAccess(c *gin.Context) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

// CurrentIdentity returns the caller resolved by LoadSession.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := val.(Identity)
	return id, ok
}

// WantsJSON reports whether the client asked for, or sent, JSON.
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(strings.ToLower(c.GetHeader("Accept")), "application/json") {
		return true
	}
	return strings.HasPrefix(c.ContentType(), "application/json")
}

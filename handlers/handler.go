package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"food-share-api/middleware"
	"food-share-api/services"
	"food-share-api/session"
	"food-share-api/uploads"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie holding the session token.
const SessionCookie = "food_share_session"

// Handler serves every route of the application.
type Handler struct {
	identity     *services.IdentityService
	lifecycle    *services.LifecycleService
	sessions     *session.Manager
	uploads      *uploads.Saver
	limiter      *middleware.AttemptLimiter
	cookieSecure bool
	logger       *slog.Logger
}

// Deps are the collaborators a Handler is built from.
type Deps struct {
	Identity     *services.IdentityService
	Lifecycle    *services.LifecycleService
	Sessions     *session.Manager
	Uploads      *uploads.Saver
	Limiter      *middleware.AttemptLimiter
	CookieSecure bool
	Logger       *slog.Logger
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		identity:     d.Identity,
		lifecycle:    d.Lifecycle,
		sessions:     d.Sessions,
		uploads:      d.Uploads,
		limiter:      d.Limiter,
		cookieSecure: d.CookieSecure,
		logger:       logger,
	}
}

// respondError maps service errors to status codes. Anything unexpected is
// logged and answered with a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var terr *services.TransitionError
	switch {
	case errors.As(err, &terr):
		c.JSON(http.StatusConflict, gin.H{
			"error":             "invalid state transition",
			"post_id":           terr.PostID,
			"current_status":    terr.Current,
			"valid_next_states": terr.Valid,
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, services.ErrNotAssignee):
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrNotAssignee.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or password"})
	case errors.Is(err, services.ErrDuplicatePhone):
		c.JSON(http.StatusConflict, gin.H{"error": "phone number already registered"})
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": services.ErrTooManyAttempts.Error()})
	case errors.Is(err, uploads.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, uploads.ErrUnsupportedType), errors.Is(err, uploads.ErrEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// redirectOrJSON sends browsers to path and answers API clients with body.
func redirectOrJSON(c *gin.Context, path string, status int, body gin.H) {
	if middleware.WantsJSON(c) {
		body["redirect"] = path
		c.JSON(status, body)
		return
	}
	c.Redirect(http.StatusSeeOther, path)
}

// postID reads the :id path parameter. Malformed ids are unknown posts.
func postID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, services.ErrNotFound
	}
	return uint(id), nil
}

// caller returns the identity the role gate admitted.
func caller(c *gin.Context) middleware.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.cookieSecure, true)
}

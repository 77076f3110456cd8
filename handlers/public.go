package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home sends visitors to the login page
func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Food Share Coordination API",
		"variant": h.lifecycle.Machine().Variant(),
	})
}

// StateMachineInfo returns the active lifecycle for informational purposes
func (h *Handler) StateMachineInfo(c *gin.Context) {
	m := h.lifecycle.Machine()
	c.JSON(http.StatusOK, gin.H{
		"variant":         m.Variant(),
		"statuses":        m.Statuses(),
		"terminal_states": m.Terminal(),
		"transitions":     m.Transitions(),
	})
}

// PostHistory returns the status trail of one post
func (h *Handler) PostHistory(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	history, err := h.lifecycle.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post_id": id,
		"count":   len(history),
		"history": history,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VolunteerDashboard shows Pending posts, plus the caller's Picked posts in the pickup variant
func (h *Handler) VolunteerDashboard(c *gin.Context) {
	posts, err := h.lifecycle.VolunteerPosts(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"variant": h.lifecycle.Machine().Variant(),
		"count":   len(posts),
		"posts":   posts,
	})
}

// AcceptPost assigns the post to the volunteer and moves it out of Pending
func (h *Handler) AcceptPost(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	post, err := h.lifecycle.Accept(c.Request.Context(), id, caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	redirectOrJSON(c, "/volunteer", http.StatusOK, gin.H{
		"message": "Post accepted",
		"post":    post,
	})
}

// MarkCollected transitions Picked → Collected. Only the assigned volunteer may do this.
func (h *Handler) MarkCollected(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	post, err := h.lifecycle.MarkCollected(c.Request.Context(), id, caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	redirectOrJSON(c, "/volunteer", http.StatusOK, gin.H{
		"message": "Post marked as collected",
		"post":    post,
	})
}

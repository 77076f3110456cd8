package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReceiverDashboard lists collected food available to book
func (h *Handler) ReceiverDashboard(c *gin.Context) {
	posts, err := h.lifecycle.ReceiverPosts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(posts), "posts": posts})
}

// BookPost transitions Collected → Booked for the calling receiver
func (h *Handler) BookPost(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	post, err := h.lifecycle.Book(c.Request.Context(), id, caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	redirectOrJSON(c, "/receiver", http.StatusOK, gin.H{
		"message": "Food booked successfully",
		"post":    post,
	})
}

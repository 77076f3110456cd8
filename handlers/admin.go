package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminDashboard returns user and post totals with the full lists
func (h *Handler) AdminDashboard(c *gin.Context) {
	summary, err := h.lifecycle.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

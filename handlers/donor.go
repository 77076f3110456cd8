package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"food-share-api/services"

	"github.com/gin-gonic/gin"
)

type AddFoodRequest struct {
	FoodName string      `json:"food_name" form:"food_name"`
	Quantity string      `json:"quantity" form:"quantity"`
	Location string      `json:"location" form:"location"`
	Price    json.Number `json:"price" form:"price"`
}

// DonorDashboard lists the caller's own posts, newest first
func (h *Handler) DonorDashboard(c *gin.Context) {
	posts, err := h.lifecycle.DonorPosts(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(posts), "posts": posts})
}

// AddFoodForm describes the listing form
func (h *Handler) AddFoodForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":     "add_food",
		"fields":   []string{"food_name", "quantity", "location"},
		"optional": []string{"price", "image"},
	})
}

// AddFood lists surplus food. Accepts a multipart form with an optional image.
func (h *Handler) AddFood(c *gin.Context) {
	var req AddFoodRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := parsePrice(req.Price.String())
	if err != nil {
		h.respondError(c, err)
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	post, err := h.lifecycle.CreatePost(c.Request.Context(), caller(c).UserID, services.NewPostInput{
		FoodName: req.FoodName,
		Quantity: req.Quantity,
		Location: req.Location,
		Image:    image,
		Price:    price,
	})
	if err != nil {
		if image != "" {
			if rmErr := h.uploads.Remove(image); rmErr != nil {
				h.logger.Warn("remove orphaned upload", slog.String("name", image), slog.Any("error", rmErr))
			}
		}
		h.respondError(c, err)
		return
	}

	redirectOrJSON(c, "/donor", http.StatusCreated, gin.H{
		"message": "Food listed successfully",
		"post":    post,
	})
}

// saveImage stores the optional "image" file and returns its stored name.
func (h *Handler) saveImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", services.ErrInvalidInput
	}
	return h.uploads.Save(fh)
}

func parsePrice(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	price, err := strconv.Atoi(raw)
	if err != nil {
		return nil, services.ErrInvalidInput
	}
	return &price, nil
}

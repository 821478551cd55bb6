package handlers

import (
	"net/http"
	"strconv"

	"grabbi-storefront/database"
	"grabbi-storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GiftAttemptHandler exposes the local journal of redeem and gift attempts.
type GiftAttemptHandler struct {
	Journal *database.Journal
}

func (h *GiftAttemptHandler) GetAttempts(c *gin.Context) {
	if h.Journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Attempt journal is not configured"})
		return
	}

	status := c.Query("status")
	if status != "" && !models.IsValidAttemptStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	attempts, total, err := h.Journal.List(c.Request.Context(), status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attempts"})
		return
	}

	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"attempts": attempts,
		"total":    total,
		"page":     page,
	})
}

func (h *GiftAttemptHandler) GetAttempt(c *gin.Context) {
	if h.Journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Attempt journal is not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attempt ID"})
		return
	}

	attempt, err := h.Journal.Get(c.Request.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attempt"})
		return
	}
	c.JSON(http.StatusOK, attempt)
}

package handlers

import (
	"net/http"

	"mindpal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the top users by lifetime coins and the caller's rank.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		response.BadRequest(c, "invalid limit")
		return
	}

	board, err := h.Users.Leaderboard(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

package handlers

import (
	"net/http"

	"mindpal/internal/http/response"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.Users.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Transactions returns the caller's coin ledger, newest first.
func (h *Handler) Transactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		response.BadRequest(c, "invalid limit")
		return
	}

	txs, err := h.Users.Transactions(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

package handlers

import (
	"net/http"

	"mindpal/internal/domain"
	"mindpal/internal/http/response"
	"mindpal/internal/service"

	"github.com/gin-gonic/gin"
)

type JournalRequest struct {
	Content    string             `json:"content" binding:"required"`
	Mood       string             `json:"mood" binding:"required"`
	Confidence *float64           `json:"confidence" binding:"omitempty,gte=0,lte=1"`
	AIAnalysis *domain.AIAnalysis `json:"aiAnalysis"`
}

func (h *Handler) SubmitJournal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req JournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.Journal.Submit(c.Request.Context(), userID, service.SubmitRequest{
		Content:    req.Content,
		Mood:       req.Mood,
		Confidence: req.Confidence,
		AIAnalysis: req.AIAnalysis,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListJournal returns the caller's entries from the last ?days= days.
func (h *Handler) ListJournal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := queryInt(c, "days", 30)
	if !ok {
		response.BadRequest(c, "invalid days")
		return
	}

	entries, err := h.Journal.List(c.Request.Context(), userID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) TodayJournal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entry, err := h.Journal.Today(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) MoodAnalytics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := queryInt(c, "days", 30)
	if !ok {
		response.BadRequest(c, "invalid days")
		return
	}

	res, err := h.Analytics.Moods(c.Request.Context(), userID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

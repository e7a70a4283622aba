package handlers

import (
	"net/http"

	"mindpal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetQuests lists active quests without progress.
func (h *Handler) GetQuests(c *gin.Context) {
	quests, err := h.Quests.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// GetMyQuests returns active quests with the caller's progress for the current period.
func (h *Handler) GetMyQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quests, err := h.Quests.ForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// ClaimQuestReward takes a user quest id, not a quest id.
func (h *Handler) ClaimQuestReward(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userQuestID, ok := paramID(c)
	if !ok {
		response.BadRequest(c, "invalid quest id")
		return
	}

	u, reward, err := h.Quests.Claim(c.Request.Context(), userID, userQuestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reward":     reward,
		"coins":      u.Coins,
		"totalCoins": u.TotalCoins,
		"level":      u.Level,
	})
}

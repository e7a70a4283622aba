package handlers

import (
	"net/http"

	"mindpal/internal/http/response"

	"github.com/gin-gonic/gin"
)

type TopicRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *Handler) ListTopics(c *gin.Context) {
	limit, okLimit := queryInt(c, "limit", 50)
	offset, okOffset := queryInt(c, "offset", 0)
	if !okLimit || !okOffset {
		response.BadRequest(c, "invalid pagination")
		return
	}

	topics, err := h.Forum.ListTopics(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (h *Handler) GetTopic(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		response.BadRequest(c, "invalid topic id")
		return
	}

	topic, err := h.Forum.GetTopic(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *Handler) CreateTopic(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	topic, err := h.Forum.CreateTopic(c.Request.Context(), userID, req.Title, req.Body, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func (h *Handler) CreateReply(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	topicID, ok := paramID(c)
	if !ok {
		response.BadRequest(c, "invalid topic id")
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	reply, err := h.Forum.Reply(c.Request.Context(), userID, topicID, req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *Handler) LikeTopic(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	topicID, ok := paramID(c)
	if !ok {
		response.BadRequest(c, "invalid topic id")
		return
	}

	like, err := h.Forum.LikeTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, like)
}

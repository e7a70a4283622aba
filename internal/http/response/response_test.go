package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mindpal/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, h gin.HandlerFunc, body string) (int, Body) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)

	var out Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrAlreadyJournaledToday, http.StatusConflict, "duplicate_entry"},
		{fmt.Errorf("service: %w", domain.ErrInsufficientCoins), http.StatusPaymentRequired, "insufficient_coins"},
		{domain.ErrPremiumRequired, http.StatusForbidden, "premium_required"},
		{domain.ErrItemOwned, http.StatusConflict, "item_owned"},
		{domain.ErrTopicNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, body := run(t, func(c *gin.Context) { Error(c, tc.err) }, "")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestError_DuplicateBody(t *testing.T) {
	_, body := run(t, func(c *gin.Context) { Error(c, domain.ErrAlreadyJournaledToday) }, "")
	assert.Equal(t, "already journaled today", body.Error)
}

func TestError_ValidationDetails(t *testing.T) {
	status, body := run(t, func(c *gin.Context) {
		Error(c, domain.NewValidationError("content", "must be 10 to 5000 characters"))
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, map[string]string{"content": "must be 10 to 5000 characters"}, body.Details)
}

func TestBindError_UsesJSONNames(t *testing.T) {
	type req struct {
		ItemID string `json:"itemId" binding:"required"`
		Amount int    `json:"amount" binding:"omitempty,max=5"`
	}
	status, body := run(t, func(c *gin.Context) {
		var r req
		err := c.ShouldBindJSON(&r)
		require.Error(t, err)
		BindError(c, err)
	}, `{"amount":9}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "is required", body.Details["itemId"])
	assert.Equal(t, "must be at most 5", body.Details["amount"])
}

func TestBindError_Malformed(t *testing.T) {
	status, body := run(t, func(c *gin.Context) {
		var r struct{}
		BindError(c, c.ShouldBindJSON(&r))
	}, `{`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", body.Error)
}

// Package response writes JSON error bodies and maps domain errors to HTTP statuses.
package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"mindpal/internal/domain"
	"mindpal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Body is the shape of every error response.
type Body struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type mapping struct {
	target error
	status int
	code   string
}

var mappings = []mapping{
	{domain.ErrAlreadyJournaledToday, http.StatusConflict, "duplicate_entry"},
	{domain.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{domain.ErrItemOwned, http.StatusConflict, "item_owned"},
	{domain.ErrQuestNotClaimable, http.StatusConflict, "not_claimable"},
	{domain.ErrInsufficientCoins, http.StatusPaymentRequired, "insufficient_coins"},
	{domain.ErrPremiumRequired, http.StatusForbidden, "premium_required"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrEntryNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrTopicNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrQuestNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrUnknownItem, http.StatusNotFound, "unknown_item"},
}

func init() {
	// report json field names instead of Go field names in validation details
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

// Error writes err as a JSON error response. Unknown errors become a 500 and
// are logged with the request logger.
func Error(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Body{
			Error:   domain.ErrValidation.Error(),
			Details: map[string]string{ve.Field: ve.Reason},
		})
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, Body{Error: m.target.Error(), Code: m.code})
			return
		}
	}

	logger.FromContext(c.Request.Context()).Error("request failed",
		"path", c.FullPath(),
		logger.Err(err),
	)
	c.JSON(http.StatusInternalServerError, Body{Error: "internal error"})
}

// BindError writes a 400 for a request body or query that failed to bind.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		c.JSON(http.StatusBadRequest, Body{Error: domain.ErrValidation.Error(), Details: details})
		return
	}
	c.JSON(http.StatusBadRequest, Body{Error: "invalid request body"})
}

// BadRequest writes a 400 with a plain message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Error: message})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

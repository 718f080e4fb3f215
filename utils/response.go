package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RespondWithError aborts the request with {"error": message}.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondInvalidInput reports binding failures field by field.
func RespondInvalidInput(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, gin.H{
				"field": fe.Field(),
				"rule":  fe.Tag(),
			})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": details})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
}

// RespondInternal logs err and answers with a generic 500.
func RespondInternal(c *gin.Context, msg string, err error) {
	zap.L().Error(msg,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

// Recovery converts panics into a logged 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		zap.L().Error("Unhandled panic",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	})
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NilIfBlank turns "" (after trimming) into nil.
func NilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

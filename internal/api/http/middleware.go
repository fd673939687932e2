package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
)

const requestIDHeader = "X-Request-Id"

// requestID tags every request with a UUID, honoring one supplied by the
// caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// traced opens a span per request. A no-op when tracing is unconfigured.
func traced() gin.HandlerFunc {
	tracer := otel.Tracer("atlas-server")
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

// bearerAuth requires a valid HS256 bearer token signed with secret.
func bearerAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithError(c, apperrors.New(apperrors.CodeAuthTokenMissing, "bearer token is required"))
			return
		}
		parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !parsed.Valid {
			abortWithError(c, apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "bearer token is invalid", err))
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	c.AbortWithStatusJSON(code.HTTPStatus(), gin.H{
		"code":    code,
		"message": err.Error(),
	})
}

// respondError maps a domain error onto an HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()
	if status == http.StatusInternalServerError {
		// Internal detail stays in logs, not responses.
		c.JSON(status, gin.H{"code": code, "message": "internal error"})
		return
	}
	c.JSON(status, gin.H{"code": code, "message": err.Error()})
}

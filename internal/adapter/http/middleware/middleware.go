package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"
	"marketplace-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// DefaultSignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
	DefaultSignatureHeader = "X-Signature"

	// Context keys
	CtxRequestID = "request_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one, and
// stores it where the response envelopes pick it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// WebhookSignature verifies that the raw request body was signed with secret.
// The body is restored so handlers can read it again.
func WebhookSignature(sigSvc ports.SignatureService, header, secret string, log zerolog.Logger) gin.HandlerFunc {
	if header == "" {
		header = DefaultSignatureHeader
	}
	return func(c *gin.Context) {
		signature := c.GetHeader(header)
		if signature == "" {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		if !sigSvc.Verify(secret, bodyBytes, signature) {
			log.Warn().Str("client_ip", c.ClientIP()).Str("path", c.Request.URL.Path).Msg("webhook signature mismatch")
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		c.Next()
	}
}

// MaxBodySize limits the request body. Reads past maxBytes fail, which
// handlers surface as a validation error.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(CtxRequestID)).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": apperror.CodeInternal,
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// HeaderUserID identifies the calling user to routes that act on their behalf.
const HeaderUserID = "X-User-ID"

// CtxCallerID holds the uuid.UUID parsed from HeaderUserID.
const CtxCallerID = "caller_id"

// CallerIdentity requires a user id in HeaderUserID and stores it in the
// context. Authentication happens upstream of this service.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(HeaderUserID))
		if err != nil || id == uuid.Nil {
			response.Error(c, apperror.Validation(HeaderUserID+" header must carry a user id"))
			c.Abort()
			return
		}
		c.Set(CtxCallerID, id)
		c.Next()
	}
}

package middleware

import (
	"bytes"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chappi-wallet/internal/adapter/federation"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"
	"chappi-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Max timestamp drift allowed (60 seconds)
	maxTimestampDrift = 60 * time.Second

	// Nonce TTL (120 seconds)
	nonceTTL = 120 * time.Second

	// nonceScope namespaces federation peer nonces in the shared store.
	nonceScope = "federation"

	// Context keys
	CtxRequestID  = "request_id"
	CtxSubject    = "subject"
	CtxResourceID = "audit_resource_id"
)

// RequestID propagates X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// FederationHMAC verifies requests from federation peers signed with the
// shared secret. Pipeline: check timestamp -> check nonce -> verify signature.
func FederationHMAC(
	sharedSecret string,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(federation.HeaderSignature)
		timestampStr := c.GetHeader(federation.HeaderTimestamp)
		nonce := c.GetHeader(federation.HeaderNonce)

		if signature == "" || timestampStr == "" || nonce == "" {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		// Step 1: Timestamp check
		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}
		now := time.Now().Unix()
		if math.Abs(float64(now-timestamp)) > maxTimestampDrift.Seconds() {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}

		// Step 2: Nonce check
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), nonceScope, nonce, nonceTTL)
		if err != nil {
			log.Warn().Err(err).Msg("nonce store error, allowing request")
		} else if !isNew {
			response.Error(c, apperror.ErrNonceUsed())
			c.Abort()
			return
		}

		// Step 3: Signature verification
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		canonical := sigSvc.BuildCanonicalString(
			c.Request.Method,
			c.Request.URL.Path,
			timestamp,
			nonce,
			string(bodyBytes),
		)

		if !sigSvc.Verify(sharedSecret, canonical, signature) {
			log.Warn().Str("client_ip", c.ClientIP()).Msg("federation request with bad signature")
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		c.Set(CtxSubject, "federation-peer")
		c.Next()
	}
}

// JWTAuth validates operator bearer tokens.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("rejected operator token")
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxSubject, claims.Subject)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
// Query strings are not logged.
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
			Str("request_id", c.GetString(CtxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("subject", c.GetString(CtxSubject)).
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
					"error_code": "SYS_002",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

package handler

import (
	"imagesvc/internal/core/domain"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID propagates the X-Request-ID header, generating a UUID when the client sent none.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			generated, err := uuid.NewV4()
			if err != nil {
				log.Warn().Err(err).Msg("could not generate request id")
			} else {
				id = generated.String()
			}
		}

		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(domain.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog logs one line per request once the handler chain has finished.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()

		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}

		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}

		ev.Str("requestId", domain.RequestID(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int64("bytesIn", c.Request.ContentLength).
			Int("bytesOut", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request processed")
	}
}

// Recovery turns a panic into an internal error response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Str("requestId", domain.RequestID(c.Request.Context())).
			Msg("recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{
			Detail: "internal server error",
			Code:   http.StatusInternalServerError,
		})
	})
}

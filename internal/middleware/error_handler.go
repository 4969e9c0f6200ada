package middleware

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// statusClientClosed is logged when the caller went away mid-request.
const statusClientClosed = 499

// ErrorHandler turns errors attached with c.Error into a 500 envelope.
// Handlers answer every expected failure themselves; whatever reaches this
// point is logged with the request id and never echoed to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if errors.Is(err, context.Canceled) {
			log.Debug().Str("request_id", c.GetString(RequestIDKey)).Str("path", c.FullPath()).Msg("request cancelled by client")
			if !c.Writer.Written() {
				c.AbortWithStatus(statusClientClosed)
			}
			return
		}

		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err).
			Msg("unhandled error")

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(apierror.InternalMessage))
	}
}

// Recovery converts panics into 500 responses. The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(apierror.InternalMessage))
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. The level follows the status class;
// health probes only show up at debug level.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case c.Request.URL.Path == "/health":
			ev = log.Debug()
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// corsOptions mirror the headers browser clients of the edge function relied on
var corsOptions = cors.Options{
	AllowedOrigins:       []string{"*"},
	AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowedHeaders:       []string{"authorization", "x-client-info", "apikey", "content-type"},
	OptionsSuccessStatus: http.StatusOK,
}

// WithCORS wraps the router so preflight requests on any path are answered
// with an empty 200 before reaching gin.
func WithCORS(h http.Handler) http.Handler {
	return cors.New(corsOptions).Handler(h)
}

// RequestLogger logs one line per request through logrus
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}).Info("HTTP request")
	}
}

package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func accessLog(lgr *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		lgr.Info("request",
			logger.METHOD, c.Request.Method,
			logger.PATH, path,
			logger.STATUS, c.Writer.Status(),
			logger.LATENCY, time.Since(start),
		)
	}
}

func recovery(lgr *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		lgr.With(logger.ERROR, errors.Errorf("%v", rec)).Error("panic in handler", logger.PATH, c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

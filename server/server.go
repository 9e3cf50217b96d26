// Package server exposes the projection over HTTP. Every request carries
// its own scenario and the whole ledger is recomputed per call.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunIDHeader carries the identifier of the request's simulation run.
const RunIDHeader = "X-Run-ID"

const runIDKey = "run_id"

// New returns a router with every route registered.
func New() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RunID(), requestLogger())

	r.GET("/healthz", healthz)
	v1 := r.Group("/v1")
	v1.GET("/scenarios/default", defaultScenario)
	v1.POST("/simulate", simulateJSON)
	v1.POST("/simulate.csv", simulateCSV)
	return r
}

// RunID assigns a fresh uuid to each request. A caller-supplied id is kept
// only when it parses as a uuid.
func RunID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RunIDHeader)
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		} else {
			if id != "" {
				logrus.Debugf("ignoring %s %q: %v", RunIDHeader, id, err)
			}
			id = uuid.NewString()
		}
		c.Set(runIDKey, id)
		c.Writer.Header().Set(RunIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"run_id":  c.GetString(runIDKey),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request")
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Health pings the database and, when configured, Redis and RabbitMQ.
// Any failing dependency turns the response into a 503.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{"database": h.checkDB(ctx)}
	allOK := deps["database"].(dependencyStatus).OK
	if h.Redis != nil {
		st := h.checkRedis(ctx)
		deps["redis"] = st
		allOK = allOK && st.OK
	}
	if h.Events != nil {
		st := dependencyStatus{OK: h.Events.Healthy()}
		if !st.OK {
			st.Message = "connection closed"
		}
		deps["rabbitmq"] = st
		allOK = allOK && st.OK
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ok":           allOK,
		"uptime_sec":   int(time.Since(h.StartedAt).Seconds()),
		"dependencies": deps,
	})
}

func (h *Handler) checkDB(ctx context.Context) dependencyStatus {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *Handler) checkRedis(ctx context.Context) dependencyStatus {
	if err := h.Redis.Ping(ctx); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

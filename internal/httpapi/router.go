package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/ai-assistant/internal/common"
	"github.com/suPer8Hu/ai-assistant/internal/config"
	"github.com/suPer8Hu/ai-assistant/internal/httpapi/handlers"
	"github.com/suPer8Hu/ai-assistant/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(h.Logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/", h.Index)
	r.GET("/ping", h.Ping)
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.GET("/models", h.ListModels)
	api.POST("/models/select", h.SelectModel)

	api.POST("/chat", h.Chat)

	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/current", h.CurrentSession)
	api.GET("/sessions/:session_id", h.GetSession)
	api.POST("/sessions/clear", h.ClearSession)
	api.POST("/sessions/new", h.NewSession)

	api.POST("/memories", h.CreateMemory)
	api.GET("/memories", h.ListMemories)
	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

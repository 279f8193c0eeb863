package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/ai-assistant/internal/common"
)

type createMemoryReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

func (h *Handler) CreateMemory(c *gin.Context) {
	var req createMemoryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		common.Fail(c, http.StatusBadRequest, codeBadRequest, "session_id and name are required")
		return
	}

	m, err := h.ChatSvc.AddMemory(c.Request.Context(), req.SessionID, strings.TrimSpace(req.Name))
	if err != nil {
		h.storageError(c, "create memory", err)
		return
	}
	common.OK(c, m)
}

func (h *Handler) ListMemories(c *gin.Context) {
	memories, err := h.ChatSvc.ListMemories(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		h.storageError(c, "list memories", err)
		return
	}
	common.OK(c, gin.H{"memories": memories})
}

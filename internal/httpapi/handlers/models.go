package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
	"github.com/suPer8Hu/ai-assistant/internal/common"
)

func (h *Handler) ListModels(c *gin.Context) {
	res := h.Catalog.List(c.Request.Context())
	data := gin.H{"models": res.Models}
	if res.Err != nil {
		data["error"] = "model runtime unavailable"
	}
	common.OK(c, data)
}

type selectModelReq struct {
	ModelName string `json:"model_name" binding:"required"`
}

func (h *Handler) SelectModel(c *gin.Context) {
	var req selectModelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, codeBadRequest, "model_name is required")
		return
	}

	var (
		sessionID string
		err       error
	)
	h.withConversation(func(conv *chat.Conversation) {
		err = h.Catalog.Select(c.Request.Context(), conv, req.ModelName)
		sessionID = conv.SessionID
	})
	if err != nil {
		h.chatError(c, "select model", err)
		return
	}
	common.OK(c, gin.H{"model_name": req.ModelName, "session_id": sessionID})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
	"github.com/suPer8Hu/ai-assistant/internal/common"
	"github.com/suPer8Hu/ai-assistant/internal/httpapi/middleware"
)

type chatReq struct {
	Prompt       string `json:"prompt" binding:"required"`
	SystemPrompt string `json:"system_prompt"`
	SessionID    string `json:"session_id"`
}

type chatResp struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
	Fallback  bool   `json:"fallback"`
}

// Chat runs one turn on the shared conversation. A session_id other than the
// active one switches to that session first.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		common.Fail(c, http.StatusBadRequest, codeBadRequest, "prompt is required")
		return
	}
	ctx := c.Request.Context()

	var (
		resp chatResp
		err  error
	)
	h.withConversation(func(conv *chat.Conversation) {
		if conv.Model == "" {
			err = chat.ErrNoModelSelected
			return
		}
		if sid := strings.TrimSpace(req.SessionID); sid != "" && sid != conv.SessionID {
			if err = h.ChatSvc.SwitchSession(ctx, conv, sid); err != nil {
				return
			}
		}

		var res chat.TurnResult
		res, err = h.ChatSvc.GenerateTurn(ctx, conv, req.Prompt, req.SystemPrompt)
		if err != nil {
			return
		}
		if res.Fallback {
			h.Logger.Warn("chat answered with fallback",
				"request_id", middleware.RequestIDFrom(c), "session_id", conv.SessionID, "cause", res.Cause)
		}
		resp = chatResp{
			Response:  res.Reply,
			SessionID: conv.SessionID,
			Model:     conv.Model,
			Fallback:  res.Fallback,
		}
	})
	if err != nil {
		h.chatError(c, "chat", err)
		return
	}
	common.OK(c, resp)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
	"github.com/suPer8Hu/ai-assistant/internal/common"
)

// ListSessions returns stored sessions newest first; ?model= filters by model.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.ChatSvc.ListSessions(c.Request.Context(), c.Query("model"))
	if err != nil {
		h.storageError(c, "list sessions", err)
		return
	}
	common.OK(c, gin.H{"sessions": sessions})
}

func (h *Handler) GetSession(c *gin.Context) {
	res, err := h.ChatSvc.LookupSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.storageError(c, "get session", err)
		return
	}
	if !res.Found {
		common.Fail(c, http.StatusNotFound, codeSessionNotFound, "session not found")
		return
	}
	common.OK(c, gin.H{"session": res.Session, "messages": res.Messages})
}

// CurrentSession reports the active session id, the selected model and the
// in-memory transcript.
func (h *Handler) CurrentSession(c *gin.Context) {
	var data gin.H
	h.withConversation(func(conv *chat.Conversation) {
		data = gin.H{"session_id": conv.SessionID, "model": conv.Model, "transcript": conv.Snapshot()}
	})
	common.OK(c, data)
}

func (h *Handler) ClearSession(c *gin.Context) {
	var (
		sessionID string
		err       error
	)
	h.withConversation(func(conv *chat.Conversation) {
		err = h.ChatSvc.ClearSession(c.Request.Context(), conv)
		sessionID = conv.SessionID
	})
	if err != nil {
		h.chatError(c, "clear session", err)
		return
	}
	common.OK(c, gin.H{"session_id": sessionID})
}

func (h *Handler) NewSession(c *gin.Context) {
	var (
		sessionID string
		err       error
	)
	h.withConversation(func(conv *chat.Conversation) {
		err = h.ChatSvc.StartNewSession(conv)
		sessionID = conv.SessionID
	})
	if err != nil {
		h.chatError(c, "new session", err)
		return
	}
	common.OK(c, gin.H{"session_id": sessionID})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
	"github.com/suPer8Hu/ai-assistant/internal/common"
	"github.com/suPer8Hu/ai-assistant/internal/httpapi/middleware"
	"github.com/suPer8Hu/ai-assistant/internal/store/rabbitmq"
	"github.com/suPer8Hu/ai-assistant/internal/store/redisstore"
	"gorm.io/gorm"
)

// envelope codes
const (
	codeBadRequest      = 40000
	codeInvalidModel    = 40001
	codeNoModelSelected = 40002
	codeSessionNotFound = 40401
	codeStorage         = 50001
)

type Deps struct {
	DB      *gorm.DB
	ChatSvc *chat.Service
	Catalog *chat.Catalog
	Redis   *redisstore.Store   // optional
	Events  *rabbitmq.Publisher // optional
	Logger  *slog.Logger
}

// Handler serves the API. All requests share one conversation, so the
// selected model and the active session are process wide.
type Handler struct {
	DB        *gorm.DB
	ChatSvc   *chat.Service
	Catalog   *chat.Catalog
	Redis     *redisstore.Store
	Events    *rabbitmq.Publisher
	Logger    *slog.Logger
	StartedAt time.Time

	mu   sync.Mutex
	conv *chat.Conversation
}

func NewHandler(d Deps) (*Handler, error) {
	conv, err := d.ChatSvc.NewConversation()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		DB:        d.DB,
		ChatSvc:   d.ChatSvc,
		Catalog:   d.Catalog,
		Redis:     d.Redis,
		Events:    d.Events,
		Logger:    logger,
		StartedAt: time.Now(),
		conv:      conv,
	}, nil
}

// withConversation runs fn while holding the shared conversation.
func (h *Handler) withConversation(fn func(conv *chat.Conversation)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.conv)
}

func (h *Handler) storageError(c *gin.Context, op string, err error) {
	h.Logger.Error(op+" failed", "request_id", middleware.RequestIDFrom(c), "err", err)
	common.Fail(c, http.StatusInternalServerError, codeStorage, op+" failed")
}

// chatError maps service errors onto status and envelope codes.
func (h *Handler) chatError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidModel):
		common.Fail(c, http.StatusBadRequest, codeInvalidModel, err.Error())
	case errors.Is(err, chat.ErrNoModelSelected):
		common.Fail(c, http.StatusBadRequest, codeNoModelSelected, "no model selected")
	case errors.Is(err, chat.ErrSessionNotFound):
		common.Fail(c, http.StatusNotFound, codeSessionNotFound, "session not found")
	default:
		h.storageError(c, op, err)
	}
}

func (h *Handler) Index(c *gin.Context) {
	common.OK(c, gin.H{"message": "AI assistant API is running"})
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"message": "pong"})
}

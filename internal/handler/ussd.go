package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quickride/internal/domain"
	"quickride/internal/logging"
	"quickride/internal/repository"
	"quickride/internal/ussd"
)

// USSDHandler handles the synchronous gateway callback.
type USSDHandler struct {
	engine     *ussd.Engine
	sessions   repository.SessionStore
	locker     repository.SessionLocker
	pathReplay bool
}

// NewUSSDHandler creates a new USSDHandler. With pathReplay set, the gateway
// is assumed to resend the full '*'-joined input each call and the dialog is
// replayed from the root menu instead of resuming a stored step.
func NewUSSDHandler(engine *ussd.Engine, sessions repository.SessionStore, locker repository.SessionLocker, pathReplay bool) *USSDHandler {
	return &USSDHandler{
		engine:     engine,
		sessions:   sessions,
		locker:     locker,
		pathReplay: pathReplay,
	}
}

// CallbackRequest is the gateway callback body. Gateways post either
// form-encoded or JSON bodies; userText is a tolerated alias for text.
type CallbackRequest struct {
	SessionID   string `form:"sessionId" json:"sessionId"`
	ServiceCode string `form:"serviceCode" json:"serviceCode"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
	Text        string `form:"text" json:"text"`
	UserText    string `form:"userText" json:"userText"`
}

// Callback handles POST /ussd and POST /api/ussd/callback. The reply is
// text/plain, prefixed CON while the dialog continues and END when it is
// terminal.
func (h *USSDHandler) Callback(c *gin.Context) {
	var req CallbackRequest
	// A malformed body is treated as an empty one; the dialog answers with
	// the root menu rather than a transport error.
	_ = c.ShouldBind(&req)

	text := req.Text
	if text == "" {
		text = req.UserText
	}
	text = strings.TrimSpace(text)

	key := req.SessionID
	if key == "" {
		key = req.PhoneNumber
	}
	if key == "" {
		// Anonymous caller: a random key keeps two anonymous dialogs
		// from sharing state.
		key = uuid.New().String()
	}

	ctx := c.Request.Context()

	unlock, err := h.locker.Lock(ctx, key)
	if err != nil {
		logging.L().Error("session lock failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusOK, "END Unexpected error")
		return
	}
	defer unlock()

	var session *domain.Session
	var reply ussd.Reply

	if h.pathReplay {
		session = domain.NewSession(key, req.PhoneNumber)
		reply, err = h.engine.ReplayPath(ctx, session, text)
	} else {
		session, err = h.sessions.GetOrCreate(ctx, key, req.PhoneNumber)
		if err == nil {
			reply, err = h.engine.Handle(ctx, session, text)
		}
	}
	if err != nil {
		logging.L().Error("dialog turn failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusOK, "END Unexpected error")
		return
	}

	if err := h.sessions.Save(ctx, session); err != nil {
		logging.L().Error("session save failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusOK, "END Unexpected error")
		return
	}

	prefix := "CON "
	if reply.End {
		prefix = "END "
	}
	c.String(http.StatusOK, prefix+reply.Text)
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"smarttax/internal/domain"
	"smarttax/internal/menu"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrailSeparator joins the caller's choices in the gateway's text field
const TrailSeparator = "*"

// ussdRequest is the gateway callback, posted as a form or as JSON
type ussdRequest struct {
	SessionID   string `form:"sessionId" json:"sessionId"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
	ServiceCode string `form:"serviceCode" json:"serviceCode"`
	Text        string `form:"text" json:"text"`
}

func (h *Handler) handleUSSD(c *gin.Context) {
	var req ussdRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Failed to bind USSD request", zap.Error(err))
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		h.reply(c, menu.End(menu.MsgMissingPhone))
		return
	}

	key := SessionKey(req.SessionID, phone)

	h.logger.Debug("USSD request",
		zap.String("session", key),
		zap.String("phone", phone),
		zap.String("service_code", req.ServiceCode),
		zap.String("text", req.Text),
	)

	ctx := c.Request.Context()
	sess, created := h.store.GetOrCreate(ctx, key, phone)
	resp := h.step(ctx, sess, created, req.Text)

	if resp.Discard {
		h.store.Delete(key)
	} else {
		h.store.Put(key, sess)
	}

	h.reply(c, resp)
}

// step answers one request. A panic still yields a terminating line, and
// the session keeps whatever progress was made before it.
func (h *Handler) step(ctx context.Context, sess *domain.Session, created bool, text string) (resp menu.Response) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic while handling USSD step",
				zap.String("session", sess.Key),
				zap.Any("error", r),
				zap.Stack("stacktrace"),
			)
			resp = menu.End(menu.MsgSystemError)
		}
	}()

	tokens := SplitTrail(text)
	switch {
	case len(tokens) == 0:
		sess.EndFlow()
		sess.TrailOffset = 0
		return h.machine.RootMenu(sess.Registered)

	case created:
		// The gateway is replaying a dialog this process does not know.
		// Start over and count steps from here.
		sess.TrailOffset = len(tokens)
		return h.machine.RootMenu(sess.Registered)

	case len(tokens) <= sess.TrailOffset:
		sess.EndFlow()
		sess.TrailOffset = len(tokens)
		return h.machine.RootMenu(sess.Registered)
	}

	rel := tokens[sess.TrailOffset:]
	return h.machine.Handle(ctx, sess, menu.Input{
		Tokens: rel,
		Step:   len(rel),
		Choice: rel[len(rel)-1],
	})
}

// SessionKey derives the store key for a request. A gateway session id is
// scoped by phone so a reused id can never reach another caller's session.
func SessionKey(sessionID, phone string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return phone
	}
	return sessionID + ":" + phone
}

func (h *Handler) reply(c *gin.Context, resp menu.Response) {
	c.String(http.StatusOK, resp.String())
}

// SplitTrail splits the accumulated input into its choices. An empty trail
// has no choices.
func SplitTrail(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, TrailSeparator)
}

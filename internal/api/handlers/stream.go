package handlers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acme/nuvia-dialer/internal/config"
	"github.com/acme/nuvia-dialer/internal/queue"
	apperrors "github.com/acme/nuvia-dialer/pkg/errors"
)

const localSessionID = "stream_session_id"

// streamGate runs before the websocket upgrade: it rejects plain HTTP requests
// and applies the configured authorization mode.
func (h *HandlerSet) streamGate(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	mode := h.container.Config.Stream.Auth
	if mode != config.StreamAuthNone {
		token := bearerToken(ctx)
		if token == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing token")
		}
		if mode == config.StreamAuthVerify {
			if _, err := h.container.Provider().AgentState(ctx.UserContext(), token); err != nil {
				if errors.Is(err, apperrors.ErrUnavailable) {
					return translateError(err)
				}
				return fiber.NewError(http.StatusUnauthorized, "token rejected")
			}
		}
	}

	ctx.Locals(localSessionID, uuid.New())
	return ctx.Next()
}

// stream pushes the emission cycle until either side closes the connection.
// Client messages are read only to observe close frames and are discarded.
func (h *HandlerSet) stream(conn *websocket.Conn) {
	sessionID, _ := conn.Locals(localSessionID).(uuid.UUID)
	log := h.container.Logger.With(zap.String("session_id", sessionID.String()))
	log.Debug("stream opened", zap.String("remote", conn.RemoteAddr().String()))
	h.publishStreamActivity(queue.ActivityStreamOpened, sessionID, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				readErr <- err
				return
			}
		}
	}()

	runErr := h.emitter.Run(ctx, conn)
	_ = conn.Close()
	closeErr := <-readErr

	cause := runErr
	if cause == nil {
		cause = closeErr
	}

	if isCleanClose(cause) {
		log.Debug("stream closed")
	} else {
		log.Warn("stream transport error", zap.Error(cause))
	}
	h.publishStreamActivity(queue.ActivityStreamClosed, sessionID, map[string]any{
		"clean": isCleanClose(cause),
	})
}

func (h *HandlerSet) publishStreamActivity(kind string, sessionID uuid.UUID, attrs map[string]any) {
	msg := queue.NewActivity(kind)
	msg.SessionID = &sessionID
	msg.Attributes = attrs

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.container.Publisher().Publish(ctx, msg); err != nil {
			h.container.Logger.Warn("stream: publish activity", zap.String("type", kind), zap.Error(err))
		}
	}()
}

// isCleanClose separates an orderly disconnect from a genuine transport failure.
func isCleanClose(err error) bool {
	if err == nil {
		return true
	}
	if fastws.IsCloseError(err,
		fastws.CloseNormalClosure,
		fastws.CloseGoingAway,
		fastws.CloseNoStatusReceived,
	) {
		return true
	}
	return errors.Is(err, fastws.ErrCloseSent) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.EOF)
}

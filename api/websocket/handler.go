package websocket

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/internal/errors"
	"codeberg.org/pixelforge/server/internal/logger"
	ws "codeberg.org/pixelforge/server/internal/websocket"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// how often the feed pushes a fresh status to each client
const statusPushInterval = 15 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     ws.CheckOrigin,
}

// handles WebSocket connections for the live allowance feed. the feed is
// read-only: it pushes the caller's current credit or quota status on
// connect and on an interval, and never consumes anything.
func StatusFeedHandler(engine *limiter.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		actor := limiter.Actor{AnonID: c.ClientIP()}

		if params.Token != "" {
			claims, err := auth.ValidateJWT(params.Token)
			if err != nil {
				errors.Unauthorized(c, "invalid token")
				return
			}

			actor = limiter.Actor{AccountID: claims.UserID}
		}

		clientID, err := ws.GenerateClientID()
		if err != nil {
			errors.InternalError(c, "failed to generate client id", err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade websocket connection")
			return
		}

		client := ws.NewClient(clientID, actor.Ref(), conn)

		logger.Debug("status feed client connected",
			"client_id", clientID,
			"authenticated", actor.IsAuthenticated(),
		)

		go client.WritePump()
		go feedStatus(engine, client, actor)
		go client.ReadPump(func() {
			logger.Debug("status feed client disconnected", "client_id", clientID)
		})
	}
}

// pushes the actor's status immediately and then on every tick until the
// client goes away
func feedStatus(engine *limiter.Engine, client *ws.Client, actor limiter.Actor) {
	push := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := engine.PeekStatus(ctx, actor)
		if err != nil {
			logger.ErrorErr(err, "failed to read status for feed",
				"client_id", client.ID,
				"actor", actor.Ref(),
			)
			return
		}

		client.Send(ws.NewMessage(ws.TypeStatusUpdate, status)) //nolint:errcheck,gosec // best-effort
	}

	push()

	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done():
			return
		case <-ticker.C:
			if client.IsClosed() {
				return
			}

			push()
		}
	}
}

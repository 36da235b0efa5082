package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the request and keeps the socket subscribed until the
// client goes away.
func WSHandler(hub *Hub, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("feed-ws")

	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Debug("upgrade failed", zap.Error(err))
			return
		}

		_ = ws.WriteMessage(websocket.TextMessage, hub.welcome("websocket"))
		hub.AddWS(ws)
		logger.Info("client connected", zap.String("remote", c.Request.RemoteAddr))

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		logger.Info("client disconnected", zap.String("remote", c.Request.RemoteAddr))
	}
}

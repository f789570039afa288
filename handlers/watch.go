package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/coedit/coedit/pkg/logger"
	"github.com/coedit/coedit/pkg/middleware"
)

const pingPeriod = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// transport-level auth happens in the middleware chain
	CheckOrigin: func(r *http.Request) bool { return true },
}

// watch upgrades to a WebSocket and streams change events for one document.
// Events carry no content; clients re-read through GET on receipt.
func (h *DocumentHandler) watch(c *gin.Context) {
	callerID := middleware.CallerID(c)
	documentID := c.Param("id")

	// reject before upgrading so plain HTTP errors reach the client
	if _, err := h.svc.GetDocument(c.Request.Context(), callerID, documentID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Sugar.Warnf("watch upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.svc.Notifier().Subscribe(documentID)
	defer cancel()

	// read pump exists only to detect the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

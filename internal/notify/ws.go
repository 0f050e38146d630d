package notify

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// progressFrame is the single message this stream ever sends. Clients treat
// any frame as "recompute now".
var progressFrame = []byte(`{"event":"progress"}`)

// ProgressHandler upgrades to WebSocket and forwards every broadcast tick as
// one frame. The subscription ends when the client goes away.
func ProgressHandler(b *Broadcaster) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			slog.Warn("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch, unsubscribe := b.Subscribe()
		defer unsubscribe()

		// Clients never send anything meaningful; CloseRead gives us a
		// context that ends when the connection does.
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				wctx, cancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Write(wctx, websocket.MessageText, progressFrame)
				cancel()
				if err != nil {
					return
				}
			}
		}
	})
}

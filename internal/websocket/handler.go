package websocket

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	ws "github.com/coder/websocket"

	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
)

// HandleWebSocket upgrades the request and streams state messages. Each
// client first receives the current snapshot.
func HandleWebSocket(hub *Hub, snapshot func() (uint64, models.AppState), allowedOrigins []string) http.HandlerFunc {
	opts := acceptOptions(allowedOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.Warn("WebSocket accept failed", "error", err)
			return
		}

		version, st := snapshot()
		first, err := json.Marshal(Message{Type: TypeSnapshot, Version: version, State: st})
		if err != nil {
			conn.Close(ws.StatusInternalError, "snapshot encoding failed")
			return
		}

		logger.Debug("WebSocket client connected", "remote", r.RemoteAddr)
		NewClient(hub, conn).Run(r.Context(), first)
		logger.Debug("WebSocket client disconnected", "remote", r.RemoteAddr)
	}
}

// acceptOptions turns configured origins such as "http://localhost:5173"
// into host patterns. "*" disables the origin check.
func acceptOptions(allowedOrigins []string) *ws.AcceptOptions {
	opts := &ws.AcceptOptions{}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			opts.InsecureSkipVerify = true
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
		} else if origin != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, origin)
		}
	}
	return opts
}

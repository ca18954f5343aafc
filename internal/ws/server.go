package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Werneck0live/crm-patrocinio/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Ajuste CORS conforme necessário
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TokenVerifier valida o token de sessão (session.TokenProvider).
type TokenVerifier interface {
	Parse(token string) (*session.Session, error)
}

// requestToken: header Authorization ou ?token= (o browser não manda header no upgrade).
func requestToken(r *http.Request) string {
	if t := r.Header.Get("Authorization"); t != "" {
		return t
	}
	return r.URL.Query().Get("token")
}

// Handler autentica antes do upgrade; ?tables=events,contacts limita as
// tabelas repassadas ao cliente.
func Handler(hub *Hub, auth TokenVerifier, log *slog.Logger) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		sess, err := auth.Parse(token)
		if err != nil || sess == nil {
			log.Warn("ws_auth_rejected", "remote", r.RemoteAddr, "err", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("ws_upgrade_error", "err", err)
			return
		}

		client := NewClient(r.URL.Query().Get("tables"), 256)
		hub.Register(client)
		log.Info("ws_client_connected", "id", client.ID, "user_id", sess.UserID)

		hello, _ := json.Marshal(map[string]string{"type": "hello", "client_id": client.ID})
		hub.SendToClient(client.ID, hello)

		go writeLoop(conn, client)
		go readLoop(conn, hub, client)
	}
}

func writeLoop(conn *websocket.Conn, client *Client) {
	ping := time.NewTicker(30 * time.Second)
	defer func() {
		ping.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop só detecta o fechamento e mantém o deadline com os pongs.
func readLoop(conn *websocket.Conn, hub *Hub, client *Client) {
	defer func() {
		hub.Unregister(client)
		_ = conn.Close()
	}()
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

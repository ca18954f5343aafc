package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub, *session.TokenProvider) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	go hub.Run()
	p := session.NewTokenProvider("segredo")
	srv := httptest.NewServer(Handler(hub, p, log))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return srv, hub, p
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestHandler_RejectsWithoutValidToken(t *testing.T) {
	srv, hub, _ := newTestServer(t)
	forged, _ := session.NewTokenProvider("outro").Issue("u1", "", time.Hour)

	for name, query := range map[string]string{"missing": "", "invalid": "?token=abc.def", "forged": "?token=" + forged} {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, query), nil)
		if err == nil {
			_ = conn.Close()
			t.Fatalf("%s: upgrade accepted", name)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: want 401, got %v (%v)", name, resp, err)
		}
	}
	if n := hub.Count(); n != 0 {
		t.Fatalf("clients registered without token: %d", n)
	}
}

func TestHandler_AcceptsTokenAndRelays(t *testing.T) {
	srv, hub, p := newTestServer(t)
	tok, err := p.Issue("u1", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	header := http.Header{"Authorization": []string{"Bearer " + tok}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?tables=events"), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello map[string]string
	if err := conn.ReadJSON(&hello); err != nil || hello["type"] != "hello" {
		t.Fatalf("hello = %v (%v)", hello, err)
	}

	hub.Publish(models.ChangeEvent{Table: models.TableEvents, EventType: models.ActionInsert, New: json.RawMessage(`{"id":"e1"}`)})
	var ev models.ChangeEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read change: %v", err)
	}
	if ev.Table != models.TableEvents || ev.EventType != models.ActionInsert {
		t.Fatalf("change = %+v", ev)
	}
}

package ws

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

// Client é uma conexão inscrita em algumas tabelas (vazio = todas).
type Client struct {
	ID     string
	Tables map[string]bool
	Send   chan []byte
}

func NewClient(tables string, buf int) *Client {
	c := &Client{ID: uuid.NewString(), Tables: map[string]bool{}, Send: make(chan []byte, buf)}
	for _, t := range strings.Split(tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			c.Tables[t] = true
		}
	}
	return c
}

func (c *Client) wants(table string) bool {
	return len(c.Tables) == 0 || c.Tables[table]
}

type change struct {
	table string
	msg   []byte
}

type unicastMsg struct {
	id  string
	msg []byte
}

// Hub repassa os ChangeEvents do feed para os clientes websocket.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client

	changes chan change
	unicast chan unicastMsg

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		changes:  make(chan change, 1024),
		unicast:  make(chan unicastMsg, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "total", total)

		case c := <-h.unreg:
			if c == nil {
				continue
			}
			h.drop(c.ID)
			h.log.Info("client_unregistered", "id", c.ID, "total", h.Count())

		case ch := <-h.changes:
			var slow []string
			h.mu.RLock()
			for id, c := range h.clients {
				if !c.wants(ch.table) {
					continue
				}
				select {
				case c.Send <- ch.msg:
				default:
					slow = append(slow, id)
				}
			}
			h.mu.RUnlock()
			// cliente lento é desconectado para não travar o hub
			for _, id := range slow {
				h.drop(id)
				h.log.Warn("client_dropped_slow", "id", id)
			}

		case u := <-h.unicast:
			h.mu.RLock()
			c := h.clients[u.id]
			h.mu.RUnlock()
			if c == nil {
				h.log.Warn("send_one_miss", "id", u.id)
				continue
			}
			select {
			case c.Send <- u.msg:
			default:
				h.drop(u.id)
				h.log.Warn("send_one_drop_slow", "id", u.id)
			}

		case <-h.stop:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c := h.clients[id]; c != nil {
		delete(h.clients, id)
		close(c.Send)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Register/Unregister/Publish/SendToClient viram no-op depois de Stop.

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

// Publish serializa o evento e entrega aos clientes inscritos na tabela.
func (h *Hub) Publish(ev models.ChangeEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("change_encode_error", "table", ev.Table, "err", err)
		return
	}
	select {
	case h.changes <- change{table: ev.Table, msg: b}:
	case <-h.stopped:
	}
}

func (h *Hub) SendToClient(id string, b []byte) {
	select {
	case h.unicast <- unicastMsg{id: id, msg: b}:
	case <-h.stopped:
	}
}

package feed

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 2 * time.Second

// Hub fans JSON lines out to TCP and websocket subscribers, and to UDP
// subscribers when a UDPServer is attached.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
	udp       *UDPServer
	log       *zap.Logger
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
	UDPClients int `json:"udp_clients"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
		log:       logger,
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// AttachUDP makes broadcasts also reach the datagram subscribers of s.
func (h *Hub) AttachUDP(s *UDPServer) {
	h.mu.Lock()
	h.udp = s
	h.mu.Unlock()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsClients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON writes v as one line to every subscriber. Subscribers that
// fail a write are dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode feed event", zap.Error(err))
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		w := bufio.NewWriter(c)
		if _, err := w.Write(b); err == nil {
			err = w.Flush()
		}
		if err != nil {
			h.log.Debug("dropping tcp subscriber", zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
			_ = c.Close()
			delete(h.clients, c)
		}
	}

	for ws := range h.wsClients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug("dropping websocket subscriber", zap.Error(err))
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}

	if h.udp != nil {
		h.udp.Send(b[:len(b)-1])
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
	if h.udp != nil {
		s.UDPClients = h.udp.Clients()
	}
	return s
}

// CloseAll disconnects every subscriber.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.Close()
		delete(h.clients, c)
	}
	for ws := range h.wsClients {
		_ = ws.Close()
		delete(h.wsClients, ws)
	}
}

func (h *Hub) welcome(transport string) []byte {
	s := h.Stats()
	b, _ := json.Marshal(Welcome{Type: EventWelcome, Transport: transport, Clients: s.TCPClients + s.WSClients + s.UDPClients})
	return append(b, '\n')
}

package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// RegisterMessageType is the only datagram UDP subscribers send.
const RegisterMessageType = "register"

type RegisterMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
}

// UDPServer keeps a registry of datagram subscribers. Each registers once
// with a RegisterMessage and then receives every feed event as a single
// JSON datagram.
type UDPServer struct {
	Addr string
	log  *zap.Logger

	mu      sync.RWMutex
	conn    *net.UDPConn
	clients map[string]*net.UDPAddr
}

func NewUDPServer(addr string, logger *zap.Logger) *UDPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UDPServer{
		Addr:    addr,
		log:     logger.Named("feed-udp"),
		clients: make(map[string]*net.UDPAddr),
	}
}

// Run listens on Addr until ctx is done.
func (s *UDPServer) Run(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.Addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.Addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("feed listen udp %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, conn)
}

// Serve reads registrations from conn until ctx is done, then closes conn.
func (s *UDPServer) Serve(ctx context.Context, conn *net.UDPConn) error {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
	}()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	s.log.Info("listening", zap.String("addr", conn.LocalAddr().String()))

	buf := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		msg, err := parseRegisterMessage(buf[:n])
		if err != nil {
			s.log.Debug("invalid datagram", zap.String("remote", addr.String()), zap.Error(err))
			continue
		}
		if msg.Type != RegisterMessageType {
			continue
		}
		s.Register(msg.ClientID, addr)
		s.log.Info("client registered", zap.String("client", msg.ClientID), zap.String("remote", addr.String()))
	}
}

func (s *UDPServer) Register(id string, addr *net.UDPAddr) {
	if id == "" || addr == nil {
		return
	}
	s.mu.Lock()
	s.clients[id] = addr
	s.mu.Unlock()
}

func (s *UDPServer) Remove(id string) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}

func (s *UDPServer) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Send writes payload to every registered client. A client is dropped after
// two failed writes.
func (s *UDPServer) Send(payload []byte) {
	s.mu.RLock()
	conn := s.conn
	targets := make(map[string]*net.UDPAddr, len(s.clients))
	for id, addr := range s.clients {
		targets[id] = addr
	}
	s.mu.RUnlock()

	if conn == nil {
		return
	}
	for id, addr := range targets {
		if _, err := conn.WriteToUDP(payload, addr); err == nil {
			continue
		}
		if _, err := conn.WriteToUDP(payload, addr); err != nil {
			s.log.Debug("dropping udp subscriber", zap.String("client", id), zap.Error(err))
			s.Remove(id)
		}
	}
}

func parseRegisterMessage(data []byte) (RegisterMessage, error) {
	var msg RegisterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	if msg.Type == "" || msg.ClientID == "" {
		return msg, errors.New("missing required fields")
	}
	return msg, nil
}

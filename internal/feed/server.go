package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// Server accepts line-oriented TCP subscribers.
type Server struct {
	Addr string
	Hub  *Hub
	log  *zap.Logger
}

func NewServer(addr string, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Addr: addr, Hub: hub, log: logger.Named("feed-tcp")}
}

// Run listens on Addr until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}

		go func(c net.Conn) {
			if err := s.greet(c); err != nil {
				s.log.Debug("welcome failed", zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
				_ = c.Close()
				return
			}
			s.Hub.Add(c)
			s.log.Info("client connected", zap.String("remote", c.RemoteAddr().String()))
			defer func() {
				s.Hub.Remove(c)
				s.log.Info("client disconnected", zap.String("remote", c.RemoteAddr().String()))
			}()

			// subscribers never send anything meaningful
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

// greet writes the welcome line under the hub's write timeout.
func (s *Server) greet(c net.Conn) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	_, err := c.Write(s.Hub.welcome("tcp"))
	return err
}

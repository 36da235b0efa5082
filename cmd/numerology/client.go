package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"numerology/internal/feed"
)

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

// lineSource yields feed lines until it fails.
type lineSource func() ([]byte, error)

func dialTCP(ctx context.Context, addr string) (lineSource, func(), error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	sc := bufio.NewScanner(conn)
	next := func() ([]byte, error) {
		if sc.Scan() {
			return sc.Bytes(), nil
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return next, func() { stop(); _ = conn.Close() }, nil
}

func dialWS(ctx context.Context, endpoint string) (lineSource, func(), error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = ws.Close() })
	next := func() ([]byte, error) {
		_, msg, err := ws.ReadMessage()
		return []byte(strings.TrimSpace(string(msg))), err
	}
	return next, func() { stop(); _ = ws.Close() }, nil
}

// dialUDP registers with the datagram feed at addr; every event arrives as
// one datagram.
func dialUDP(ctx context.Context, addr string) (lineSource, func(), error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	reg, _ := json.Marshal(feed.RegisterMessage{Type: feed.RegisterMessageType, ClientID: uuid.NewString()})
	if _, err := conn.Write(reg); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("register with %s: %w", addr, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	buf := make([]byte, 64*1024)
	next := func() ([]byte, error) {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
	return next, func() { stop(); _ = conn.Close() }, nil
}

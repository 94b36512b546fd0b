package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"repo-universe/internal/shared/config"
	apperrors "repo-universe/internal/shared/errors"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directPoster struct{}

func (directPoster) Post(fn func()) bool {
	fn()
	return true
}

type feed struct {
	server   *httptest.Server
	conns    chan *websocket.Conn
	authSeen chan string
}

func newFeed(t *testing.T) *feed {
	t.Helper()
	f := &feed{
		conns:    make(chan *websocket.Conn, 4),
		authSeen: make(chan string, 4),
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.authSeen <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.conns <- conn
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *feed) nextConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-f.conns:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("client never connected")
		return nil
	}
}

func newTestClient(t *testing.T, f *feed, token string) *Client {
	t.Helper()
	c, err := New(config.ClientConfig{
		Host:             "ws" + strings.TrimPrefix(f.server.URL, "http"),
		AccessToken:      token,
		HandshakeTimeout: time.Second,
		WriteTimeout:     time.Second,
		ReconnectMin:     10 * time.Millisecond,
		ReconnectMax:     50 * time.Millisecond,
	}, directPoster{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return c
}

func runClient(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestClient_OpenLoginAndInbound(t *testing.T) {
	f := newFeed(t)
	c := newTestClient(t, f, "")

	repos := make(chan json.RawMessage, 1)
	c.On(MessageOpen, func(json.RawMessage) {
		assert.NoError(t, c.Send("login", map[string]string{"login": "terry"}))
	})
	c.On("repos", func(p json.RawMessage) { repos <- p })
	runClient(t, c)

	conn := f.nextConn(t)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "login", env.Type)
	assert.JSONEq(t, `{"login":"terry"}`, string(env.Payload))
	assert.True(t, c.Connected())

	require.NoError(t, conn.WriteJSON(Envelope{Type: "repos", Payload: json.RawMessage(`{"repos":[{"full_name":"bob/repo"}]}`)}))

	select {
	case p := <-repos:
		assert.JSONEq(t, `{"repos":[{"full_name":"bob/repo"}]}`, string(p))
	case <-time.After(2 * time.Second):
		t.Fatal("repos message not delivered")
	}
}

func TestClient_ReconnectsAndReopens(t *testing.T) {
	f := newFeed(t)
	c := newTestClient(t, f, "")
	opens := make(chan struct{}, 4)
	c.On(MessageOpen, func(json.RawMessage) { opens <- struct{}{} })
	runClient(t, c)

	first := f.nextConn(t)
	<-opens
	first.Close()

	f.nextConn(t)
	select {
	case <-opens:
	case <-time.After(2 * time.Second):
		t.Fatal("open not delivered after reconnect")
	}
}

func TestClient_BearerHeader(t *testing.T) {
	f := newFeed(t)
	c := newTestClient(t, f, "gho_secret")
	runClient(t, c)

	f.nextConn(t)
	assert.Equal(t, "Bearer gho_secret", <-f.authSeen)
}

func TestClient_SendWithoutConnection(t *testing.T) {
	f := newFeed(t)
	c := newTestClient(t, f, "")

	err := c.Send("login", map[string]string{"login": "terry"})

	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeExternal))
	assert.False(t, c.Connected())
}

func TestOrderlyClose(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"normal closure", &websocket.CloseError{Code: websocket.CloseNormalClosure}, true},
		{"going away", &websocket.CloseError{Code: websocket.CloseGoingAway}, true},
		{"wrapped normal closure", fmt.Errorf("read: %w", &websocket.CloseError{Code: websocket.CloseNormalClosure}), true},
		{"abnormal closure", &websocket.CloseError{Code: websocket.CloseAbnormalClosure}, false},
		{"plain read error", io.ErrUnexpectedEOF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderlyClose(tt.err))
		})
	}
}

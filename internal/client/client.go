package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"repo-universe/internal/shared/config"
	apperrors "repo-universe/internal/shared/errors"

	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"
)

// MessageOpen is delivered to handlers after every successful connection
const MessageOpen = "open"

// Envelope is the wire format in both directions
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Poster runs handler invocations on the thread that owns entity state
type Poster interface {
	Post(fn func()) bool
}

// Client is a reconnecting websocket connection to the activity feed
type Client struct {
	url          string
	header       http.Header
	dialer       *websocket.Dialer
	poster       Poster
	writeTimeout time.Duration
	backoffMin   time.Duration
	backoffMax   time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string][]func(json.RawMessage)

	connected atomic.Bool
	logger    *slog.Logger
}

func New(cfg config.ClientConfig, poster Poster, logger *slog.Logger) (*Client, error) {
	logger = logger.With("component", "client", "host", cfg.Host)

	header := http.Header{}
	if cfg.AccessToken != "" {
		token, err := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}).Token()
		if err != nil {
			return nil, apperrors.WrapInternal("prepare feed credentials", err)
		}
		header.Set("Authorization", token.Type()+" "+token.AccessToken)
		logger.Debug("Feed credentials configured", "token_type", token.Type())
	}

	return &Client{
		url:    cfg.Host,
		header: header,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		poster:       poster,
		writeTimeout: cfg.WriteTimeout,
		backoffMin:   cfg.ReconnectMin,
		backoffMax:   cfg.ReconnectMax,
		handlers:     make(map[string][]func(json.RawMessage)),
		logger:       logger,
	}, nil
}

// On registers handler for inbound messages of msgType
func (c *Client) On(msgType string, handler func(payload json.RawMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[msgType] = append(c.handlers[msgType], handler)
}

// Send writes a message to the feed; it fails when no connection is up
func (c *Client) Send(msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperrors.WrapValidation("encode "+msgType, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return apperrors.External("feed not connected")
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return apperrors.WrapExternal("set write deadline", err)
	}
	if err := c.conn.WriteJSON(Envelope{Type: msgType, Payload: raw}); err != nil {
		return apperrors.WrapExternal("write "+msgType, err)
	}
	return nil
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run keeps a connection open until ctx ends, reconnecting with capped exponential backoff
func (c *Client) Run(ctx context.Context) error {
	logger := c.logger.With("operation", "run")
	backoff := c.backoffMin

	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Feed connection failed", "error", apperrors.WrapExternal("dial", err), "retry_in", backoff)
		} else {
			backoff = c.backoffMin
			c.serve(ctx, conn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Feed connection lost", "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.backoffMax {
			backoff = c.backoffMax
		}
	}
}

func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	logger := c.logger.With("operation", "serve")

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.connected.Store(true)
	logger.Info("Feed connected")

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		c.connected.Store(false)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	c.deliver(MessageOpen, nil)

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if orderlyClose(err) || ctx.Err() != nil {
				logger.Info("Feed closed", "reason", err)
			} else {
				logger.Error("Feed read failed", "error", apperrors.WrapExternal("read", err))
			}
			return
		}
		if env.Type == "" {
			logger.Warn("Dropping message without type")
			continue
		}
		c.deliver(env.Type, env.Payload)
	}
}

func (c *Client) deliver(msgType string, payload json.RawMessage) {
	c.mu.Lock()
	handlers := append(([]func(json.RawMessage))(nil), c.handlers[msgType]...)
	c.mu.Unlock()

	if len(handlers) == 0 {
		c.logger.Debug("No handler for message", "type", msgType)
		return
	}

	c.poster.Post(func() {
		for _, h := range handlers {
			h(payload)
		}
	})
}

// orderlyClose reports whether the feed closed the connection on purpose
func orderlyClose(err error) bool {
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		return false
	}
	return closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway
}

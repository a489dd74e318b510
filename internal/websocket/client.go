package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	maxCommandSize = 4096
)

// ErrForbidden is returned by an Authorizer when the caller may not watch a
// topic.
var ErrForbidden = errors.New("forbidden topic")

// Subscription is an authorized topic and the document it currently holds.
type Subscription struct {
	Topic    string
	Snapshot Message
}

// Authorizer maps a topic requested by a client to the hub topic it may
// watch, along with the current snapshot to send first.
type Authorizer func(ctx context.Context, topic string) (Subscription, error)

// command is a client request.
type command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Client represents a single WebSocket connection.
type Client struct {
	hub       *Hub
	conn      *ws.Conn
	send      chan []byte
	authorize Authorizer

	mu     sync.Mutex
	closed bool
	subs   map[string]func()
}

// NewClient creates a Client tied to the given hub and connection.
func NewClient(hub *Hub, conn *ws.Conn, authorize Authorizer) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		authorize: authorize,
		subs:      make(map[string]func()),
	}
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump handles subscribe and unsubscribe commands until the connection
// closes.
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxCommandSize)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.deliver(Message{Type: "error", Error: "malformed command"})
			continue
		}
		c.handle(ctx, cmd)
	}
}

func (c *Client) handle(ctx context.Context, cmd command) {
	switch cmd.Action {
	case "subscribe":
		sub, err := c.authorize(ctx, cmd.Topic)
		if err != nil {
			c.deliver(Message{Type: "error", Topic: cmd.Topic, Error: err.Error()})
			return
		}
		if !c.Subscribe(sub.Topic) {
			return
		}
		c.deliver(Message{Type: "subscribed", Topic: sub.Topic})
		snap := sub.Snapshot
		snap.Topic = sub.Topic
		c.deliver(snap)
	case "unsubscribe":
		sub, err := c.authorize(ctx, cmd.Topic)
		if err != nil {
			c.deliver(Message{Type: "error", Topic: cmd.Topic, Error: err.Error()})
			return
		}
		if c.Unsubscribe(sub.Topic) {
			c.deliver(Message{Type: "unsubscribed", Topic: sub.Topic})
		}
	default:
		c.deliver(Message{Type: "error", Error: "unknown action"})
	}
}

// Subscribe starts forwarding topic to the client. It reports false if the
// client was already subscribed or has disconnected.
func (c *Client) Subscribe(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if _, ok := c.subs[topic]; ok {
		return false
	}
	c.subs[topic] = c.hub.Watch(topic, c.deliver)
	return true
}

// Unsubscribe stops forwarding topic. It reports whether a subscription
// existed.
func (c *Client) Unsubscribe(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	unsub, ok := c.subs[topic]
	if !ok {
		return false
	}
	delete(c.subs, topic)
	unsub()
	return true
}

// Topics returns the topics the client is subscribed to.
func (c *Client) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	topics := make([]string, 0, len(c.subs))
	for t := range c.subs {
		topics = append(topics, t)
	}
	return topics
}

// deliver queues msg for the write pump. Messages for a client whose buffer
// is full are dropped.
func (c *Client) deliver(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("marshal message", "topic", msg.Topic, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("client buffer full, dropping message", "topic", msg.Topic)
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for topic, unsub := range c.subs {
		unsub()
		delete(c.subs, topic)
	}
	close(c.send)
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel, connection is done
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

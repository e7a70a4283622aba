package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"mindpal/internal/domain"
	"mindpal/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	// chat messages per second per connection, with a small burst
	chatRate  = 2
	chatBurst = 10
)

type Client struct {
	ID     string
	UserID int64
	Conn   *websocket.Conn
	Hub    *Hub

	send      chan []byte
	closeOnce sync.Once
	chat      *rate.Limiter
}

func NewClient(hub *Hub, userID int64, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		send:   make(chan []byte, sendBuffer),
		chat:   rate.NewLimiter(chatRate, chatBurst),
	}
}

// Run registers the client, starts the writer and blocks reading until the
// connection goes away.
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	c.Hub.sendTo(c, MsgReady, domain.UserRoom(c.UserID), "", map[string]any{
		"clientId": c.ID,
		"userId":   c.UserID,
	})

	c.readPump()
}

// enqueue queues a frame without blocking. It reports false if the queue is full.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessage)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read failed", "client_id", c.ID, "user_id", c.UserID, logger.Err(err))
			}
			return
		}
		c.handle(msg)
	}
}

// handle dispatches one client frame.
func (c *Client) handle(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		c.fail("", "invalid message")
		return
	}

	switch env.Type {
	case MsgJoin:
		if err := c.Hub.Join(c, env.Room); err != nil {
			c.fail(env.Room, errorText(err))
		}
	case MsgLeave:
		c.Hub.Leave(c, env.Room)
	case MsgChat:
		if !c.chat.Allow() {
			c.fail(env.Room, ErrRateLimited.Error())
			return
		}
		if _, err := c.Hub.Chat(c, env.Room, env.Text); err != nil {
			c.fail(env.Room, errorText(err))
		}
	case MsgPing:
		c.Hub.sendTo(c, MsgPong, "", "", nil)
	default:
		c.fail(env.Room, "unknown message type")
	}
}

func (c *Client) fail(room, message string) {
	c.Hub.sendTo(c, MsgError, room, "", ErrorPayload{Message: message})
}

func errorText(err error) string {
	for _, known := range []error{ErrInvalidRoom, ErrForbidden, ErrNotMember, ErrInvalidText, ErrClosed} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "client_id", c.ID, logger.Err(err))
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

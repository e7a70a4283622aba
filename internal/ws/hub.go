package ws

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"mindpal/internal/domain"
	"mindpal/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidRoom = errors.New("invalid room name")
	ErrForbidden   = errors.New("room is private")
	ErrNotMember   = errors.New("not a member of the room")
	ErrInvalidText = errors.New("chat text must be 1 to 1000 characters")
	ErrClosed      = errors.New("client is not connected")
	ErrRateLimited = errors.New("sending too fast")
)

var roomName = regexp.MustCompile(`^[a-z0-9_-]+(:[a-z0-9_-]+)?$`)

// Hub keeps every connected client and the rooms they are in. All room
// state lives in memory and is lost on restart.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	clients map[*Client]map[string]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]*Room),
		clients: make(map[*Client]map[string]struct{}),
		now:     time.Now,
	}
}

// Register adds the client and puts it into its private user room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = make(map[string]struct{})
	h.joinLocked(c, domain.UserRoom(c.UserID))
	h.mu.Unlock()

	Connections.Inc()
	logger.Debug("ws client registered", "client_id", c.ID, "user_id", c.UserID)
}

// Unregister removes the client from every room and closes its send queue.
// Calling it more than once is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	rooms, ok := h.clients[c]
	if ok {
		for name := range rooms {
			h.leaveLocked(c, name)
		}
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if ok {
		Connections.Dec()
		c.closeSend()
		logger.Debug("ws client unregistered", "client_id", c.ID, "user_id", c.UserID)
	}
}

// Join subscribes the client to a room and replays the room's chat history to it.
func (h *Hub) Join(c *Client, name string) error {
	if err := h.checkRoom(c, name); err != nil {
		return err
	}

	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return ErrClosed
	}
	room := h.joinLocked(c, name)
	history := room.snapshot()
	members := len(room.members)
	h.mu.Unlock()

	h.sendTo(c, MsgJoined, name, "", map[string]int{"members": members})
	h.sendTo(c, MsgHistory, name, "", HistoryPayload{Room: name, Messages: history})
	return nil
}

// Leave unsubscribes the client from a room. An empty name leaves every
// room except the private one.
func (h *Hub) Leave(c *Client, name string) {
	private := domain.UserRoom(c.UserID)

	h.mu.Lock()
	rooms, ok := h.clients[c]
	if !ok {
		h.mu.Unlock()
		return
	}
	var left []string
	for joined := range rooms {
		if joined == private {
			continue
		}
		if name == "" || joined == name {
			h.leaveLocked(c, joined)
			left = append(left, joined)
		}
	}
	h.mu.Unlock()

	for _, r := range left {
		h.sendTo(c, MsgLeft, r, "", nil)
	}
}

// Chat stores a message in the room history and sends it to every member,
// the sender included.
func (h *Hub) Chat(c *Client, name, text string) (ChatMessage, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > MaxChatLength {
		return ChatMessage{}, ErrInvalidText
	}
	if strings.HasPrefix(name, domain.UserRoomPrefix) {
		return ChatMessage{}, ErrForbidden
	}

	msg := ChatMessage{
		ID:     uuid.NewString(),
		Room:   name,
		UserID: c.UserID,
		Text:   text,
		SentAt: h.now().UTC(),
	}
	frame, err := encode(MsgChat, name, "", msg)
	if err != nil {
		return ChatMessage{}, err
	}

	h.mu.Lock()
	room, ok := h.rooms[name]
	if !ok {
		h.mu.Unlock()
		return ChatMessage{}, ErrNotMember
	}
	if _, member := room.members[c]; !member {
		h.mu.Unlock()
		return ChatMessage{}, ErrNotMember
	}
	room.remember(msg)
	slow := h.fanOutLocked(room, frame)
	h.mu.Unlock()

	h.drop(slow)
	Broadcasts.WithLabelValues(MsgChat).Inc()
	return msg, nil
}

// Broadcast sends a server event to everyone in the room. Rooms without
// members are skipped. It satisfies service.Broadcaster.
func (h *Hub) Broadcast(room, eventType string, payload any) {
	frame, err := encode(MsgEvent, room, eventType, payload)
	if err != nil {
		logger.Error("ws broadcast encode failed", "room", room, "event", eventType, logger.Err(err))
		return
	}

	h.mu.RLock()
	r, ok := h.rooms[room]
	var slow []*Client
	if ok {
		slow = h.fanOutLocked(r, frame)
	}
	h.mu.RUnlock()

	if !ok {
		return
	}
	h.drop(slow)
	Broadcasts.WithLabelValues(eventType).Inc()
}

// RoomSize reports how many clients are in the room.
func (h *Hub) RoomSize(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[name]; ok {
		return len(r.members)
	}
	return 0
}

// History returns a copy of the room's remembered chat messages.
func (h *Hub) History(name string) []ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[name]; ok {
		return r.snapshot()
	}
	return nil
}

// ClientCount reports connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) checkRoom(c *Client, name string) error {
	if name == "" || len(name) > maxRoomName || !roomName.MatchString(name) {
		return ErrInvalidRoom
	}
	if rest, ok := strings.CutPrefix(name, domain.UserRoomPrefix); ok {
		if rest != strconv.FormatInt(c.UserID, 10) {
			return ErrForbidden
		}
	}
	return nil
}

func (h *Hub) joinLocked(c *Client, name string) *Room {
	room, ok := h.rooms[name]
	if !ok {
		room = newRoom(name)
		h.rooms[name] = room
	}
	room.members[c] = struct{}{}
	h.clients[c][name] = struct{}{}
	return room
}

func (h *Hub) leaveLocked(c *Client, name string) {
	delete(h.clients[c], name)
	room, ok := h.rooms[name]
	if !ok {
		return
	}
	delete(room.members, c)
	// rooms with chat history stay around so late joiners can catch up
	if len(room.members) == 0 && len(room.history) == 0 {
		delete(h.rooms, name)
	}
}

// fanOutLocked queues frame for every member and returns the members whose
// queue was full.
func (h *Hub) fanOutLocked(room *Room, frame []byte) []*Client {
	var slow []*Client
	for c := range room.members {
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	return slow
}

func (h *Hub) drop(slow []*Client) {
	for _, c := range slow {
		logger.Warn("ws client too slow, dropping", "client_id", c.ID, "user_id", c.UserID)
		Dropped.Inc()
		h.Unregister(c)
	}
}

// sendTo queues a frame for one client if it is still registered.
func (h *Hub) sendTo(c *Client, typ, room, event string, data any) {
	frame, err := encode(typ, room, event, data)
	if err != nil {
		logger.Error("ws encode failed", "type", typ, logger.Err(err))
		return
	}

	h.mu.RLock()
	_, ok := h.clients[c]
	queued := ok && c.enqueue(frame)
	h.mu.RUnlock()

	if ok && !queued {
		h.drop([]*Client{c})
	}
}

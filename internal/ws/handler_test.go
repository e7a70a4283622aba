package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindpal/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens map[string]int64

func (s staticTokens) Parse(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

func startRelay(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	r := gin.New()
	r.GET("/ws", HandleWS(hub, staticTokens{"tok-a": 1, "tok-b": 2}, ""))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env Envelope
		require.NoError(t, conn.ReadJSON(&env))
		if env.Type == typ {
			return env
		}
	}
}

func TestHandleWS_RejectsBadToken(t *testing.T) {
	_, url := startRelay(t)

	for _, q := range []string{"", "?token=nope"} {
		_, resp, err := websocket.DefaultDialer.Dial(url+q, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestHandleWS_ChatAndEvents(t *testing.T) {
	hub, url := startRelay(t)

	a := dial(t, url+"?token=tok-a")
	b := dial(t, url+"?token=tok-b")
	readUntil(t, a, MsgReady)
	readUntil(t, b, MsgReady)

	require.NoError(t, a.WriteJSON(Envelope{Type: MsgJoin, Room: domain.ForumRoom}))
	readUntil(t, a, MsgHistory)
	require.NoError(t, b.WriteJSON(Envelope{Type: MsgJoin, Room: domain.ForumRoom}))
	readUntil(t, b, MsgHistory)

	require.NoError(t, a.WriteJSON(Envelope{Type: MsgChat, Room: domain.ForumRoom, Text: "hi b"}))
	for _, conn := range []*websocket.Conn{a, b} {
		env := readUntil(t, conn, MsgChat)
		assert.Contains(t, string(env.Data), `"text":"hi b"`)
	}

	hub.Broadcast(domain.UserRoom(2), domain.EventJournalSubmitted, map[string]bool{"ok": true})
	env := readUntil(t, b, MsgEvent)
	assert.Equal(t, domain.EventJournalSubmitted, env.Event)

	require.NoError(t, a.WriteJSON(Envelope{Type: MsgJoin, Room: domain.UserRoom(2)}))
	errEnv := readUntil(t, a, MsgError)
	assert.Contains(t, string(errEnv.Data), ErrForbidden.Error())

	require.NoError(t, a.WriteJSON(Envelope{Type: MsgPing}))
	readUntil(t, a, MsgPong)

	_ = a.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

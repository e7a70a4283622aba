package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"mindpal/internal/domain"
	"mindpal/internal/logger"
	"mindpal/internal/service"
	"mindpal/internal/ws"

	"github.com/gorilla/websocket"
)

// ws_smoke connects two users to a running server, joins the forum room and
// checks that a chat message reaches both of them.
func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	userA := flag.Int64("a", 1, "first user id")
	userB := flag.Int64("b", 2, "second user id")
	flag.Parse()

	logger.Init("info", false)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}
	tokens := service.NewTokenManager(secret, time.Hour)

	connA := dial(*addr, tokens, *userA)
	defer connA.Close()
	connB := dial(*addr, tokens, *userB)
	defer connB.Close()

	for _, conn := range []*websocket.Conn{connA, connB} {
		if err := conn.WriteJSON(ws.Envelope{Type: ws.MsgJoin, Room: domain.ForumRoom}); err != nil {
			logger.Fatal("join failed", logger.Err(err))
		}
		waitFor(conn, ws.MsgHistory)
	}

	text := fmt.Sprintf("smoke %d", time.Now().Unix())
	if err := connA.WriteJSON(ws.Envelope{Type: ws.MsgChat, Room: domain.ForumRoom, Text: text}); err != nil {
		logger.Fatal("chat failed", logger.Err(err))
	}

	for name, conn := range map[string]*websocket.Conn{"a": connA, "b": connB} {
		env := waitFor(conn, ws.MsgChat)
		logger.Info("chat received", "client", name, "data", string(env.Data))
	}
	logger.Info("smoke test finished")
}

func dial(addr string, tokens *service.TokenManager, userID int64) *websocket.Conn {
	token, err := tokens.Generate(userID)
	if err != nil {
		logger.Fatal("token failed", logger.Err(err))
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", addr, token), nil)
	if err != nil {
		logger.Fatal("dial failed", "user_id", userID, logger.Err(err))
	}
	waitFor(conn, ws.MsgReady)
	return conn
}

func waitFor(conn *websocket.Conn, typ string) ws.Envelope {
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var env ws.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			logger.Fatal("read failed", "waiting_for", typ, logger.Err(err))
		}
		if env.Type == typ {
			return env
		}
	}
}

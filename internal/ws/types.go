package ws

const (
	// client - server
	MsgJoin  = "join"
	MsgLeave = "leave"
	MsgChat  = "chat"
	MsgPing  = "ping"

	// server - client
	MsgReady   = "ready"
	MsgJoined  = "joined"
	MsgLeft    = "left"
	MsgHistory = "history"
	MsgEvent   = "event"
	MsgPong    = "pong"
	MsgError   = "error"
)

const (
	// HistorySize is how many chat messages a room remembers.
	HistorySize = 50
	// MaxChatLength is the longest accepted chat text, in runes.
	MaxChatLength = 1000
	maxRoomName   = 64
	sendBuffer    = 256
	maxMessage    = 8192
)

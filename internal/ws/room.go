package ws

// Room is a named broadcast group with a bounded chat history.
// It is guarded by the owning Hub's lock.
type Room struct {
	Name    string
	members map[*Client]struct{}
	history []ChatMessage
}

func newRoom(name string) *Room {
	return &Room{Name: name, members: make(map[*Client]struct{})}
}

func (r *Room) remember(m ChatMessage) {
	r.history = append(r.history, m)
	if over := len(r.history) - HistorySize; over > 0 {
		// copy so the backing array does not keep growing
		r.history = append([]ChatMessage(nil), r.history[over:]...)
	}
}

func (r *Room) snapshot() []ChatMessage {
	out := make([]ChatMessage, len(r.history))
	copy(out, r.history)
	return out
}

package services

import (
	"sync"

	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

const maxConversationTurns = 20

// ConversationStore keeps a bounded per-room chat history for the lifetime of
// the process. It only feeds context into the chat branch; the durable record
// of a turn lives in the question log. Appends for the same room are
// serialized by the store's lock, since append plus truncation is not
// commutative.
type ConversationStore struct {
	mu   sync.Mutex
	logs map[string][]types.ConversationTurn
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{logs: make(map[string][]types.ConversationTurn)}
}

// Append adds one turn to the room's log, evicting the oldest turns beyond
// the cap. Logs are created lazily on first append.
func (s *ConversationStore) Append(roomID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.logs[roomID], types.ConversationTurn{Role: role, Content: content})
	if len(log) > maxConversationTurns {
		log = log[len(log)-maxConversationTurns:]
	}
	s.logs[roomID] = log
}

// History returns a copy of the room's log, oldest first. Unknown rooms
// return an empty slice.
func (s *ConversationStore) History(roomID string) []types.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[roomID]
	out := make([]types.ConversationTurn, len(log))
	copy(out, log)
	return out
}

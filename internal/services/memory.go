package services

import (
	"sync"

	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// SessionMemory keeps the per-session conversation history. Append-only
// and in-memory: histories live for the process lifetime with no
// trimming, persistence or cross-process sharing. A known limitation.
type SessionMemory struct {
	mu        sync.RWMutex
	histories map[string][]models.Turn
}

// NewSessionMemory creates an empty session memory.
func NewSessionMemory() *SessionMemory {
	return &SessionMemory{
		histories: make(map[string][]models.Turn),
	}
}

// History returns a copy of the session's conversation so far.
func (m *SessionMemory) History(sessionID string) []models.Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]models.Turn(nil), m.histories[sessionID]...)
}

// Append records turns at the end of the session's history. Each
// processed turn appends one user entry and one assistant entry, in
// that order.
func (m *SessionMemory) Append(sessionID string, turns ...models.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.histories[sessionID] = append(m.histories[sessionID], turns...)
}

// Sessions returns the number of sessions with recorded history.
func (m *SessionMemory) Sessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.histories)
}

package models

// Turn roles, matching the chat-completion wire format.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a session's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

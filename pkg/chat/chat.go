package chat

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Narrator / NPC reply
	ChatRoleSystem = "system"    // Engine notices and rich events
)

// ChatMessage is a single role-tagged message in the conversation.
// This shape matches the OpenAI-style chat APIs and is used to
// structure messages sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the accumulated reply from a chat completion.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}

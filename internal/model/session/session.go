package session

import "time"

// Turn is a single entry in a session's chat transcript. Ordering is given
// by position in the slice.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles used in chat transcripts.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Session is a persisted unit of chat history plus the component code it
// produced, owned by exactly one user. Version increments on every write and
// backs the optimistic concurrency check on updates.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ChatHistory []Turn    `json:"chatHistory"`
	Code        string    `json:"code"`
	CSS         string    `json:"css"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft carries the client-supplied fields for a new session.
type Draft struct {
	ChatHistory []Turn `json:"chatHistory"`
	Code        string `json:"code"`
	CSS         string `json:"css"`
}

// Patch describes a partial update. Nil fields are left unchanged. If
// Version is set the update only applies when it matches the stored version.
type Patch struct {
	ChatHistory *[]Turn `json:"chatHistory"`
	Code        *string `json:"code"`
	CSS         *string `json:"css"`
	Version     *int64  `json:"version"`
}

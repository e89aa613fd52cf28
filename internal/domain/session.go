package domain

import "time"

type SessionID string

// SentinelTitle is the placeholder title a session carries until the first
// user message replaces it.
const SentinelTitle = "New Chat"

// titleLimit is the maximum number of runes of the first user message used
// for a derived session title.
const titleLimit = 30

// Session is one ordered conversation thread. Messages are append-only and
// insertion order is conversation order.
type Session struct {
	ID        SessionID `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession returns a fresh session with the sentinel title and no messages.
func NewSession(id SessionID, now time.Time) Session {
	return Session{
		ID:        id,
		Title:     SentinelTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithMessage returns a copy of the session with msg appended and UpdatedAt
// refreshed. While the title is still the sentinel, the first user message
// derives the title.
func (s Session) WithMessage(msg Message, now time.Time) Session {
	messages := make([]Message, 0, len(s.Messages)+1)
	messages = append(messages, s.Messages...)
	messages = append(messages, msg)

	title := s.Title
	if title == SentinelTitle && msg.Role == RoleUser {
		title = DeriveTitle(msg.Content)
	}

	return Session{
		ID:        s.ID,
		Title:     title,
		Messages:  messages,
		CreatedAt: s.CreatedAt,
		UpdatedAt: now,
	}
}

// DeriveTitle truncates content to the title limit, marking truncation with
// an ellipsis. Truncation counts runes so multi-byte text is never split.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

// LastMessage returns the most recent message, or a zero Message when the
// session is empty.
func (s Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

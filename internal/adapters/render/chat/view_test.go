package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bhouston/chat-app/internal/domain"
)

func testNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestRenderSessionListEmpty(t *testing.T) {
	t.Parallel()

	out := RenderSessionList(nil, RenderOptions{Now: testNow()})

	assert.Contains(t, out, "Chats")
	assert.Contains(t, out, "sessions: 0")
	assert.Contains(t, out, "No chats yet.")
}

func TestRenderSessionListMarksActive(t *testing.T) {
	t.Parallel()

	now := testNow()
	sessions := []domain.Session{
		{ID: "abcdef12-3456", Title: "First topic", UpdatedAt: now.Add(-30 * time.Second)},
		{ID: "fedcba98-7654", Title: "Second topic", UpdatedAt: now.Add(-2 * time.Hour)},
	}

	out := RenderSessionList(sessions, RenderOptions{Now: now, ActiveID: "abcdef12-3456"})

	assert.Contains(t, out, "sessions: 2")
	assert.Contains(t, out, "* ")
	assert.Contains(t, out, "First topic")
	assert.Contains(t, out, "Second topic")
	assert.Contains(t, out, "[abcdef12]")
	assert.Contains(t, out, "just now")
	assert.Contains(t, out, "2h ago")
}

func TestRenderSessionListShowsLastMessagePreview(t *testing.T) {
	t.Parallel()

	now := testNow()
	sessions := []domain.Session{
		{
			ID:    "abcdef12-3456",
			Title: "First topic",
			Messages: []domain.Message{
				{ID: "m-1", Role: domain.RoleUser, Content: "the question"},
				{ID: "m-2", Role: domain.RoleAssistant, Content: "the final answer"},
			},
			UpdatedAt: now,
		},
	}

	out := RenderSessionList(sessions, RenderOptions{Now: now})

	assert.Contains(t, out, "2 messages")
	assert.Contains(t, out, "the final answer")
}

func TestRenderTranscript(t *testing.T) {
	t.Parallel()

	now := testNow()
	session := domain.Session{
		ID:        "abcdef12-3456",
		Title:     "Trip planning",
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now,
		Messages: []domain.Message{
			{ID: "m-1", Role: domain.RoleUser, Content: "Where should I go?", Timestamp: now.Add(-10 * time.Minute)},
			{ID: "m-2", Role: domain.RoleAssistant, Content: "Somewhere warm.", Timestamp: now.Add(-9 * time.Minute)},
		},
	}

	out := RenderTranscript(session, RenderOptions{Now: now})

	assert.Contains(t, out, "Trip planning")
	assert.Contains(t, out, "2 messages")
	assert.Contains(t, out, "you")
	assert.Contains(t, out, "assistant")
	assert.Contains(t, out, "Where should I go?")
	assert.Contains(t, out, "Somewhere warm.")
}

func TestRenderTranscriptEmptySession(t *testing.T) {
	t.Parallel()

	session := domain.Session{ID: "s-1", Title: domain.SentinelTitle, CreatedAt: testNow(), UpdatedAt: testNow()}

	out := RenderTranscript(session, RenderOptions{Now: testNow()})

	assert.Contains(t, out, domain.SentinelTitle)
	assert.Contains(t, out, "No messages yet.")
}

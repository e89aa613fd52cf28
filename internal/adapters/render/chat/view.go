// Package chat renders session lists and transcripts for terminal display.
package chat

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bhouston/chat-app/internal/domain"
)

type RenderOptions struct {
	Now      time.Time
	ActiveID domain.SessionID
}

// RenderSessionList renders the working set in display order, marking the
// active session.
func RenderSessionList(sessions []domain.Session, opts RenderOptions) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Chats"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(sessions))),
	}

	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render("No chats yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, session := range sessions {
		lines = append(lines, renderSessionLine(session, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSessionLine(session domain.Session, opts RenderOptions, s styles) string {
	titleStyle := s.session
	marker := "  "
	if session.ID == opts.ActiveID {
		titleStyle = s.active
		marker = "* "
	}

	detail := fmt.Sprintf("%d messages, %s", len(session.Messages), formatRelative(session.UpdatedAt, opts.Now))
	if preview, ok := session.LastMessage(); ok {
		detail = fmt.Sprintf("%s — %s", detail, domain.DeriveTitle(preview.Content))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		titleStyle.Render(session.Title),
		"  ",
		s.detail.Render(fmt.Sprintf("[%s]", shortID(session.ID))),
		" ",
		s.detail.Render(detail),
	)
}

// RenderTranscript renders the full message history of one session.
func RenderTranscript(session domain.Session, opts RenderOptions) string {
	s := newStyles()

	lines := []string{
		s.title.Render(session.Title),
		s.header.Render(fmt.Sprintf("%d messages, started %s", len(session.Messages), formatRelative(session.CreatedAt, opts.Now))),
	}

	if len(session.Messages) == 0 {
		lines = append(lines, s.empty.Render("No messages yet. Send one to get started."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, msg := range session.Messages {
		lines = append(lines, s.section.Render(renderMessage(msg, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderMessage(msg domain.Message, opts RenderOptions, s styles) string {
	roleStyle := s.botRole
	label := "assistant"
	if msg.Role == domain.RoleUser {
		roleStyle = s.userRole
		label = "you"
	}

	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		roleStyle.Render(label),
		" ",
		s.timestamp.Render(formatRelative(msg.Timestamp, opts.Now)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, s.content.Render(msg.Content))
}

func shortID(id domain.SessionID) string {
	raw := string(id)
	if len(raw) > 8 {
		return raw[:8]
	}
	return raw
}

func formatRelative(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.IsZero() {
		now = time.Now()
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

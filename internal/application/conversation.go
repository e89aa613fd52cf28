package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/bhouston/chat-app/internal/domain"
	"github.com/bhouston/chat-app/internal/ports"
)

// SessionsKeyPrefix scopes the persisted working set per identity. The bare
// prefix is used when no identity is signed in, though an identityless
// working set is never persisted.
const SessionsKeyPrefix = "chat_app_data"

type storeState int

const (
	stateUninitialized storeState = iota
	stateLoading
	stateReady
)

// ConversationStore owns the working set of the current identity: the full
// ordered collection of its sessions plus the active session pointer.
//
// All operations serialize on an internal mutex. Loads are guarded by a
// generation token so that a load overtaken by a newer identity change
// discards its result instead of writing stale data.
type ConversationStore struct {
	blobs  ports.BlobStore
	clock  ports.Clock
	logger *slog.Logger

	mu         sync.Mutex
	state      storeState
	generation uint64
	identity   *domain.Identity
	sessions   []domain.Session
	activeID   domain.SessionID
}

func NewConversationStore(blobs ports.BlobStore, clock ports.Clock, logger *slog.Logger) *ConversationStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ConversationStore{
		blobs:  blobs,
		clock:  clock,
		logger: logger,
	}
}

// LoadForIdentity rescopes the working set to the given identity, reloading
// it from persistence. A nil identity yields an empty, non-persisted working
// set. Read and decode failures degrade to an empty working set and are
// logged, never surfaced. If the loaded working set is empty, one fresh
// session is synthesized and becomes active.
func (s *ConversationStore) LoadForIdentity(ctx context.Context, identity *domain.Identity) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = stateLoading
	s.identity = cloneIdentity(identity)
	s.sessions = nil
	s.activeID = ""

	if identity == nil {
		s.state = stateReady
		s.mu.Unlock()
		return
	}

	key := sessionsKey(identity.ID)
	s.mu.Unlock()

	sessions := s.readSessions(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		// A newer identity change overtook this load.
		s.logger.Debug("discarding stale session load", "key", key)
		return
	}

	s.sessions = sessions
	if len(sessions) == 0 {
		s.createSessionLocked(ctx)
	} else {
		s.activeID = mostRecent(sessions).ID
	}
	s.state = stateReady
}

func (s *ConversationStore) readSessions(ctx context.Context, key string) []domain.Session {
	raw, err := s.blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			s.logger.Warn("load sessions failed, starting empty", "key", key, "error", err)
		}
		return nil
	}

	var sessions []domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		s.logger.Warn("decode sessions failed, starting empty", "key", key, "error", err)
		return nil
	}

	return sessions
}

// CreateSession synthesizes a fresh session with the sentinel title, inserts
// it at the front of the working set and makes it active.
func (s *ConversationStore) CreateSession(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		return domain.Session{}, domain.ErrStoreNotReady
	}

	return s.createSessionLocked(ctx), nil
}

func (s *ConversationStore) createSessionLocked(ctx context.Context) domain.Session {
	session := domain.NewSession(domain.SessionID(uuid.NewString()), s.clock.Now())
	s.sessions = append([]domain.Session{session}, s.sessions...)
	s.activeID = session.ID
	s.persistLocked(ctx)
	return session
}

// SelectSession makes the session with the given id active.
func (s *ConversationStore) SelectSession(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		return domain.ErrStoreNotReady
	}
	if s.indexOf(id) < 0 {
		return domain.ErrSessionNotFound
	}

	s.activeID = id
	return nil
}

// AppendMessage appends a message with the given role and content to the
// active session and returns the updated session.
func (s *ConversationStore) AppendMessage(ctx context.Context, content string, role domain.MessageRole) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		return domain.Session{}, domain.ErrStoreNotReady
	}
	idx := s.indexOf(s.activeID)
	if s.activeID == "" || idx < 0 {
		return domain.Session{}, domain.ErrNoActiveSession
	}

	now := s.clock.Now()
	msg := domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}

	updated := s.sessions[idx].WithMessage(msg, now)
	s.sessions[idx] = updated
	s.persistLocked(ctx)
	return updated, nil
}

// RenameSession replaces the title of the session with the given id. Title
// edits are not content updates: UpdatedAt is left untouched.
func (s *ConversationStore) RenameSession(ctx context.Context, id domain.SessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		return domain.ErrStoreNotReady
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrSessionNotFound
	}

	s.sessions[idx].Title = title
	s.persistLocked(ctx)
	return nil
}

// Sessions returns the working set in display order, most recently created
// first.
func (s *ConversationStore) Sessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Active returns the active session, if any.
func (s *ConversationStore) Active() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.activeID)
	if s.activeID == "" || idx < 0 {
		return domain.Session{}, false
	}
	return s.sessions[idx], true
}

// Loading reports whether an identity load is in flight.
func (s *ConversationStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateLoading
}

// Identity returns the identity the working set is scoped to, or nil.
func (s *ConversationStore) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIdentity(s.identity)
}

// persistLocked writes the entire working set back to the identity-scoped
// key. Write failures are logged and swallowed: the in-memory working set
// stays authoritative and the next successful write re-syncs persisted state.
func (s *ConversationStore) persistLocked(ctx context.Context) {
	if s.identity == nil || len(s.sessions) == 0 {
		return
	}

	data, err := json.Marshal(s.sessions)
	if err != nil {
		s.logger.Warn("encode sessions failed", "error", err)
		return
	}

	key := sessionsKey(s.identity.ID)
	if err := s.blobs.Put(ctx, key, string(data)); err != nil {
		s.logger.Warn("persist sessions failed", "key", key, "error", err)
	}
}

func (s *ConversationStore) indexOf(id domain.SessionID) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// mostRecent picks the session with the greatest UpdatedAt. Ties keep the
// first occurrence in decoded order.
func mostRecent(sessions []domain.Session) domain.Session {
	best := sessions[0]
	for _, session := range sessions[1:] {
		if session.UpdatedAt.After(best.UpdatedAt) {
			best = session
		}
	}
	return best
}

func sessionsKey(id domain.IdentityID) string {
	return SessionsKeyPrefix + ":" + string(id)
}

func cloneIdentity(identity *domain.Identity) *domain.Identity {
	if identity == nil {
		return nil
	}
	clone := *identity
	return &clone
}

package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/utils"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps login sessions in the sessions table so refresh tokens
// survive a server restart. Read-modify-write sequences are serialized with
// a process-local mutex on top of whatever locking the backend has.
type SessionStore struct {
	store TabularStore
	mu    sync.Mutex
}

// NewSessionStore returns a session store backed by the tabular store.
func NewSessionStore(store TabularStore) *SessionStore {
	return &SessionStore{store: store}
}

func sessionToRow(s *models.Session) Row {
	return Row{
		s.SessionID,
		s.UserID,
		s.Role,
		s.HostName,
		s.IPAddress,
		utils.FormatTime(s.Timestamp),
		utils.FormatTime(s.ExpiresAt),
		s.RefreshToken,
		utils.FormatTime(s.RefreshTokenExpiresAt),
	}
}

func rowToSession(r Row) *models.Session {
	return &models.Session{
		SessionID:             r[0],
		UserID:                r[1],
		Role:                  r[2],
		HostName:              r[3],
		IPAddress:             r[4],
		Timestamp:             utils.ParseTime(r[5]),
		ExpiresAt:             utils.ParseTime(r[6]),
		RefreshToken:          r[7],
		RefreshTokenExpiresAt: utils.ParseTime(r[8]),
	}
}

func (s *SessionStore) readAll(ctx context.Context) ([]Row, error) {
	return s.store.ReadTable(ctx, TableSessions, ColsSessions)
}

// SaveSession registers a new session. When allowMultipleSessions is false
// every other session of the same user is dropped first, enforcing one
// device per account.
func (s *SessionStore) SaveSession(ctx context.Context, session *models.Session, allowMultipleSessions bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if allowMultipleSessions {
		return s.store.AppendRow(ctx, TableSessions, sessionToRow(session))
	}

	rows, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	kept := make([]Row, 0, len(rows)+1)
	for _, r := range rows {
		if r[1] == session.UserID {
			continue
		}
		kept = append(kept, r)
	}
	kept = append(kept, sessionToRow(session))
	return s.store.WriteTable(ctx, TableSessions, kept)
}

// GetSession returns the session for id, or ErrSessionNotFound when the id
// is unknown or the session has expired.
func (s *SessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	rows, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r[0] != id {
			continue
		}
		sess := rowToSession(r)
		if time.Now().After(sess.ExpiresAt) {
			return nil, ErrSessionNotFound
		}
		return sess, nil
	}
	return nil, ErrSessionNotFound
}

// GetSessionByRefreshToken finds the session owning a still-valid refresh
// token.
func (s *SessionStore) GetSessionByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	rows, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		sess := rowToSession(r)
		if sess.RefreshToken == token && time.Now().Before(sess.RefreshTokenExpiresAt) {
			return sess, nil
		}
	}
	return nil, ErrSessionNotFound
}

// DeleteSessionByID removes one session (logout of a single device).
func (s *SessionStore) DeleteSessionByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r[0] == id {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == len(rows) {
		return ErrSessionNotFound
	}
	return s.store.WriteTable(ctx, TableSessions, kept)
}

// CleanupExpiredSessions drops every expired session and reports how many
// were removed. Called by the daily cron.
func (s *SessionStore) CleanupExpiredSessions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		sess := rowToSession(r)
		// A session lives as long as its refresh token does
		expiry := sess.ExpiresAt
		if sess.RefreshTokenExpiresAt.After(expiry) {
			expiry = sess.RefreshTokenExpiresAt
		}
		if now.After(expiry) {
			continue
		}
		kept = append(kept, r)
	}
	removed := len(rows) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.WriteTable(ctx, TableSessions, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

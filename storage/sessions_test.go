package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-park82/SMT-Management/models"
)

func testSession(userID, sessionID string, refreshTTL time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		UserID:                userID,
		SessionID:             sessionID,
		Role:                  models.RoleWorker,
		HostName:              "line1-kiosk",
		IPAddress:             "10.0.3.21",
		Timestamp:             now,
		ExpiresAt:             now.Add(15 * time.Minute),
		RefreshToken:          "rt-" + sessionID,
		RefreshTokenExpiresAt: now.Add(refreshTTL),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newCountingStore()
	sessions := NewSessionStore(store)
	ctx := context.Background()

	require.NoError(t, sessions.SaveSession(ctx, testSession("kim", "s1", 24*time.Hour), false))

	got, err := sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "kim", got.UserID)
	assert.Equal(t, "line1-kiosk", got.HostName)

	byToken, err := sessions.GetSessionByRefreshToken(ctx, "rt-s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", byToken.SessionID)

	_, err = sessions.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionSurvivesRestart(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	first := NewSessionStore(store)
	require.NoError(t, first.SaveSession(ctx, testSession("kim", "s1", 24*time.Hour), false))

	// A fresh SessionStore over the same backend still sees the session
	second := NewSessionStore(store)
	got, err := second.GetSessionByRefreshToken(ctx, "rt-s1")
	require.NoError(t, err)
	assert.Equal(t, "kim", got.UserID)
}

func TestSaveSessionDropsSameUserSessions(t *testing.T) {
	store := newCountingStore()
	sessions := NewSessionStore(store)
	ctx := context.Background()

	require.NoError(t, sessions.SaveSession(ctx, testSession("kim", "s1", 24*time.Hour), false))
	require.NoError(t, sessions.SaveSession(ctx, testSession("lee", "s2", 24*time.Hour), false))
	require.NoError(t, sessions.SaveSession(ctx, testSession("kim", "s3", 24*time.Hour), false))

	_, err := sessions.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The other user's session is untouched
	_, err = sessions.GetSession(ctx, "s2")
	assert.NoError(t, err)
	_, err = sessions.GetSession(ctx, "s3")
	assert.NoError(t, err)
}

func TestSaveSessionAllowMultipleKeepsBoth(t *testing.T) {
	store := newCountingStore()
	sessions := NewSessionStore(store)
	ctx := context.Background()

	require.NoError(t, sessions.SaveSession(ctx, testSession("kim", "s1", 24*time.Hour), true))
	require.NoError(t, sessions.SaveSession(ctx, testSession("kim", "s2", 24*time.Hour), true))

	_, err := sessions.GetSession(ctx, "s1")
	assert.NoError(t, err)
	_, err = sessions.GetSession(ctx, "s2")
	assert.NoError(t, err)
}

func TestDeleteSessionByID(t *testing.T) {
	store := newCountingStore()
	sessions := NewSessionStore(store)
	ctx := context.Background()

	require.NoError(t, sessions.SaveSession(ctx, testSession("kim", "s1", 24*time.Hour), false))
	require.NoError(t, sessions.DeleteSessionByID(ctx, "s1"))

	_, err := sessions.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, sessions.DeleteSessionByID(ctx, "s1"), ErrSessionNotFound)
}

func TestCleanupKeepsRefreshValidSessions(t *testing.T) {
	store := newCountingStore()
	sessions := NewSessionStore(store)
	ctx := context.Background()

	// Access token expired, refresh token still good: must survive cleanup
	live := testSession("kim", "s1", 24*time.Hour)
	live.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, sessions.SaveSession(ctx, live, false))

	dead := testSession("lee", "s2", -time.Hour)
	dead.ExpiresAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, sessions.SaveSession(ctx, dead, false))

	removed, err := sessions.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = sessions.GetSessionByRefreshToken(ctx, "rt-s1")
	assert.NoError(t, err)
	_, err = sessions.GetSessionByRefreshToken(ctx, "rt-s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStoreDownSurfaces(t *testing.T) {
	store := newCountingStore()
	store.fail = true
	sessions := NewSessionStore(store)
	ctx := context.Background()

	_, err := sessions.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, sessions.SaveSession(ctx, testSession("kim", "s1", time.Hour), false), ErrStoreUnavailable)
}

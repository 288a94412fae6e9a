package token_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-broker-client/oauth2"
	"github.com/jrsteele09/go-broker-client/token"
)

const (
	refreshTTL = 7 * 24 * time.Hour
	accessTTL  = 30 * time.Minute
)

func populatedStore(now time.Time) *token.Store {
	s := token.NewStore(refreshTTL, accessTTL)
	s.RefreshToken = "refresh-abc"
	s.AccessToken = "access-def"
	s.IDToken = "id-ghi"
	s.RefreshTokenUpdated = now.Add(-time.Hour)
	s.AccessTokenUpdated = now.Add(-time.Minute)
	return s
}

func grantResponse() *oauth2.TokenResponse {
	return &oauth2.TokenResponse{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		IDToken:      "new-id",
		TokenType:    "Bearer",
		ExpiresIn:    1800,
	}
}

func TestRecordRoundTrip(t *testing.T) {
	now := time.Now()
	original := populatedStore(now)

	loaded := token.NewStore(refreshTTL, accessTTL)
	require.NoError(t, loaded.Deserialize(original.Serialize()))

	require.Equal(t, original.RefreshToken, loaded.RefreshToken)
	require.Equal(t, original.AccessToken, loaded.AccessToken)
	require.Equal(t, original.IDToken, loaded.IDToken)
	require.True(t, original.RefreshTokenUpdated.Equal(loaded.RefreshTokenUpdated))
	require.True(t, original.AccessTokenUpdated.Equal(loaded.AccessTokenUpdated))
	require.Equal(t, original.AccessTokenTTL, loaded.AccessTokenTTL)
	require.Equal(t, original.RefreshTokenTTL, loaded.RefreshTokenTTL)
}

func TestStalenessBoundary(t *testing.T) {
	now := time.Now()

	t.Run("access token exactly at TTL is fresh", func(t *testing.T) {
		s := populatedStore(now)
		s.AccessTokenUpdated = now.Add(-accessTTL)
		stale, err := s.IsAccessStale(now)
		require.NoError(t, err)
		require.False(t, stale)
	})

	t.Run("access token one second past TTL is stale", func(t *testing.T) {
		s := populatedStore(now)
		s.AccessTokenUpdated = now.Add(-accessTTL - time.Second)
		stale, err := s.IsAccessStale(now)
		require.NoError(t, err)
		require.True(t, stale)
	})

	t.Run("refresh token exactly at TTL is fresh", func(t *testing.T) {
		s := populatedStore(now)
		s.RefreshTokenUpdated = now.Add(-refreshTTL)
		stale, err := s.IsRefreshStale(now)
		require.NoError(t, err)
		require.False(t, stale)
	})

	t.Run("refresh token past TTL is stale", func(t *testing.T) {
		s := populatedStore(now)
		s.RefreshTokenUpdated = now.Add(-refreshTTL - time.Second)
		stale, err := s.IsRefreshStale(now)
		require.NoError(t, err)
		require.True(t, stale)
	})

	t.Run("staleness before load or grant fails", func(t *testing.T) {
		s := token.NewStore(refreshTTL, accessTTL)
		_, err := s.IsRefreshStale(now)
		require.ErrorIs(t, err, token.ErrIssuedAtUnset)
		_, err = s.IsAccessStale(now)
		require.ErrorIs(t, err, token.ErrIssuedAtUnset)
	})
}

func TestApplyGrant(t *testing.T) {
	now := time.Now()

	t.Run("refresh grant keeps refresh clock", func(t *testing.T) {
		s := populatedStore(now)
		refreshIssued := s.RefreshTokenUpdated

		require.NoError(t, s.ApplyGrant(grantResponse(), false, now))

		require.Equal(t, "new-access", s.AccessToken)
		require.Equal(t, "new-refresh", s.RefreshToken)
		require.Equal(t, "new-id", s.IDToken)
		require.True(t, s.AccessTokenUpdated.Equal(now))
		require.True(t, s.RefreshTokenUpdated.Equal(refreshIssued))
		require.Equal(t, 1800*time.Second, s.AccessTokenTTL)
	})

	t.Run("reauthorization resets both clocks", func(t *testing.T) {
		s := populatedStore(now)

		require.NoError(t, s.ApplyGrant(grantResponse(), true, now))

		require.True(t, s.AccessTokenUpdated.Equal(now))
		require.True(t, s.RefreshTokenUpdated.Equal(now))
		require.True(t, s.AccessTokenUpdated.Equal(s.RefreshTokenUpdated))
	})

	t.Run("refresh grant on empty store fails", func(t *testing.T) {
		s := token.NewStore(refreshTTL, accessTTL)
		err := s.ApplyGrant(grantResponse(), false, now)
		require.ErrorIs(t, err, token.ErrIssuedAtUnset)
	})

	t.Run("expires_in overrides configured access TTL", func(t *testing.T) {
		s := populatedStore(now)
		resp := grantResponse()
		resp.ExpiresIn = 900
		require.NoError(t, s.ApplyGrant(resp, false, now))
		require.Equal(t, 900*time.Second, s.AccessTokenTTL)
	})
}

func TestDeserialize_MalformedRecord(t *testing.T) {
	now := time.Now()

	t.Run("missing refresh token", func(t *testing.T) {
		rec := populatedStore(now).Serialize()
		rec.RefreshToken = ""
		err := token.NewStore(refreshTTL, accessTTL).Deserialize(rec)
		require.ErrorIs(t, err, token.ErrMalformedRecord)
	})

	t.Run("missing access token", func(t *testing.T) {
		rec := populatedStore(now).Serialize()
		rec.AccessToken = ""
		err := token.NewStore(refreshTTL, accessTTL).Deserialize(rec)
		require.ErrorIs(t, err, token.ErrMalformedRecord)
	})

	t.Run("unparsable timestamp", func(t *testing.T) {
		rec := populatedStore(now).Serialize()
		rec.AccessTokenUpdated = "yesterday"
		err := token.NewStore(refreshTTL, accessTTL).Deserialize(rec)
		require.ErrorIs(t, err, token.ErrMalformedRecord)
	})
}

func TestFilePersistence(t *testing.T) {
	now := time.Now()

	t.Run("save then load round-trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		original := populatedStore(now)
		require.NoError(t, original.SaveFile(path))

		loaded := token.NewStore(refreshTTL, accessTTL)
		require.NoError(t, loaded.LoadFile(path))
		require.Equal(t, original.AccessToken, loaded.AccessToken)
		require.True(t, original.RefreshTokenUpdated.Equal(loaded.RefreshTokenUpdated))
	})

	t.Run("missing file is reported as not-exist", func(t *testing.T) {
		s := token.NewStore(refreshTTL, accessTTL)
		err := s.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("garbage file is a malformed record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		err := token.NewStore(refreshTTL, accessTTL).LoadFile(path)
		require.ErrorIs(t, err, token.ErrMalformedRecord)
	})

	t.Run("saved file is owner-only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		require.NoError(t, populatedStore(now).SaveFile(path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

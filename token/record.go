package token

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is the durable JSON form of a Store. Timestamps are RFC 3339
// strings; the access-token TTL travels with the record because the server
// owns it, while the refresh-token TTL stays local policy.
type Record struct {
	RefreshToken            string `json:"refresh_token"`
	AccessToken             string `json:"access_token"`
	IDToken                 string `json:"id_token"`
	RefreshTokenUpdated     string `json:"refresh_token_updated"`
	AccessTokenUpdated      string `json:"access_token_updated"`
	AccessTokenExpiresInSec int    `json:"access_token_expires_in_sec"`
}

// Serialize produces the durable record for the current state.
func (s *Store) Serialize() *Record {
	return &Record{
		RefreshToken:            s.RefreshToken,
		AccessToken:             s.AccessToken,
		IDToken:                 s.IDToken,
		RefreshTokenUpdated:     s.RefreshTokenUpdated.Format(time.RFC3339Nano),
		AccessTokenUpdated:      s.AccessTokenUpdated.Format(time.RFC3339Nano),
		AccessTokenExpiresInSec: int(s.AccessTokenTTL / time.Second),
	}
}

// Deserialize loads a record into the store, replacing the credential state
// but keeping the refresh TTL policy. A record missing its tokens or
// carrying unparsable timestamps is rejected whole with ErrMalformedRecord.
func (s *Store) Deserialize(rec *Record) error {
	if rec.RefreshToken == "" || rec.AccessToken == "" {
		return fmt.Errorf("%w: missing token fields", ErrMalformedRecord)
	}
	refreshUpdated, err := time.Parse(time.RFC3339Nano, rec.RefreshTokenUpdated)
	if err != nil {
		return fmt.Errorf("%w: refresh_token_updated: %v", ErrMalformedRecord, err)
	}
	accessUpdated, err := time.Parse(time.RFC3339Nano, rec.AccessTokenUpdated)
	if err != nil {
		return fmt.Errorf("%w: access_token_updated: %v", ErrMalformedRecord, err)
	}

	s.RefreshToken = rec.RefreshToken
	s.AccessToken = rec.AccessToken
	s.IDToken = rec.IDToken
	s.RefreshTokenUpdated = refreshUpdated
	s.AccessTokenUpdated = accessUpdated
	if rec.AccessTokenExpiresInSec > 0 {
		s.AccessTokenTTL = time.Duration(rec.AccessTokenExpiresInSec) * time.Second
	}
	return nil
}

// LoadFile reads and deserializes the record at path. Unreadable JSON is
// reported as ErrMalformedRecord; a missing file surfaces as the os error
// so the caller can tell the two apart.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("token.LoadFile: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("token.LoadFile: %w: %v", ErrMalformedRecord, err)
	}
	return s.Deserialize(&rec)
}

// SaveFile persists the current state as a whole-file overwrite: the record
// is written to a temp file in the same directory and renamed into place,
// so a crash mid-write never leaves a truncated record behind.
func (s *Store) SaveFile(path string) error {
	data, err := json.MarshalIndent(s.Serialize(), "", "    ")
	if err != nil {
		return fmt.Errorf("token.SaveFile: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("token.SaveFile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("token.SaveFile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("token.SaveFile: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("token.SaveFile: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("token.SaveFile: %w", err)
	}
	return nil
}

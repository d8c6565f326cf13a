// Package store is a total key/value adapter: no operation ever returns an
// error to its caller. Reads fall back to a default, writes log and move on.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Backend is the fallible storage underneath the adapter.
type Backend interface {
	Find(ctx context.Context, key string) ([]byte, error)
	Upsert(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const (
	KeyUserRole      = "user_role"
	KeyUserID        = "user_id"
	KeyUserName      = "user_name"
	KeyRequests      = "requests"
	KeyChatMessages  = "chat_messages"
	KeyNotifications = "notifications"
	KeyLastLocation  = "last_location"
	KeyStatusLog     = "status_log"
)

type Store struct {
	backend   Backend
	namespace string
	log       zerolog.Logger
}

func New(backend Backend, namespace string, log zerolog.Logger) *Store {
	return &Store{backend: backend, namespace: namespace, log: log}
}

// Key returns the namespaced form of a short key.
func (s *Store) Key(short string) string {
	if s.namespace == "" {
		return short
	}
	return s.namespace + "_" + short
}

// Get decodes the value under key into a T. Missing keys, backend errors,
// decode errors and JSON null all yield def.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, err := s.backend.Find(ctx, s.Key(key))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error().Err(err).Str("key", key).Msg("error reading from storage")
		}
		return def
	}
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("error decoding stored value")
		return def
	}
	return out
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("error encoding value for storage")
		return
	}
	if err := s.backend.Upsert(ctx, s.Key(key), raw); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("error writing to storage")
	}
}

func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.Key(key)); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("error removing from storage")
	}
}

// Keys lists the short keys present in the store's namespace. A backend
// failure yields nil.
func (s *Store) Keys(ctx context.Context) []string {
	prefix := s.prefix()
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		s.log.Error().Err(err).Msg("error listing storage keys")
		return nil
	}
	short := make([]string, 0, len(keys))
	for _, k := range keys {
		short = append(short, strings.TrimPrefix(k, prefix))
	}
	return short
}

// Clear drops every key in the store's namespace.
func (s *Store) Clear(ctx context.Context) {
	prefix := s.prefix()
	if err := s.backend.DeleteByPrefix(ctx, prefix); err != nil {
		s.log.Error().Err(err).Msg("error clearing storage")
	}
}

func (s *Store) prefix() string {
	if s.namespace == "" {
		return ""
	}
	return s.namespace + "_"
}

// Package sessions holds the client's authentication credential and keeps
// it mirrored in durable storage so a new process picks up where the last
// one left off.
//
// A Store is the only writer of the credential. API clients and the
// navigation guard only read it.
package sessions

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// TokenKey is the storage key the credential is persisted under.
const TokenKey = "token"

// Store owns the current bearer credential. The empty string means there
// is no session.
type Store struct {
	lock       sync.RWMutex
	storage    Storage
	credential string
}

// NewStore returns a store over storage. Call Initialize before use.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Initialize loads the credential from storage. A missing, unreadable or
// corrupt entry leaves the store logged out.
func (s *Store) Initialize() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.credential = s.load()

	logrus.WithFields(logrus.Fields{
		"loggedIn": len(s.credential) > 0,
	}).Debugln("Initialized session store")
}

func (s *Store) load() string {
	value, ok, err := s.storage.Get(TokenKey)
	if err != nil {
		logrus.WithError(err).Warnln("Failed to read stored session, continuing logged out")
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// GetCredential returns the current credential, or "" when logged out.
func (s *Store) GetCredential() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.credential
}

// IsLoggedIn reports whether a non-empty credential is held.
func (s *Store) IsLoggedIn() bool {
	return len(s.GetCredential()) > 0
}

// SetCredential persists value and then makes it current. If persisting
// fails the in-memory credential is left untouched.
func (s *Store) SetCredential(value string) error {
	if len(value) == 0 {
		return s.ClearCredential()
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.storage.Set(TokenKey, value); err != nil {
		logrus.WithError(err).Errorln("Failed to persist session")
		return err
	}
	s.credential = value

	logrus.Debugln("Stored new session credential")
	return nil
}

// ClearCredential drops the session and its persisted entry. Clearing an
// empty store is a no-op.
func (s *Store) ClearCredential() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.storage.Remove(TokenKey); err != nil {
		logrus.WithError(err).Errorln("Failed to remove persisted session")
		return err
	}
	s.credential = ""

	logrus.Debugln("Cleared session credential")
	return nil
}

package account

import (
	"context"

	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

const (
	flagTrue  = "true"
	flagFalse = "false"
)

// Session tracks the signed-in user through two keys: a "true"/"false"
// flag and a snapshot of the user record.
type Session struct {
	store storage.Store
	log   logging.Logger
}

func NewSession(s storage.Store, log logging.Logger) *Session {
	return &Session{store: s, log: log}
}

// CurrentUser returns the snapshot, or nil if it is missing, unreadable or
// has no email.
func (s *Session) CurrentUser(ctx context.Context) (*User, error) {
	u, err := load[*User](ctx, s.store, s.log, KeyCurrentUser, nil)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Email == "" {
		return nil, nil
	}
	return u, nil
}

// IsLoggedIn requires both the flag and a readable snapshot; a mismatch
// means signed out.
func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	flag, err := s.store.Get(ctx, KeyLoggedIn)
	if err != nil {
		return false, storageError(err)
	}
	if string(flag) != flagTrue {
		return false, nil
	}
	u, err := s.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Login writes the snapshot and raises the flag. Run it inside
// Transactor.Update to make the two writes one.
func (s *Session) Login(ctx context.Context, u User) error {
	if err := s.SetCurrentUser(ctx, u); err != nil {
		return err
	}
	return storageError(s.store.Set(ctx, KeyLoggedIn, []byte(flagTrue)))
}

// SetCurrentUser replaces the snapshot without touching the flag.
func (s *Session) SetCurrentUser(ctx context.Context, u User) error {
	return save(ctx, s.store, KeyCurrentUser, u)
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Remove(ctx, KeyCurrentUser); err != nil {
		return storageError(err)
	}
	return storageError(s.store.Set(ctx, KeyLoggedIn, []byte(flagFalse)))
}

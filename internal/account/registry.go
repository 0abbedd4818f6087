package account

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/jdmshowroom/internal/cryptox"
	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

// Registry is the list of all accounts, stored as one JSON array and
// searched linearly. Emails match exactly, case included.
type Registry struct {
	store  storage.Store
	log    logging.Logger
	scheme cryptox.PasswordScheme
	now    func() time.Time
}

func NewRegistry(s storage.Store, log logging.Logger, scheme cryptox.PasswordScheme, now func() time.Time) *Registry {
	return &Registry{store: s, log: log, scheme: scheme, now: now}
}

func (r *Registry) List(ctx context.Context) ([]User, error) {
	return load(ctx, r.store, r.log, KeyUsers, []User{})
}

func (r *Registry) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(users, email); i >= 0 {
		return &users[i], nil
	}
	return nil, nil
}

// Register appends a new account stamped with the current time.
func (r *Registry) Register(ctx context.Context, fullName, email, password string) (*User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if indexOf(users, email) >= 0 {
		return nil, ErrEmailTaken
	}

	stored, err := r.scheme.Hash(password)
	if err != nil {
		return nil, err
	}

	u := User{
		FullName:  fullName,
		Email:     email,
		Password:  stored,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if err := save(ctx, r.store, KeyUsers, append(users, u)); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate returns the account whose password matches.
func (r *Registry) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !cryptox.VerifyPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// UpdatePassword replaces the password after checking the old one. An
// unknown email fails the same way as a wrong password.
func (r *Registry) UpdatePassword(ctx context.Context, email, oldPassword, newPassword string) (*User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, email)
	if i < 0 || !cryptox.VerifyPassword(users[i].Password, oldPassword) {
		return nil, ErrWrongPassword
	}

	stored, err := r.scheme.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	users[i].Password = stored
	if err := save(ctx, r.store, KeyUsers, users); err != nil {
		return nil, err
	}
	return &users[i], nil
}

// UpdateEmail renames an account in place. Profile and purchase keys are
// the caller's business.
func (r *Registry) UpdateEmail(ctx context.Context, oldEmail, newEmail string) (*User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, oldEmail)
	if i < 0 {
		return nil, ErrUserNotFound
	}
	if oldEmail == newEmail {
		return &users[i], nil
	}
	if indexOf(users, newEmail) >= 0 {
		return nil, ErrEmailTaken
	}

	users[i].Email = newEmail
	if err := save(ctx, r.store, KeyUsers, users); err != nil {
		return nil, err
	}
	return &users[i], nil
}

// Remove drops every record with the email. It reports whether one existed.
func (r *Registry) Remove(ctx context.Context, email string) (bool, error) {
	users, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	kept := slices.DeleteFunc(slices.Clone(users), func(u User) bool { return u.Email == email })
	if len(kept) == len(users) {
		return false, nil
	}
	return true, save(ctx, r.store, KeyUsers, kept)
}

func indexOf(users []User, email string) int {
	return slices.IndexFunc(users, func(u User) bool { return u.Email == email })
}

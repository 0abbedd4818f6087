// Package account is the account core of the showroom: the user registry,
// the session, per-user profile and purchase documents, and the operations
// the UI calls on them (signup, login, profile edits, password and email
// changes, export, deletion).
//
// All state lives in a storage.Transactor under the keys in keys.go. Every
// operation that writes runs inside a single Update, so cascades that touch
// several keys (an email change moves the registry record, the session
// snapshot, the profile and the purchases) are applied completely or not at
// all.
//
// Errors returned by Service match one of ErrValidation, ErrAuth,
// ErrNotFound or ErrStorage; Message turns any of them into notification
// text.
package account

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/dmitrijs2005/jdmshowroom/internal/cryptox"
	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
	"github.com/google/uuid"
)

// MinPasswordLength applies to signup and password changes.
const MinPasswordLength = 6

// DeleteConfirmation must be typed to delete an account.
const DeleteConfirmation = "DELETE"

// SignupRequest carries the signup form.
type SignupRequest struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// PasswordChange carries the security form.
type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

type Service struct {
	store  storage.Transactor
	log    logging.Logger
	scheme cryptox.PasswordScheme
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithPasswordScheme selects how new passwords are stored. Existing values
// keep verifying whatever scheme wrote them.
func WithPasswordScheme(p cryptox.PasswordScheme) Option {
	return func(s *Service) { s.scheme = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Transactor, opts ...Option) *Service {
	s := &Service{
		store:  store,
		log:    logging.Discard(),
		scheme: cryptox.SchemePlain,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// stores groups the four stores bound to one storage handle.
type stores struct {
	users     *Registry
	profiles  *ProfileStore
	purchases *PurchaseStore
	session   *Session
}

func (s *Service) bind(st storage.Store, log logging.Logger) stores {
	return stores{
		users:     NewRegistry(st, log, s.scheme, s.now),
		profiles:  NewProfileStore(st, log),
		purchases: NewPurchaseStore(st, log),
		session:   NewSession(st, log),
	}
}

// update runs fn as one unit of work and logs the outcome.
func (s *Service) update(ctx context.Context, op string, fn func(ctx context.Context, st stores) error) error {
	log := s.log.With("op", op, "op_id", uuid.NewString())
	log.Debug(ctx, "started")

	err := s.store.Update(ctx, func(ctx context.Context, tx storage.Store) error {
		return fn(ctx, s.bind(tx, log))
	})
	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			err = storageError(err)
			log.Error(ctx, "failed", "error", err)
		} else {
			log.Info(ctx, "rejected", "reason", e.Msg)
		}
		return err
	}

	log.Info(ctx, "completed")
	return nil
}

func (s *Service) view() stores {
	return s.bind(s.store, s.log)
}

func requireUser(ctx context.Context, st stores) (*User, error) {
	ok, err := st.session.IsLoggedIn(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return st.session.CurrentUser(ctx)
}

// passwordLength counts UTF-16 code units, the unit the web front end
// measures passwords in.
func passwordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}

func validateNewPassword(password, confirm string, mismatch, tooShort *Error) error {
	if password != confirm {
		return mismatch
	}
	if passwordLength(password) < MinPasswordLength {
		return tooShort
	}
	return nil
}

// Signup registers an account and signs it in.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if err := validateNewPassword(req.Password, req.ConfirmPassword, ErrPasswordMismatch, ErrPasswordTooShort); err != nil {
		return nil, err
	}
	if req.Email == "" {
		return nil, ErrEmailRequired
	}

	var created *User
	err := s.update(ctx, "signup", func(ctx context.Context, st stores) error {
		u, err := st.users.Register(ctx, req.FullName, req.Email, req.Password)
		if err != nil {
			return err
		}
		created = u
		return st.session.Login(ctx, *u)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login signs in an existing account.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	var user *User
	err := s.update(ctx, "login", func(ctx context.Context, st stores) error {
		u, err := st.users.Authenticate(ctx, email, password)
		if err != nil {
			return err
		}
		user = u
		return st.session.Login(ctx, *u)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.update(ctx, "logout", func(ctx context.Context, st stores) error {
		return st.session.Logout(ctx)
	})
}

func (s *Service) IsLoggedIn(ctx context.Context) (bool, error) {
	return s.view().session.IsLoggedIn(ctx)
}

// CurrentUser returns the session snapshot, or nil when nobody is signed in.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	return s.view().session.CurrentUser(ctx)
}

// RequireAuth returns the signed-in user or ErrNotLoggedIn.
func (s *Service) RequireAuth(ctx context.Context) (*User, error) {
	return requireUser(ctx, s.view())
}

// Profile returns the signed-in user's profile, defaults included.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	st := s.view()
	u, err := requireUser(ctx, st)
	if err != nil {
		return Profile{}, err
	}
	return st.profiles.Get(ctx, *u)
}

// Purchases returns the signed-in user's purchases; empty when signed out.
func (s *Service) Purchases(ctx context.Context) ([]Purchase, error) {
	st := s.view()
	u, err := requireUser(ctx, st)
	if errors.Is(err, ErrNotLoggedIn) {
		return []Purchase{}, nil
	}
	if err != nil {
		return nil, err
	}
	return st.purchases.List(ctx, u.Email)
}

// SavePersonalInfo stores the personal info section. A different email in
// info renames the account first, so the section lands under the new email.
func (s *Service) SavePersonalInfo(ctx context.Context, info PersonalInfo) error {
	return s.update(ctx, "save_personal_info", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		if info.Email != u.Email {
			if u, err = renameAccount(ctx, st, *u, info.Email); err != nil {
				return err
			}
		}
		return st.profiles.SaveSection(ctx, *u, info)
	})
}

func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) error {
	if prefs.Newsletter != "" && !isNewsletterOption(prefs.Newsletter) {
		return ErrInvalidNewsletter
	}
	return s.update(ctx, "save_preferences", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		return st.profiles.SaveSection(ctx, *u, prefs)
	})
}

func (s *Service) SaveNotifications(ctx context.Context, n Notifications) error {
	return s.update(ctx, "save_notifications", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		return st.profiles.SaveSection(ctx, *u, n)
	})
}

// ChangeEmail renames the signed-in account across the registry, the
// session, the profile and the purchases.
func (s *Service) ChangeEmail(ctx context.Context, newEmail string) (*User, error) {
	var renamed *User
	err := s.update(ctx, "change_email", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		renamed, err = renameAccount(ctx, st, *u, newEmail)
		return err
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

func renameAccount(ctx context.Context, st stores, u User, newEmail string) (*User, error) {
	if newEmail == "" {
		return nil, ErrEmailRequired
	}
	renamed, err := st.users.UpdateEmail(ctx, u.Email, newEmail)
	if err != nil {
		return nil, err
	}
	if err := st.session.SetCurrentUser(ctx, *renamed); err != nil {
		return nil, err
	}
	if err := st.profiles.RenameKey(ctx, u.Email, newEmail); err != nil {
		return nil, err
	}
	if err := st.purchases.RenameKey(ctx, u.Email, newEmail); err != nil {
		return nil, err
	}
	return renamed, nil
}

// ChangePassword replaces the password of the signed-in account after
// checking the current one.
func (s *Service) ChangePassword(ctx context.Context, req PasswordChange) error {
	if req.Current == "" {
		return ErrCurrentPasswordRequired
	}
	if err := validateNewPassword(req.New, req.Confirm, ErrNewPasswordMismatch, ErrNewPasswordTooShort); err != nil {
		return err
	}
	return s.update(ctx, "change_password", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		updated, err := st.users.UpdatePassword(ctx, u.Email, req.Current, req.New)
		if err != nil {
			return err
		}
		return st.session.SetCurrentUser(ctx, *updated)
	})
}

// Export gathers everything stored about the signed-in user, minus the
// password. It writes nothing.
func (s *Service) Export(ctx context.Context) (*Export, error) {
	st := s.view()
	u, err := requireUser(ctx, st)
	if err != nil {
		return nil, err
	}
	profile, err := st.profiles.Get(ctx, *u)
	if err != nil {
		return nil, err
	}
	purchases, err := st.purchases.List(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	return &Export{
		UserInfo:   ExportedUser{FullName: u.FullName, Email: u.Email, CreatedAt: u.CreatedAt},
		Profile:    profile,
		Purchases:  purchases,
		ExportDate: s.now().UTC().Truncate(time.Millisecond),
	}, nil
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// ExportFileName is the download name of an export. Path separators and
// ".." in the email are replaced so the result is always a single file name.
func ExportFileName(email string, at time.Time) string {
	return fmt.Sprintf("jdm-classic-data-%s-%d.json", fileNameReplacer.Replace(email), at.UnixMilli())
}

// DeleteAccount removes the signed-in account from the registry, its
// profile and purchases, and signs out. confirm must be DeleteConfirmation.
func (s *Service) DeleteAccount(ctx context.Context, confirm string) error {
	if confirm != DeleteConfirmation {
		return ErrConfirmation
	}
	return s.update(ctx, "delete_account", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		// A session left over from an already removed account still gets
		// its profile, purchases and session cleaned up.
		if _, err := st.users.Remove(ctx, u.Email); err != nil {
			return err
		}
		if err := st.profiles.Remove(ctx, u.Email); err != nil {
			return err
		}
		if err := st.purchases.Remove(ctx, u.Email); err != nil {
			return err
		}
		return st.session.Logout(ctx)
	})
}

// RecordPurchase appends a purchase for the signed-in user.
func (s *Service) RecordPurchase(ctx context.Context, purchase any) error {
	return s.update(ctx, "record_purchase", func(ctx context.Context, st stores) error {
		u, err := requireUser(ctx, st)
		if err != nil {
			return err
		}
		return st.purchases.Append(ctx, u.Email, purchase)
	})
}

func isNewsletterOption(v string) bool {
	return slices.Contains(newsletterOptions, v)
}

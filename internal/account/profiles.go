package account

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

// Section names of a profile document.
const (
	SectionPersonalInfo  = "personalInfo"
	SectionPreferences   = "preferences"
	SectionNotifications = "notifications"
)

// Section is one top-level part of a Profile. Saving a section replaces the
// stored one as a whole.
type Section interface {
	SectionName() string
	applyTo(p *Profile)
}

func (s PersonalInfo) SectionName() string  { return SectionPersonalInfo }
func (s Preferences) SectionName() string   { return SectionPreferences }
func (s Notifications) SectionName() string { return SectionNotifications }

func (s PersonalInfo) applyTo(p *Profile) { p.PersonalInfo = s }
func (s Preferences) applyTo(p *Profile) {
	s.FavoriteBrands = slices.Clone(s.FavoriteBrands)
	p.Preferences = s.normalized()
}
func (s Notifications) applyTo(p *Profile) { p.Notifications = s }

// ProfileStore keeps one Profile per email under a single mapping key.
type ProfileStore struct {
	store storage.Store
	log   logging.Logger
}

func NewProfileStore(s storage.Store, log logging.Logger) *ProfileStore {
	return &ProfileStore{store: s, log: log}
}

func (p *ProfileStore) all(ctx context.Context) (map[string]Profile, error) {
	return load(ctx, p.store, p.log, KeyProfiles, map[string]Profile{})
}

// Get returns the stored profile of u, or DefaultProfile(u) when none has
// been saved. Defaults are not written back.
func (p *ProfileStore) Get(ctx context.Context, u User) (Profile, error) {
	profiles, err := p.all(ctx)
	if err != nil {
		return Profile{}, err
	}
	if doc, ok := profiles[u.Email]; ok {
		return doc, nil
	}
	return DefaultProfile(u), nil
}

// stored reports whether a profile document exists for email.
func (p *ProfileStore) stored(ctx context.Context, email string) (bool, error) {
	profiles, err := p.all(ctx)
	if err != nil {
		return false, err
	}
	_, ok := profiles[email]
	return ok, nil
}

// SaveSection writes one section of u's profile, creating the document from
// defaults first when there is none.
func (p *ProfileStore) SaveSection(ctx context.Context, u User, section Section) error {
	profiles, err := p.all(ctx)
	if err != nil {
		return err
	}
	doc, ok := profiles[u.Email]
	if !ok {
		doc = DefaultProfile(u)
	}
	section.applyTo(&doc)
	profiles[u.Email] = doc
	return save(ctx, p.store, KeyProfiles, profiles)
}

// RenameKey moves the document under oldEmail to newEmail. Without a
// document it does nothing.
func (p *ProfileStore) RenameKey(ctx context.Context, oldEmail, newEmail string) error {
	profiles, err := p.all(ctx)
	if err != nil {
		return err
	}
	doc, ok := profiles[oldEmail]
	if !ok || oldEmail == newEmail {
		return nil
	}
	doc.PersonalInfo.Email = newEmail
	profiles[newEmail] = doc
	delete(profiles, oldEmail)
	return save(ctx, p.store, KeyProfiles, profiles)
}

func (p *ProfileStore) Remove(ctx context.Context, email string) error {
	profiles, err := p.all(ctx)
	if err != nil {
		return err
	}
	if _, ok := profiles[email]; !ok {
		return nil
	}
	delete(profiles, email)
	return save(ctx, p.store, KeyProfiles, profiles)
}

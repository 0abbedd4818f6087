package account

import (
	"encoding/json"
	"slices"
	"time"
)

// User is a registered account. Email is the identity and the foreign key
// into the profile and purchase mappings.
type User struct {
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// PersonalInfo is the "personalInfo" section of a profile.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Newsletter frequencies accepted in Preferences.
const (
	NewsletterNone      = "none"
	NewsletterWeekly    = "weekly"
	NewsletterMonthly   = "monthly"
	NewsletterQuarterly = "quarterly"
)

var newsletterOptions = []string{NewsletterNone, NewsletterWeekly, NewsletterMonthly, NewsletterQuarterly}

// Preferences is the "preferences" section of a profile. FavoriteBrands is a
// set; saving drops duplicates while keeping first-seen order.
type Preferences struct {
	FavoriteBrands     []string `json:"favoriteBrands"`
	Newsletter         string   `json:"newsletter"`
	EventNotifications bool     `json:"eventNotifications"`
}

type EmailNotifications struct {
	Purchase   bool `json:"purchase"`
	Shipping   bool `json:"shipping"`
	Promotions bool `json:"promotions"`
	Events     bool `json:"events"`
}

type PushNotifications struct {
	NewCars     bool `json:"new_cars"`
	PriceDrops  bool `json:"price_drops"`
	Maintenance bool `json:"maintenance"`
}

// Notifications is the "notifications" section of a profile.
type Notifications struct {
	Email EmailNotifications `json:"email"`
	Push  PushNotifications  `json:"push"`
}

// Profile is the per-user settings document.
type Profile struct {
	PersonalInfo  PersonalInfo  `json:"personalInfo"`
	Preferences   Preferences   `json:"preferences"`
	Notifications Notifications `json:"notifications"`
}

// DefaultProfile is the document a user has before saving any section.
func DefaultProfile(u User) Profile {
	return Profile{
		PersonalInfo: PersonalInfo{FullName: u.FullName, Email: u.Email},
		Preferences:  DefaultPreferences(),
		Notifications: Notifications{
			Email: EmailNotifications{Purchase: true, Shipping: true, Promotions: false, Events: true},
			Push:  PushNotifications{NewCars: true, PriceDrops: false, Maintenance: false},
		},
	}
}

func DefaultPreferences() Preferences {
	return Preferences{FavoriteBrands: []string{}, Newsletter: NewsletterMonthly, EventNotifications: true}
}

// UnmarshalJSON fills fields missing from the stored document with the
// defaults from DefaultProfile.
func (p *Profile) UnmarshalJSON(b []byte) error {
	type plain Profile
	v := plain(DefaultProfile(User{}))
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Profile(v)
	p.Preferences = p.Preferences.normalized()
	return nil
}

func (p Preferences) normalized() Preferences {
	brands := make([]string, 0, len(p.FavoriteBrands))
	for _, b := range p.FavoriteBrands {
		if b == "" || slices.Contains(brands, b) {
			continue
		}
		brands = append(brands, b)
	}
	p.FavoriteBrands = brands
	if p.Newsletter == "" {
		p.Newsletter = NewsletterMonthly
	}
	return p
}

// Purchase is an entry written by the checkout flow. The account core only
// moves and deletes purchases, so the record is kept verbatim.
type Purchase = json.RawMessage

// ExportedUser is the user record as it appears in an export: everything
// except the password.
type ExportedUser struct {
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Export is the document handed to the user by the data export.
type Export struct {
	UserInfo   ExportedUser `json:"userInfo"`
	Profile    Profile      `json:"profile"`
	Purchases  []Purchase   `json:"purchases"`
	ExportDate time.Time    `json:"exportDate"`
}

package account

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/jdmshowroom/internal/cryptox"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr error
	}{
		{
			name:    "mismatch",
			req:     SignupRequest{FullName: "Jane", Email: "jane@x.com", Password: "abcdef", ConfirmPassword: "abcdeg"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "too short with matching confirmation",
			req:     SignupRequest{FullName: "Jane", Email: "jane@x.com", Password: "abcde", ConfirmPassword: "abcde"},
			wantErr: ErrPasswordTooShort,
		},
		{
			name:    "too short and mismatched",
			req:     SignupRequest{FullName: "Jane", Email: "jane@x.com", Password: "abc", ConfirmPassword: "abd"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "empty email",
			req:     SignupRequest{FullName: "Jane", Password: "abcdef", ConfirmPassword: "abcdef"},
			wantErr: ErrEmailRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newTestService(t)

			u, err := svc.Signup(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, ErrValidation)
			require.Nil(t, u)
			require.Empty(t, storedUsers(t, st))
			require.Nil(t, rawKey(t, st, KeyLoggedIn))
		})
	}
}

func TestSignup_DuplicateEmailRejected(t *testing.T) {
	svc, st := newTestService(t)
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	_, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Other", Email: "jane@x.com", Password: "123456", ConfirmPassword: "123456",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.ErrorIs(t, err, ErrValidation)
	require.Len(t, storedUsers(t, st), 1)

	// emails are case-sensitive
	signup(t, svc, "Jane Upper", "Jane@x.com", "abcdef")
	require.Len(t, storedUsers(t, st), 2)
}

func TestSignup_Success(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	u := signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")
	require.Equal(t, fixedNow, u.CreatedAt)

	users := storedUsers(t, st)
	require.Len(t, users, 1)
	assert.Equal(t, "jane@x.com", users[0].Email)
	assert.Equal(t, "Jane Doe", users[0].FullName)
	assert.Equal(t, "abcdef", users[0].Password)

	assert.Equal(t, "true", string(rawKey(t, st, KeyLoggedIn)))

	cur, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "jane@x.com", cur.Email)

	ok, err := svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignup_CreatedAtIsISO8601(t *testing.T) {
	svc, st := newTestService(t)
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rawKey(t, st, KeyUsers), &raw))
	require.Equal(t, "2025-03-14T09:26:53.589Z", raw[0]["createdAt"])
}

func TestLoginLogout(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, "false", string(rawKey(t, st, KeyLoggedIn)))
	assert.Nil(t, rawKey(t, st, KeyCurrentUser))

	_, err := svc.Login(ctx, "jane@x.com", "wrong!")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, ErrAuth)

	_, err = svc.Login(ctx, "nobody@x.com", "abcdef")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := svc.Login(ctx, "jane@x.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.FullName)

	got, err := svc.RequireAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", got.Email)
}

func TestRequireAuth_NotLoggedIn(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RequireAuth(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	require.ErrorIs(t, err, ErrAuth)
}

func TestProfile_DefaultsAreNotPersisted(t *testing.T) {
	svc, st := newTestService(t)
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	p, err := svc.Profile(context.Background())
	require.NoError(t, err)

	want := Profile{
		PersonalInfo: PersonalInfo{FullName: "Jane Doe", Email: "jane@x.com"},
		Preferences:  Preferences{FavoriteBrands: []string{}, Newsletter: "monthly", EventNotifications: true},
		Notifications: Notifications{
			Email: EmailNotifications{Purchase: true, Shipping: true, Promotions: false, Events: true},
			Push:  PushNotifications{NewCars: true},
		},
	}
	require.Empty(t, cmp.Diff(want, p))
	require.Nil(t, rawKey(t, st, KeyProfiles))
}

func TestSavePreferences_RoundTripLeavesOtherSections(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	before, err := svc.Profile(ctx)
	require.NoError(t, err)

	prefs := Preferences{FavoriteBrands: []string{"nissan", "toyota", "nissan"}, Newsletter: "weekly", EventNotifications: false}
	require.NoError(t, svc.SavePreferences(ctx, prefs))

	after, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, Preferences{FavoriteBrands: []string{"nissan", "toyota"}, Newsletter: "weekly"}, after.Preferences)
	assert.Equal(t, before.PersonalInfo, after.PersonalInfo)
	assert.Equal(t, before.Notifications, after.Notifications)

	profiles := storedMap[Profile](t, st, KeyProfiles)
	require.Contains(t, profiles, "jane@x.com")
}

func TestSavePreferences_RejectsUnknownNewsletter(t *testing.T) {
	svc, st := newTestService(t)
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	err := svc.SavePreferences(context.Background(), Preferences{Newsletter: "hourly"})
	require.ErrorIs(t, err, ErrInvalidNewsletter)
	require.Nil(t, rawKey(t, st, KeyProfiles))
}

func TestSaveNotifications_ReplacesWholeSection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	n := Notifications{Email: EmailNotifications{Promotions: true}, Push: PushNotifications{Maintenance: true}}
	require.NoError(t, svc.SaveNotifications(ctx, n))

	p, err := svc.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, n, p.Notifications)
	require.Equal(t, DefaultPreferences(), p.Preferences)
}

func TestSaveSection_RequiresLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.SaveNotifications(ctx, Notifications{}), ErrNotLoggedIn)
	require.ErrorIs(t, svc.SavePreferences(ctx, Preferences{}), ErrNotLoggedIn)
	require.ErrorIs(t, svc.SavePersonalInfo(ctx, PersonalInfo{}), ErrNotLoggedIn)
}

func TestChangePassword(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	err := svc.ChangePassword(ctx, PasswordChange{Current: "nope!!", New: "123456", Confirm: "123456"})
	require.ErrorIs(t, err, ErrWrongPassword)
	require.ErrorIs(t, err, ErrAuth)
	require.Equal(t, "abcdef", storedUsers(t, st)[0].Password)

	require.ErrorIs(t, svc.ChangePassword(ctx, PasswordChange{New: "123456", Confirm: "123456"}), ErrCurrentPasswordRequired)
	require.ErrorIs(t, svc.ChangePassword(ctx, PasswordChange{Current: "abcdef", New: "123456", Confirm: "654321"}), ErrNewPasswordMismatch)
	require.ErrorIs(t, svc.ChangePassword(ctx, PasswordChange{Current: "abcdef", New: "123", Confirm: "123"}), ErrNewPasswordTooShort)

	require.NoError(t, svc.ChangePassword(ctx, PasswordChange{Current: "abcdef", New: "123456", Confirm: "123456"}))
	require.Equal(t, "123456", storedUsers(t, st)[0].Password)

	cur, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "123456", cur.Password, "session copy follows the registry")
}

func TestChangePassword_HashedScheme(t *testing.T) {
	svc, st := newTestService(t, WithPasswordScheme(cryptox.SchemeArgon2id))
	ctx := context.Background()
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")

	stored := storedUsers(t, st)[0].Password
	require.Equal(t, cryptox.SchemeArgon2id, cryptox.SchemeOf(stored))
	require.NotContains(t, stored, "abcdef")

	require.NoError(t, svc.ChangePassword(ctx, PasswordChange{Current: "abcdef", New: "zyxwvu", Confirm: "zyxwvu"}))
	require.NoError(t, svc.Logout(ctx))

	_, err := svc.Login(ctx, "jane@x.com", "abcdef")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "jane@x.com", "zyxwvu")
	require.NoError(t, err)
}

func TestChangeEmail_CascadesAcrossStores(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Alice", "a@x.com", "abcdef")
	require.NoError(t, svc.SavePreferences(ctx, Preferences{FavoriteBrands: []string{"mazda"}, Newsletter: "none"}))
	require.NoError(t, svc.RecordPurchase(ctx, map[string]any{"car": "RX-7", "price": 42000}))

	u, err := svc.ChangeEmail(ctx, "b@x.com")
	require.NoError(t, err)
	require.Equal(t, "b@x.com", u.Email)

	users := storedUsers(t, st)
	require.Len(t, users, 1)
	assert.Equal(t, "b@x.com", users[0].Email)

	profiles := storedMap[Profile](t, st, KeyProfiles)
	assert.NotContains(t, profiles, "a@x.com")
	require.Contains(t, profiles, "b@x.com")
	assert.Equal(t, []string{"mazda"}, profiles["b@x.com"].Preferences.FavoriteBrands)
	assert.Equal(t, "b@x.com", profiles["b@x.com"].PersonalInfo.Email)

	purchases := storedMap[[]json.RawMessage](t, st, KeyPurchases)
	assert.NotContains(t, purchases, "a@x.com")
	require.Len(t, purchases["b@x.com"], 1)
	assert.JSONEq(t, `{"car":"RX-7","price":42000}`, string(purchases["b@x.com"][0]))

	cur, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", cur.Email)
}

func TestChangeEmail_TakenEmailRejected(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Bob", "b@x.com", "abcdef")
	signup(t, svc, "Alice", "a@x.com", "abcdef")

	_, err := svc.ChangeEmail(ctx, "b@x.com")
	require.ErrorIs(t, err, ErrEmailTaken)

	cur, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", cur.Email)
	require.Len(t, storedUsers(t, st), 2)
}

func TestSavePersonalInfo_EmailChangeLandsUnderNewKey(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Alice", "a@x.com", "abcdef")
	require.NoError(t, svc.RecordPurchase(ctx, map[string]string{"car": "Supra"}))

	info := PersonalInfo{FullName: "Alice Smith", Email: "b@x.com", Phone: "555-0100", Address: "1 Main St"}
	require.NoError(t, svc.SavePersonalInfo(ctx, info))

	profiles := storedMap[Profile](t, st, KeyProfiles)
	require.NotContains(t, profiles, "a@x.com")
	require.Equal(t, info, profiles["b@x.com"].PersonalInfo)

	purchases, err := svc.Purchases(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 1)

	require.Equal(t, "b@x.com", storedUsers(t, st)[0].Email)
}

func TestChangeEmail_FailureLeavesStoresUntouched(t *testing.T) {
	mem := storage.NewMemoryStore()
	seed := NewService(mem)
	ctx := context.Background()
	signup(t, seed, "Alice", "a@x.com", "abcdef")
	require.NoError(t, seed.SavePreferences(ctx, DefaultPreferences()))
	require.NoError(t, seed.RecordPurchase(ctx, map[string]string{"car": "NSX"}))

	snapshot := map[string][]byte{}
	for _, k := range mem.Keys() {
		snapshot[k] = rawKey(t, mem, k)
	}

	svc := NewService(&failingStore{Transactor: mem, failKey: KeyPurchases})
	_, err := svc.ChangeEmail(ctx, "b@x.com")
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, errInjected)

	for k, v := range snapshot {
		require.Equal(t, string(v), string(rawKey(t, mem, k)), k)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Other", "other@x.com", "abcdef")
	require.NoError(t, svc.SavePreferences(ctx, DefaultPreferences()))
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")
	require.NoError(t, svc.SavePreferences(ctx, DefaultPreferences()))
	require.NoError(t, svc.RecordPurchase(ctx, map[string]string{"car": "GT-R"}))

	require.ErrorIs(t, svc.DeleteAccount(ctx, "delete"), ErrConfirmation)
	require.Len(t, storedUsers(t, st), 2)

	require.NoError(t, svc.DeleteAccount(ctx, DeleteConfirmation))

	users := storedUsers(t, st)
	require.Len(t, users, 1)
	assert.Equal(t, "other@x.com", users[0].Email)

	profiles := storedMap[Profile](t, st, KeyProfiles)
	assert.NotContains(t, profiles, "jane@x.com")
	assert.Contains(t, profiles, "other@x.com")
	assert.NotContains(t, storedMap[[]json.RawMessage](t, st, KeyPurchases), "jane@x.com")

	assert.Equal(t, "false", string(rawKey(t, st, KeyLoggedIn)))
	assert.Nil(t, rawKey(t, st, KeyCurrentUser))

	require.ErrorIs(t, svc.DeleteAccount(ctx, DeleteConfirmation), ErrNotLoggedIn)
}

func TestDeleteAccount_FailureKeepsAccount(t *testing.T) {
	mem := storage.NewMemoryStore()
	ctx := context.Background()
	signup(t, NewService(mem), "Jane Doe", "jane@x.com", "abcdef")
	require.NoError(t, NewService(mem).SavePreferences(ctx, DefaultPreferences()))

	svc := NewService(&failingStore{Transactor: mem, failKey: KeyProfiles})
	require.ErrorIs(t, svc.DeleteAccount(ctx, DeleteConfirmation), ErrStorage)

	require.Len(t, storedUsers(t, mem), 1)
	require.Equal(t, "true", string(rawKey(t, mem, KeyLoggedIn)))
}

func TestExport(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "Jane Doe", "jane@x.com", "abcdef")
	require.NoError(t, svc.RecordPurchase(ctx, map[string]string{"car": "Skyline"}))
	before := st.Keys()

	exp, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExportedUser{FullName: "Jane Doe", Email: "jane@x.com", CreatedAt: fixedNow}, exp.UserInfo)
	assert.Equal(t, DefaultProfile(User{FullName: "Jane Doe", Email: "jane@x.com"}), exp.Profile)
	assert.Len(t, exp.Purchases, 1)
	assert.Equal(t, fixedNow, exp.ExportDate)
	assert.Equal(t, before, st.Keys(), "export writes nothing")

	b, err := json.Marshal(exp)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "abcdef")
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@x.com", "jdm-classic-data-jane@x.com-1741944413589.json"},
		{"a/b@x.com", "jdm-classic-data-a_b@x.com-1741944413589.json"},
		{`a\b@x.com`, "jdm-classic-data-a_b@x.com-1741944413589.json"},
		{"x/../../pwned", "jdm-classic-data-x_____pwned-1741944413589.json"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := ExportFileName(tt.email, fixedNow)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, filepath.Base(got))
		})
	}
}

func TestPasswordLength_CountsUTF16Units(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()

	assert.Equal(t, 6, passwordLength("😀😀😀"))
	assert.Equal(t, 5, passwordLength("ab😀c"))

	_, err := svc.Signup(ctx, SignupRequest{FullName: "Emoji", Email: "e@x.com", Password: "😀😀😀", ConfirmPassword: "😀😀😀"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{FullName: "Short", Email: "s@x.com", Password: "ab😀c", ConfirmPassword: "ab😀c"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestPurchases_SignedOutIsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Purchases(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Empty(t, p)
}

func TestService_OnSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := storage.Open(ctx, storage.DialectSQLite, ":memory:")
	require.NoError(t, err)
	defer st.Close()

	svc := NewService(st)
	signup(t, svc, "Alice", "a@x.com", "abcdef")
	require.NoError(t, svc.RecordPurchase(ctx, map[string]string{"car": "S2000"}))

	_, err = svc.ChangeEmail(ctx, "b@x.com")
	require.NoError(t, err)

	cur, err := svc.RequireAuth(ctx)
	require.NoError(t, err)
	require.Equal(t, "b@x.com", cur.Email)

	p, err := svc.Purchases(ctx)
	require.NoError(t, err)
	require.Len(t, p, 1)

	require.NoError(t, svc.DeleteAccount(ctx, DeleteConfirmation))
	ok, err := svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Passwords do not match!", Message(ErrPasswordMismatch))
	assert.Equal(t, "Could not access local storage. Please try again.", Message(storageError(errInjected)))
	assert.Contains(t, Message(errInjected), "injected write failure")
}

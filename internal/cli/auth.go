package cli

import (
	"context"

	"github.com/dmitrijs2005/jdmshowroom/internal/account"
)

// Signup asks for name, email and password (twice), creates the account
// and signs it in.
func (a *App) Signup(ctx context.Context) error {
	var req account.SignupRequest
	var err error

	if req.FullName, err = GetSimpleText(a.reader, "Full name", a.out); err != nil {
		return a.fail(err)
	}
	if req.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return a.fail(err)
	}
	if req.Password, err = GetPassword(a.reader, "Password", a.out); err != nil {
		return a.fail(err)
	}
	if req.ConfirmPassword, err = GetPassword(a.reader, "Confirm password", a.out); err != nil {
		return a.fail(err)
	}

	u, err := a.svc.Signup(ctx, req)
	if err != nil {
		return a.fail(err)
	}
	return a.ok("Account created! Welcome to JDM Classic, %s.", u.FullName)
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return a.fail(err)
	}

	u, err := a.svc.Login(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}
	return a.ok("Login successful! Welcome back, %s.", u.FullName)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Logout(ctx); err != nil {
		return a.fail(err)
	}
	return a.ok("You have been logged out.")
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.svc.CurrentUser(ctx)
	if err != nil {
		return a.fail(err)
	}
	if u == nil || !a.isLoggedIn(ctx) {
		return a.ok("Not logged in.")
	}
	return a.ok("%s <%s>, member since %s", u.FullName, u.Email, u.CreatedAt.Format("2006-01-02"))
}

package cli

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/jdmshowroom/internal/account"
	"github.com/dmitrijs2005/jdmshowroom/internal/filex"
)

func (a *App) ChangeEmail(ctx context.Context) error {
	u, err := a.svc.RequireAuth(ctx)
	if err != nil {
		return a.fail(err)
	}

	email, err := GetTextOr(a.reader, "New email", u.Email, a.out)
	if err != nil {
		return a.fail(err)
	}

	renamed, err := a.svc.ChangeEmail(ctx, email)
	if err != nil {
		return a.fail(err)
	}
	return a.ok("Email updated to %s.", renamed.Email)
}

func (a *App) ChangePassword(ctx context.Context) error {
	if _, err := a.svc.RequireAuth(ctx); err != nil {
		return a.fail(err)
	}

	var req account.PasswordChange
	var err error
	if req.Current, err = GetPassword(a.reader, "Current password", a.out); err != nil {
		return a.fail(err)
	}
	if req.New, err = GetPassword(a.reader, "New password", a.out); err != nil {
		return a.fail(err)
	}
	if req.Confirm, err = GetPassword(a.reader, "Confirm new password", a.out); err != nil {
		return a.fail(err)
	}

	if err := a.svc.ChangePassword(ctx, req); err != nil {
		return a.fail(err)
	}
	return a.ok("Password updated successfully!")
}

func (a *App) Purchases(ctx context.Context) error {
	if _, err := a.svc.RequireAuth(ctx); err != nil {
		return a.fail(err)
	}

	purchases, err := a.svc.Purchases(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(purchases) == 0 {
		return a.ok("No purchases yet.")
	}
	for i, p := range purchases {
		a.ok("%d. %s", i+1, p)
	}
	return nil
}

// Export writes the account data, pretty-printed, to the export directory.
func (a *App) Export(ctx context.Context) error {
	exp, err := a.svc.Export(ctx)
	if err != nil {
		return a.fail(err)
	}

	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return a.fail(err)
	}

	name := account.ExportFileName(exp.UserInfo.Email, exp.ExportDate)
	path, err := filex.WriteFile(a.config.ExportDir, name, data)
	if err != nil {
		a.log.Error(ctx, "export failed", "error", err)
		return a.fail(err)
	}
	a.log.Info(ctx, "export written", "path", path)
	return a.ok("Data exported to %s", path)
}

func (a *App) DeleteAccount(ctx context.Context) error {
	if _, err := a.svc.RequireAuth(ctx); err != nil {
		return a.fail(err)
	}

	confirm, err := GetSimpleText(a.reader, "This cannot be undone. Type DELETE to confirm", a.out)
	if err != nil {
		return a.fail(err)
	}

	if err := a.svc.DeleteAccount(ctx, confirm); err != nil {
		return a.fail(err)
	}
	return a.ok("Your account has been deleted.")
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jdmshowroom/internal/account"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (a *App) ShowProfile(ctx context.Context) error {
	p, err := a.svc.Profile(ctx)
	if err != nil {
		return a.fail(err)
	}

	pi, pr, n := p.PersonalInfo, p.Preferences, p.Notifications
	fmt.Fprintln(a.out, "Personal info")
	fmt.Fprintf(a.out, "  Full name: %s\n  Email:     %s\n  Phone:     %s\n  Address:   %s\n",
		pi.FullName, pi.Email, pi.Phone, pi.Address)
	fmt.Fprintln(a.out, "Preferences")
	fmt.Fprintf(a.out, "  Favorite brands:     %s\n  Newsletter:          %s\n  Event notifications: %s\n",
		strings.Join(pr.FavoriteBrands, ", "), pr.Newsletter, yesNo(pr.EventNotifications))
	fmt.Fprintln(a.out, "Notifications")
	fmt.Fprintf(a.out, "  Email: purchase=%s shipping=%s promotions=%s events=%s\n",
		yesNo(n.Email.Purchase), yesNo(n.Email.Shipping), yesNo(n.Email.Promotions), yesNo(n.Email.Events))
	fmt.Fprintf(a.out, "  Push:  new_cars=%s price_drops=%s maintenance=%s\n",
		yesNo(n.Push.NewCars), yesNo(n.Push.PriceDrops), yesNo(n.Push.Maintenance))
	return nil
}

// EditPersonalInfo edits the personal info section. Entering a different
// email renames the account.
func (a *App) EditPersonalInfo(ctx context.Context) error {
	p, err := a.svc.Profile(ctx)
	if err != nil {
		return a.fail(err)
	}

	info := p.PersonalInfo
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &info.FullName},
		{"Email", &info.Email},
		{"Phone", &info.Phone},
		{"Address", &info.Address},
	}
	for _, f := range fields {
		if *f.dst, err = GetTextOr(a.reader, f.prompt, *f.dst, a.out); err != nil {
			return a.fail(err)
		}
	}

	if err := a.svc.SavePersonalInfo(ctx, info); err != nil {
		return a.fail(err)
	}
	return a.ok("Personal information updated successfully!")
}

func (a *App) EditPreferences(ctx context.Context) error {
	p, err := a.svc.Profile(ctx)
	if err != nil {
		return a.fail(err)
	}

	prefs := p.Preferences
	if prefs.FavoriteBrands, err = GetList(a.reader, "Favorite brands", prefs.FavoriteBrands, a.out); err != nil {
		return a.fail(err)
	}
	prompt := fmt.Sprintf("Newsletter (%s)", strings.Join([]string{
		account.NewsletterNone, account.NewsletterWeekly, account.NewsletterMonthly, account.NewsletterQuarterly,
	}, "/"))
	if prefs.Newsletter, err = GetTextOr(a.reader, prompt, prefs.Newsletter, a.out); err != nil {
		return a.fail(err)
	}
	if prefs.EventNotifications, err = GetBool(a.reader, "Event notifications", prefs.EventNotifications, a.out); err != nil {
		return a.fail(err)
	}

	if err := a.svc.SavePreferences(ctx, prefs); err != nil {
		return a.fail(err)
	}
	return a.ok("Preferences saved successfully!")
}

func (a *App) EditNotifications(ctx context.Context) error {
	p, err := a.svc.Profile(ctx)
	if err != nil {
		return a.fail(err)
	}

	n := p.Notifications
	toggles := []struct {
		prompt string
		dst    *bool
	}{
		{"Email me about purchases", &n.Email.Purchase},
		{"Email me about shipping", &n.Email.Shipping},
		{"Email me promotions", &n.Email.Promotions},
		{"Email me about events", &n.Email.Events},
		{"Push: new cars", &n.Push.NewCars},
		{"Push: price drops", &n.Push.PriceDrops},
		{"Push: maintenance reminders", &n.Push.Maintenance},
	}
	for _, t := range toggles {
		if *t.dst, err = GetBool(a.reader, t.prompt, *t.dst, a.out); err != nil {
			return a.fail(err)
		}
	}

	if err := a.svc.SaveNotifications(ctx, n); err != nil {
		return a.fail(err)
	}
	return a.ok("Notification settings updated!")
}

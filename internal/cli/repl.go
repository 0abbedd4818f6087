package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	EditPersonalInfo(ctx context.Context) error
	EditPreferences(ctx context.Context) error
	EditNotifications(ctx context.Context) error
	ChangeEmail(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Purchases(ctx context.Context) error
	Export(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

const (
	guestHelp  = "Available commands: signup, login, whoami, help, exit"
	memberHelp = "Available commands: whoami, profile, personal, preferences, notifications, email, password, purchases, export, delete, logout, help, exit"
)

// runREPL reads commands from reader and dispatches them to a until the
// user types "exit" or "quit" or input ends. Handlers print their own
// notifications, so their errors are dropped here.
//
//	Signed out:
//	  - signup          create an account and sign in
//	  - login           sign in
//
//	Signed in:
//	  - profile         show the profile
//	  - personal        edit personal info (a new email renames the account)
//	  - preferences     edit brands, newsletter and event notifications
//	  - notifications   edit email and push notification toggles
//	  - email           change the account email
//	  - password        change the password
//	  - purchases       list purchases
//	  - export          write all account data to a JSON file
//	  - delete          delete the account (asks for DELETE)
//	  - logout          sign out
//
//	Always: whoami, help, exit | quit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("jdm %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(memberHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.ShowProfile(ctx)

		case "personal":
			_ = a.EditPersonalInfo(ctx)

		case "preferences":
			_ = a.EditPreferences(ctx)

		case "notifications":
			_ = a.EditNotifications(ctx)

		case "email":
			_ = a.ChangeEmail(ctx)

		case "password":
			_ = a.ChangePassword(ctx)

		case "purchases":
			_ = a.Purchases(ctx)

		case "export":
			_ = a.Export(ctx)

		case "delete":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

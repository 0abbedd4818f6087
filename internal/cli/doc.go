// Package cli is the interactive showroom account client.
//
// It wires configuration, the key-value store, the account service and a
// line-oriented REPL. Anonymous visitors can sign up or log in; signed-in
// users can edit the three profile sections, change email or password,
// list purchases, export their data to a JSON file and delete the account.
//
// Every command prints a notification: the success text or the message of
// the error returned by the account service. Errors never end the REPL.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli

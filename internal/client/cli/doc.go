// Package cli provides the interactive loadout command-line client.
//
// Commands:
//   - signup / login: prompt for credentials and keep the session token
//   - tokens: exchange the session token for an access/refresh pair
//   - refresh / logout / logoutall: rotate or revoke refresh tokens
//   - whoami / user <id> / grant <user-id> <permission>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

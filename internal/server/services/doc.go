// Package services contains server-side business logic: the credential
// service (signup, login, token issuance and rotation) and the identity
// resolver that turns a verified token into an active user.
package services

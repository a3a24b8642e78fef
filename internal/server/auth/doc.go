// Package auth holds the password hashing policy and the token issuer.
//
// Two claim shapes are issued and must stay distinct:
//
//	session  {id, role}  returned by signup and login
//	access   {sub}       short-lived, minted by the access/refresh flow
//
// Refresh tokens carry {sub} plus use=refresh so they cannot stand in for an
// access token.
package auth

package common

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer token.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token in the authorization metadata value.
const BearerPrefix = "Bearer "

// BotTokenHeaderName is an optional metadata key for the bot-check challenge
// token, used by clients that cannot put it into the request body.
const BotTokenHeaderName = "x-bot-token"

// ForwardedForHeaderName carries the original client address when the server
// runs behind a proxy.
const ForwardedForHeaderName = "x-forwarded-for"

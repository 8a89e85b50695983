// Package auth provides authentication for the reserveme API.
//
// # Authentication Flow
//
// Clients register or log in with email and password (bcrypt-hashed at rest)
// and receive an HS256-signed JWT access token plus a persisted refresh token.
// Every protected request carries the access token as a bearer credential; the
// middleware verifies it, loads the matching user, and attaches a Principal to
// the request context.
//
// # Principal System
//
// The Principal is request-scoped and carried via context.Context using
// WithPrincipal/FromContext. Handlers and the booking coordinator never read
// identity from anywhere else, so there is no ambient or global session state
// inside the engine.
//
// # Refresh Tokens
//
// Refresh tokens are opaque UUIDs stored server-side with an expiry. Redeeming
// one rotates it: the stored token is deleted and a new one is issued.
package auth

// Package auth implements the core of email/password authentication with
// rotatable refresh tokens: validation, duplicate detection, password
// hashing, token issuance, verification, and refresh.
//
// The orchestrator (Auther) consumes three collaborators it never
// implements itself: a UserStore (find by email, find by id, create), a
// PasswordAuthenticator (bcrypt by default), and a TokenService (HS256
// JWTs by default). Any conforming store plugs in without orchestrator
// changes; the store's Create MUST enforce email uniqueness, since the
// orchestrator's duplicate pre-check is advisory under concurrency.
//
// Refresh tokens carry the user's refresh token version. Bumping the
// stored version invalidates every outstanding refresh token for that
// user at once; there is no revocation list and no per-token invalidation.
// Refresh issues a new access token only, never a new refresh token.
//
// Known trade-off kept for compatibility: login distinguishes an unknown
// email (404) from a wrong password (401), which leaks account existence.
package auth

// Package auth provides pluggable authentication for the LightFlow
// serving surface.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as HTTP middleware, keeping it decoupled from the
// relay core. Only inbound callers are authenticated here; the relay's own
// outbound credential is plain configuration.
package auth

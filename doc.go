// Package authflow provides a pluggable local-authentication engine:
// credential registration, login, email/code verification, password reset,
// and role-gated route protection, issuing either bearer tokens or signed
// cookies.
//
// The package is middleware-shaped: each flow is exposed both as an [Engine]
// method and as a net/http middleware (see RegisterRoute, LoginRoute, and
// friends) that binds a literal path+method, runs an optional pre-check, the
// flow itself, and an optional post-hook that may replace the default
// response. Persistence is delegated to a caller-supplied
// [CredentialAdapter]; mail delivery to a [mail.Notifier].
//
// # Architecture boundaries
//
// authflow is the public surface. It exposes [Engine], [Builder], [Config],
// the adapter and notifier contracts, and the error taxonomy. Token signing
// lives in the token subpackage, the TTL code stores in codes, password
// hashing in password, and the request-stage composition in pipeline.
//
// # What this package must NOT do
//
//   - Store users directly; every read and write goes through the adapter.
//   - Assume an HTTP framework beyond net/http middleware composition.
//   - Let a mail failure after a committed adapter mutation fail the flow;
//     such failures are logged and the committed state stands.
package authflow

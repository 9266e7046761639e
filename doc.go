// Package identity is the account and authentication core of the insurance
// comparison site: credential registration and verification, administrator
// driven account lifecycle, session identity projection, and role-gated
// route authorization.
//
// Account lifecycle:
//   - Accounts carry a Status and Role persisted via Bun. Registration always
//     creates an active user account; role and status changes are reached only
//     through AccountManager, never self-service.
//   - Deactivation is not retroactive. A session issued before SetActive(id,
//     false) stays valid until its token expires; the flag blocks the next
//     authentication attempt, which is the documented contract.
//
// Sessions:
//   - CredentialVerifier proves a login id and password pair and returns a
//     VerifiedIdentity. Unknown identifier and wrong password are the same
//     error, with a dummy hash comparison keeping the two paths the same
//     shape.
//   - Projector copies the allow-listed display fields into a SessionIdentity
//     and picks the landing destination from the role alone. The projection
//     has no field that could hold the password hash or the national-ID
//     value.
//   - Gate evaluates an ordered table of route patterns against the current
//     session; paths matching no rule require authentication. The session is
//     passed explicitly through context (WithSession), never read from a
//     global.
package identity

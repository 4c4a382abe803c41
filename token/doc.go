// Package token signs and validates the identity artifact carried by
// authenticated requests.
//
// Two carrier methods are supported: [MethodBearer] issues an HS256 JWT
// returned in the response body and read back from the Authorization header,
// while [MethodCookie] writes the claim payload directly into a tamper-evident
// httpOnly cookie (base64 JSON plus an HMAC-SHA256 tag).
//
// # What this package must NOT do
//
//   - Persist tokens or consult any backing store during validation.
//   - Leak the reason a carrier failed beyond the exported sentinel errors.
package token

// Package password hashes and verifies credentials with argon2id.
//
// Hashes are stored in PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) so parameters travel with the
// hash and verification never consults engine configuration. Verify compares
// with constant-time equality.
package password

// Package codes implements the time-bounded single-use code stores backing
// email verification and password reset.
//
// A [Store] maps a subject key (user id or email) to one numeric code with a
// fixed TTL. Each purpose gets its own store instance so registration
// verification and password reset never share a namespace. [Store.Set]
// replaces any pending entry for the key; [Store.Consume] is an atomic
// compare-and-delete, so a code validates at most once.
//
// [MemoryStore] is the default single-process implementation.
// [RedisStore] serves multi-instance deployments.
package codes

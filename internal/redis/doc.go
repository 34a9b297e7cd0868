// Package redis provides the Redis-backed moderation state store and the
// shared client wiring (URL parsing, metrics hook, connection checks).
// Moderation state lives in Redis rather than Postgres so it survives
// restarts, is shared across replicas, and ages out on its own via TTLs.
package redis

// Package server provides the HTTP layer: route registration, request
// handlers, the per-IP submission rate limiter, and health endpoints.
// Handlers translate domain outcomes into structured API errors; they hold
// no business logic of their own.
package server

// Package domain holds the core model types and the interfaces the rest of
// the application is wired through. It has no dependencies on transport,
// storage, or external vendors.
package domain

// Package moderation implements the abuse guard: the per-author state
// machine that throttles rapid-fire and repeated-text submissions into a
// comment stream. The guard owns the author's warning count and cooldown
// deadline and is the only writer of that state.
package moderation

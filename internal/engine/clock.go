// Package engine orchestrates a run: seed through ledger writes, DAG
// commits, and artifact hashing, plus the replay protocol that
// reconstructs the same outputs from ledger records alone.
package engine

import "fmt"

// TokenClock issues deterministic ordering tokens of the form
// "<base>#NNNN". Tokens are ordering keys, never wall-clock
// timestamps, so a replayed run sees the exact same sequence.
type TokenClock struct {
	base string
	step int
}

// NewTokenClock creates a clock starting at step 0.
func NewTokenClock(base string) *TokenClock {
	return &TokenClock{base: base}
}

// Next returns the current token and advances the clock.
func (c *TokenClock) Next() string {
	ts := fmt.Sprintf("%s#%04d", c.base, c.step)
	c.step++
	return ts
}

// Step returns the number of tokens issued so far.
func (c *TokenClock) Step() int {
	return c.step
}

// Package config holds the small set of tunables the cryptographic core
// accepts from its embedder (spec §4.4, §9(c)): the skipped-message-key
// cache caps and the signed-prekey rotation grace window. The core itself
// never reads environment variables or files — callers build a Config and
// pass it in, the way the teacher's own configuration layer centralizes
// validation ahead of use.
package config

import (
	"fmt"
	"time"

	"github.com/jaydenbeard/styx-e2e/internal/ratchet"
)

// Config holds the tunables a caller may override when establishing
// ratchet sessions across an embedding application.
type Config struct {
	// MaxSkipPerChain bounds the number of message keys a single receiving
	// chain may skip ahead before a decrypt fails (spec §4.4).
	MaxSkipPerChain int
	// MaxSkipTotal bounds the total number of skipped keys retained across
	// a session, with oldest-first eviction once reached (spec §4.4).
	MaxSkipTotal int
	// SignedPrekeyGrace is how long a rotated-out signed prekey must
	// remain acceptable to absorb in-flight sessions (spec §3
	// "SignedPrekey" lifecycle). The core's X3DH layer does not enforce
	// this itself — it is a directory-level policy — but it is validated
	// here so every caller agrees on its meaning.
	SignedPrekeyGrace time.Duration
}

// DefaultConfig returns the tunables spec §4.4 mandates as defaults.
func DefaultConfig() Config {
	return Config{
		MaxSkipPerChain:   ratchet.DefaultMaxSkipPerChain,
		MaxSkipTotal:      ratchet.DefaultMaxSkipTotal,
		SignedPrekeyGrace: 7 * 24 * time.Hour,
	}
}

// Validate checks c for internally-consistent, positive tunables, in the
// same guard-function style the teacher validates its own config (spec
// §9's skip-cap and total-cap design notes).
func (c Config) Validate() error {
	if c.MaxSkipPerChain <= 0 {
		return fmt.Errorf("config: MaxSkipPerChain must be positive, got %d", c.MaxSkipPerChain)
	}
	if c.MaxSkipTotal <= 0 {
		return fmt.Errorf("config: MaxSkipTotal must be positive, got %d", c.MaxSkipTotal)
	}
	if c.MaxSkipPerChain > c.MaxSkipTotal {
		return fmt.Errorf("config: MaxSkipPerChain (%d) cannot exceed MaxSkipTotal (%d)", c.MaxSkipPerChain, c.MaxSkipTotal)
	}
	if c.SignedPrekeyGrace < 0 {
		return fmt.Errorf("config: SignedPrekeyGrace cannot be negative, got %s", c.SignedPrekeyGrace)
	}
	return nil
}

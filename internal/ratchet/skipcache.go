package ratchet

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// skipKey identifies one skipped message key by the chain it belongs to
// (the remote ratchet public key in effect when it was skipped) and its
// position within that chain (spec §4.4 "skipped message keys").
type skipKey struct {
	dh [primitives.X25519KeySize]byte
	n  uint32
}

// skipCache is a bounded, insertion-ordered store of skipped-over message
// keys, enforcing both a per-chain cap and a total cap (spec §4.4, §9(c)):
// at most maxPerChain keys may be outstanding for any one chain, and at
// most maxTotal across the whole session. When the total cap is reached,
// the oldest entry (by insertion order, across all chains) is evicted to
// make room — a single global cap, not a per-chain quota scheme.
type skipCache struct {
	maxPerChain int
	maxTotal    int

	entries       map[skipKey][32]byte
	order         []skipKey
	perChainCount map[[primitives.X25519KeySize]byte]int
}

func newSkipCache(maxPerChain, maxTotal int) *skipCache {
	return &skipCache{
		maxPerChain:   maxPerChain,
		maxTotal:      maxTotal,
		entries:       make(map[skipKey][32]byte),
		perChainCount: make(map[[primitives.X25519KeySize]byte]int),
	}
}

// wouldExceedPerChain reports whether storing `count` additional keys for
// chain dh would exceed this cache's per-chain cap.
func (c *skipCache) wouldExceedPerChain(dh [primitives.X25519KeySize]byte, count int) bool {
	return c.perChainCount[dh]+count > c.maxPerChain
}

func (c *skipCache) put(dh [primitives.X25519KeySize]byte, n uint32, messageKey [32]byte) {
	k := skipKey{dh: dh, n: n}
	if _, exists := c.entries[k]; exists {
		return
	}
	if len(c.order) >= c.maxTotal {
		c.evictOldest()
	}
	c.entries[k] = messageKey
	c.order = append(c.order, k)
	c.perChainCount[dh]++
}

// take returns and removes the message key for (dh, n), if present.
// Skipped keys are single-use (spec §4.4).
func (c *skipCache) take(dh [primitives.X25519KeySize]byte, n uint32) ([32]byte, bool) {
	k := skipKey{dh: dh, n: n}
	mk, ok := c.entries[k]
	if !ok {
		return [32]byte{}, false
	}
	delete(c.entries, k)
	c.perChainCount[dh]--
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return mk, true
}

func (c *skipCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
	c.perChainCount[oldest.dh]--
}

// clone returns a deep copy, used to support all-or-nothing Decrypt
// semantics (spec §7): speculative mutations happen on a clone and are
// only adopted if the message ultimately authenticates.
func (c *skipCache) clone() *skipCache {
	out := newSkipCache(c.maxPerChain, c.maxTotal)
	for k, v := range c.entries {
		out.entries[k] = v
	}
	out.order = append([]skipKey(nil), c.order...)
	for k, v := range c.perChainCount {
		out.perChainCount[k] = v
	}
	return out
}

func (c *skipCache) zeroize() {
	for k, v := range c.entries {
		mk := v
		primitives.Zeroize(mk[:])
		delete(c.entries, k)
	}
	c.order = nil
	c.perChainCount = make(map[[primitives.X25519KeySize]byte]int)
}

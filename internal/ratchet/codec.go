package ratchet

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// stateVersion1 is the only recognized Export/Import wire version.
const stateVersion1 = 1

// Export serializes the full session state into the canonical versioned
// envelope from spec §6 "SessionState (wire)", including any outstanding
// skipped message keys, so a session can be persisted and resumed across
// restarts without losing out-of-order delivery tolerance.
func (s *State) Export() []byte {
	out := []byte{stateVersion1}
	out = append(out, s.rootKey[:]...)
	out = append(out, s.dhSelf.Private[:]...)
	out = append(out, s.dhSelf.Public[:]...)

	out = appendOptionalKey32(out, s.dhPeer)
	out = appendFixedKey32(out, s.ckSend)
	out = appendFixedKey32(out, s.ckRecv)

	out = primitives.PutUint32BE(out, s.ns)
	out = primitives.PutUint32BE(out, s.nr)
	out = primitives.PutUint32BE(out, s.pn)

	out = primitives.PutUint32BE(out, uint32(len(s.skipped.order)))
	for _, k := range s.skipped.order {
		mk := s.skipped.entries[k]
		out = append(out, k.dh[:]...)
		out = primitives.PutUint32BE(out, k.n)
		out = append(out, mk[:]...)
	}
	return out
}

// Import parses an Export envelope back into a usable session. The
// skipped-key cache is rebuilt with the caps given, which need not match
// the caps in effect when the state was exported.
func Import(data []byte, maxSkipPerChain, maxSkipTotal int) (*State, error) {
	if len(data) < 1 || data[0] != stateVersion1 {
		return nil, ErrStateVersionUnsupported
	}
	off := 1

	need := func(n int) bool { return len(data)-off >= n }

	if !need(32 + primitives.X25519KeySize*2) {
		return nil, ErrHeaderMalformed
	}
	s := &State{skipped: newSkipCache(maxSkipPerChain, maxSkipTotal)}
	copy(s.rootKey[:], data[off:])
	off += 32
	copy(s.dhSelf.Private[:], data[off:])
	off += primitives.X25519KeySize
	copy(s.dhSelf.Public[:], data[off:])
	off += primitives.X25519KeySize

	dhPeer, n, err := readOptionalKey32(data, off)
	if err != nil {
		return nil, err
	}
	s.dhPeer = dhPeer
	off = n

	ckSend, n, err := readFixedKey32(data, off)
	if err != nil {
		return nil, err
	}
	s.ckSend = ckSend
	off = n

	ckRecv, n, err := readFixedKey32(data, off)
	if err != nil {
		return nil, err
	}
	s.ckRecv = ckRecv
	off = n

	if !need(12) {
		return nil, ErrHeaderMalformed
	}
	ns, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return nil, err
	}
	s.ns = ns
	off += 4
	nr, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return nil, err
	}
	s.nr = nr
	off += 4
	pn, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return nil, err
	}
	s.pn = pn
	off += 4

	if !need(4) {
		return nil, ErrHeaderMalformed
	}
	count, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return nil, err
	}
	off += 4

	for i := uint32(0); i < count; i++ {
		if !need(primitives.X25519KeySize + 4 + 32) {
			return nil, ErrHeaderMalformed
		}
		var dh [primitives.X25519KeySize]byte
		copy(dh[:], data[off:])
		off += primitives.X25519KeySize
		kn, err := primitives.Uint32BE(data[off:])
		if err != nil {
			return nil, err
		}
		off += 4
		var mk [32]byte
		copy(mk[:], data[off:])
		off += 32
		s.skipped.put(dh, kn, mk)
	}

	return s, nil
}

func appendOptionalKey32(out []byte, k *[primitives.X25519KeySize]byte) []byte {
	if k == nil {
		return append(out, 0)
	}
	out = append(out, 1)
	return append(out, k[:]...)
}

// appendFixedKey32 writes a chain key as an always-present 32-byte field
// (spec §6): a nil chain key is zero-filled rather than presence-prefixed,
// since a chain key's absence is distinguished by session phase, not by the
// wire encoding.
func appendFixedKey32(out []byte, k *[32]byte) []byte {
	var zero [32]byte
	if k == nil {
		return append(out, zero[:]...)
	}
	return append(out, k[:]...)
}

// readFixedKey32 reads a 32-byte chain key field, treating an all-zero
// field as absent (spec §6).
func readFixedKey32(data []byte, off int) (*[32]byte, int, error) {
	if len(data)-off < 32 {
		return nil, off, ErrHeaderMalformed
	}
	var k [32]byte
	copy(k[:], data[off:off+32])
	off += 32
	if k == ([32]byte{}) {
		return nil, off, nil
	}
	return &k, off, nil
}

func readOptionalKey32(data []byte, off int) (*[primitives.X25519KeySize]byte, int, error) {
	if len(data)-off < 1 {
		return nil, off, ErrHeaderMalformed
	}
	present := data[off]
	off++
	if present == 0 {
		return nil, off, nil
	}
	if len(data)-off < primitives.X25519KeySize {
		return nil, off, ErrHeaderMalformed
	}
	var k [primitives.X25519KeySize]byte
	copy(k[:], data[off:])
	return &k, off + primitives.X25519KeySize, nil
}

// Equal reports whether s and other hold identical session state, using
// constant-time comparison for secret material (spec §6).
func (s *State) Equal(other *State) bool {
	if other == nil {
		return false
	}
	if !primitives.CtEqual(s.dhSelf.Private[:], other.dhSelf.Private[:]) {
		return false
	}
	if s.dhSelf.Public != other.dhSelf.Public {
		return false
	}
	if !optionalKeyEqual(s.dhPeer, other.dhPeer) {
		return false
	}
	if !primitives.CtEqual(s.rootKey[:], other.rootKey[:]) {
		return false
	}
	if !optionalKeyEqual(s.ckSend, other.ckSend) {
		return false
	}
	if !optionalKeyEqual(s.ckRecv, other.ckRecv) {
		return false
	}
	if len(s.skipped.order) != len(other.skipped.order) {
		return false
	}
	for i, k := range s.skipped.order {
		if other.skipped.order[i] != k {
			return false
		}
		a, b := s.skipped.entries[k], other.skipped.entries[k]
		if !primitives.CtEqual(a[:], b[:]) {
			return false
		}
	}
	return s.ns == other.ns && s.nr == other.nr && s.pn == other.pn
}

func optionalKeyEqual(a, b *[primitives.X25519KeySize]byte) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return primitives.CtEqual(a[:], b[:])
}

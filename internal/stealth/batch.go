package stealth

import (
	"time"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// BatchCounters summarizes a BatchScan run, per spec §4.5 "Scanner
// contract".
type BatchCounters struct {
	Total                   int
	RejectedByTag           int
	PassedTagConfirmed      int
	PassedTagFalsePositive  int
	Elapsed                 time.Duration
}

// BatchScan scans a batch of announcements for matches against one
// recipient, in O(N) time with no quadratic blowup (spec §4.5 "Scanner
// contract"). It returns the indices of confirmed matches and the
// counters describing how the batch was disposed of.
func BatchScan(viewingPriv, spendingPub [primitives.X25519KeySize]byte, announcements []Announcement) ([]int, BatchCounters, error) {
	start := time.Now()
	counters := BatchCounters{Total: len(announcements)}
	var matches []int

	for i, ann := range announcements {
		shared, err := primitives.X25519DH(viewingPriv, ann.EphemeralPub)
		if err != nil {
			return nil, counters, err
		}

		if viewTag(shared) != ann.ViewTag {
			counters.RejectedByTag++
			continue
		}

		seed := stealthSeed(spendingPub, shared)
		candidate, err := oneTimeKeyPairFromSeed(seed)
		if err != nil {
			return nil, counters, err
		}

		if primitives.CtEqual(candidate.Public[:], ann.OneTimeAddress[:]) {
			counters.PassedTagConfirmed++
			matches = append(matches, i)
		} else {
			counters.PassedTagFalsePositive++
		}
	}

	counters.Elapsed = time.Since(start)
	return matches, counters, nil
}

package relay

import (
	"math/rand"
	"time"
)

// Delivery is one unit of work a Transport wants the hub to perform for
// a relayed frame: send data after waiting Delay. A Transport that wants
// to duplicate a frame returns more than one Delivery; one that wants to
// drop it returns none.
type Delivery struct {
	Data  []byte
	Delay time.Duration
}

// Transport models the network between two relay endpoints. It lets
// tests and the adversarial-transport demo exercise the ratchet's
// out-of-order delivery and skipped-message-key handling (spec §4.4)
// without a real flaky network.
type Transport interface {
	// Apply decides what happens to a single outbound frame: delivered
	// as-is, dropped, duplicated, or delayed to simulate reordering.
	Apply(data []byte) []Delivery
}

// IdealTransport delivers every frame exactly once, immediately, in
// order. It is the zero-value behavior when no AdversarialTransport is
// configured.
type IdealTransport struct{}

// Apply implements Transport.
func (IdealTransport) Apply(data []byte) []Delivery {
	return []Delivery{{Data: data}}
}

// AdversarialTransport independently rolls drop, duplicate, and reorder
// for each frame, at configured probabilities, for exercising a Double
// Ratchet session against the conditions spec §4.4's skipped-message-key
// cache and out-of-order delivery handling exist to survive.
type AdversarialTransport struct {
	// DropProbability is the chance [0,1] a frame is silently discarded.
	DropProbability float64
	// DuplicateProbability is the chance [0,1] a delivered frame is sent
	// a second time.
	DuplicateProbability float64
	// ReorderProbability is the chance [0,1] a delivered frame is delayed
	// by a random jitter up to MaxReorderDelay instead of sent
	// immediately, so it may arrive after frames sent later.
	ReorderProbability float64
	MaxReorderDelay    time.Duration

	rand *rand.Rand
}

// NewAdversarialTransport constructs an AdversarialTransport seeded from
// seed, so a reordering/dropping run is reproducible in tests.
func NewAdversarialTransport(dropP, duplicateP, reorderP float64, maxReorderDelay time.Duration, seed int64) *AdversarialTransport {
	return &AdversarialTransport{
		DropProbability:      dropP,
		DuplicateProbability: duplicateP,
		ReorderProbability:   reorderP,
		MaxReorderDelay:      maxReorderDelay,
		rand:                 rand.New(rand.NewSource(seed)),
	}
}

// Apply implements Transport.
func (a *AdversarialTransport) Apply(data []byte) []Delivery {
	if a.rand == nil {
		a.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.rand.Float64() < a.DropProbability {
		return nil
	}

	var delay time.Duration
	if a.rand.Float64() < a.ReorderProbability && a.MaxReorderDelay > 0 {
		delay = time.Duration(a.rand.Int63n(int64(a.MaxReorderDelay)))
	}

	deliveries := []Delivery{{Data: data, Delay: delay}}
	if a.rand.Float64() < a.DuplicateProbability {
		deliveries = append(deliveries, Delivery{Data: data, Delay: delay})
	}
	return deliveries
}

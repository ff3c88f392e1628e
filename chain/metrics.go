package chain

import "github.com/fingoldin/sbrlmod/telemetry"

// Metrics groups the counters a chain maintains while it runs, grounded
// on the teacher's fuzzer.Stats: one named counter per event class,
// optionally backed by a shared telemetry.Registry. A nil Registry yields
// nil Vals, whose Add is a safe no-op, so a chain never needs to branch
// on whether metrics are enabled.
type Metrics struct {
	Proposals    *telemetry.Val
	Accepts      *telemetry.Val
	BoundRejects *telemetry.Val
	NewBest      *telemetry.Val
	Swaps        *telemetry.Val
	Adds         *telemetry.Val
	Deletes      *telemetry.Val
}

// NewMetrics builds a Metrics bound to reg, or an all-nil Metrics if reg
// is nil.
func NewMetrics(reg *telemetry.Registry) *Metrics {
	return &Metrics{
		Proposals:    reg.New("chain_proposals_total", "Proposals drawn across all chains"),
		Accepts:      reg.New("chain_accepts_total", "Proposals accepted across all chains"),
		BoundRejects: reg.New("chain_bound_rejects_total", "Proposals pruned by the prefix bound"),
		NewBest:      reg.New("chain_new_best_total", "Times a chain improved the running best"),
		Swaps:        reg.New("chain_moves_swap_total", "Swap moves proposed"),
		Adds:         reg.New("chain_moves_add_total", "Add moves proposed"),
		Deletes:      reg.New("chain_moves_delete_total", "Delete moves proposed"),
	}
}

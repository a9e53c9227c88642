// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package protocol implements the Party protocol driver of spec.md §4.5: CEPS, CEAS,
// and CEAS-with-randomization, all named Fcom subprotocols, corruption bookkeeping, and
// the deviation hooks used to simulate active cheating. Grounded throughout on
// original_source/Pceas/src/core/Party.{h,cpp} for protocol semantics, and on the
// teacher's tss/party.go lock/advance idiom (BaseParty's mutex-guarded lifecycle) for
// the Go-side plumbing around round suspension.
package protocol

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/mpc-circuit-sim/channel"
	"github.com/binance-chain/mpc-circuit-sim/circuit"
	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/common"
	"github.com/binance-chain/mpc-circuit-sim/field"
	"github.com/binance-chain/mpc-circuit-sim/party"
	"github.com/binance-chain/mpc-circuit-sim/scheduler"
)

// Triple is a preprocessed multiplication triple (spec.md §3): the commitment ids of x,
// y, and their product xy, used by the randomization variant's MUL gates.
type Triple struct {
	X, Y, XY party.CommitmentID
}

// Party is the protocol driver for one of the N computing parties (spec.md §3's Party
// attributes). One Party runs on its own goroutine, suspending at Interact() calls and
// resuming when the scheduler releases the round barrier.
type Party struct {
	Params      *party.Parameters
	Circuit     *circuit.Circuit
	Commitments *commitment.Table
	corrupted   map[int]bool

	recombinationVector []*big.Int
	recombinationParties []int // which party IDs the cached vector was computed for
	fullRecombVector    []*big.Int // fixed N-point vector, independent of corruption

	rnd *common.DeterministicRand

	secrets map[string]*big.Int // label -> value, this party's own inputs only

	triples map[int]*Triple // gate number -> preprocessed triple

	scheduler *scheduler.Participant
	outgoing  []*channel.Private // outgoing[j] carries messages to party j (peer index)
	incoming  []*channel.Private // incoming[j] carries messages from party j (peer index)

	behavior *Behavior // nil for an honest party

	result          *big.Int
	notEnoughShares bool

	round int
}

// NewParty constructs a party ready to run once its circuit, secrets, and transport are
// attached. outgoing[j]/incoming[j] are this party's private channels to/from the peer
// at index j (including itself); broadcast is shared by every party.
func NewParty(params *party.Parameters, c *circuit.Circuit, outgoing, incoming []*channel.Private, broadcast *channel.Broadcast) *Party {
	p := &Party{
		Params:      params,
		Circuit:     c,
		Commitments: commitment.NewTable(params.PartyID()),
		corrupted:   make(map[int]bool),
		rnd:         common.NewDeterministicRand(params.PartyID().ID),
		secrets:     make(map[string]*big.Int),
		triples:     make(map[int]*Triple),
		outgoing:    outgoing,
		incoming:    incoming,
	}
	p.scheduler = scheduler.NewParticipant(outgoing, broadcast)
	return p
}

// Participant exposes this party's scheduler-facing handle, for wiring into a
// scheduler.Scheduler by the caller that constructed the party (cmd/mpcsim, and
// protocol's own test scaffolding).
func (p *Party) Participant() *scheduler.Participant { return p.scheduler }

// SetBehavior attaches a deviation profile (spec.md §9's Behavior tagged union),
// turning this Party into an active cheater for the scenarios it names. A nil Behavior
// (the default) is an honest party.
func (p *Party) SetBehavior(b *Behavior) { p.behavior = b }

// AddSecret binds one of this party's own inputs to a label (spec.md §3:
// "secrets map (label -> field value)").
func (p *Party) AddSecret(label string, val *big.Int) {
	p.secrets[label] = new(big.Int).Mod(val, p.Params.FieldPrime())
}

// Result returns the data user's reconstructed output, or (nil, true) if too few
// shares arrived (spec.md §4.5.1's "not enough shares" diagnostic).
func (p *Party) Result() (val *big.Int, notEnoughShares bool) {
	return p.result, p.notEnoughShares
}

func (p *Party) isDataUser() bool {
	return p.Params.PartyID().ID == p.Params.DataUser().ID
}

// interact is this party's suspension point (spec.md §5). Every subprotocol step that
// sends and then needs peers' responses calls this exactly once per round.
func (p *Party) interact() {
	p.round++
	p.scheduler.Interact()
}

func (p *Party) send(to *party.PartyID, msg *party.Message) {
	p.outgoing[to.Index].Send(msg)
}

func (p *Party) broadcast(msg *party.Message) {
	p.scheduler.Broadcast.Send(p.Params.PartyID(), msg)
}

func (p *Party) recv(from *party.PartyID) *party.Message {
	return p.incoming[from.Index].Recv()
}

// honestPartyIDs returns the non-corrupt parties in id order, used to build the
// recombination vector (spec.md §4.5.1: "summing only over non-corrupt parties").
func (p *Party) honestPartyIDs() []*party.PartyID {
	var ids []*party.PartyID
	for _, pid := range p.Params.Parties().IDs() {
		if !p.corrupted[pid.ID] {
			ids = append(ids, pid)
		}
	}
	return ids
}

// isCorrupt reports whether p has been marked corrupt.
func (p *Party) isCorrupt(pid *party.PartyID) bool {
	return p.corrupted[pid.ID]
}

// IsCorrupt is isCorrupt's exported counterpart, for callers (tests, cmd/mpcsim)
// inspecting a party's view of the corrupt set after a run.
func (p *Party) IsCorrupt(pid *party.PartyID) bool {
	return p.corrupted[pid.ID]
}

// addCorrupt marks pid corrupt (idempotent) and invalidates the recombination-vector
// cache so it is recomputed against the shrunken honest set next use (spec.md §4.6).
// Exceeding the protocol's tolerance is fatal — an implementation bug or a genuinely
// unrecoverable run, never a case an honest party silently papers over (spec.md §7).
func (p *Party) addCorrupt(pid *party.PartyID) error {
	if p.corrupted[pid.ID] {
		return nil
	}
	p.corrupted[pid.ID] = true
	p.recombinationVector = nil
	common.Logger.Warnf("party %s: marking %s corrupt", p.Params.PartyID(), pid)

	maxDishonest := maxTolerance(p.Params.PartyCount())
	if len(p.corrupted) > maxDishonest {
		return party.NewError(
			errors.Errorf("more than %d corrupt parties, protocol tolerance exceeded", maxDishonest),
			"addCorrupt", p.round, p.Params.PartyID())
	}
	return nil
}

// maxTolerance is C = floor((N-1)/3) when N%3==0, else floor(N/3) (spec.md §4.5's
// sanity-check formula, reused here since it also defines addCorrupt's ceiling).
func maxTolerance(n int) int {
	if n%3 == 0 {
		return (n - 1) / 3
	}
	return n / 3
}

// recombinationVec returns the cached recombination vector over the current honest set,
// recomputing it if the honest set changed since the last call (spec.md §4.5.1).
func (p *Party) recombinationVec() []*big.Int {
	honest := p.honestPartyIDs()
	if p.recombinationVector != nil && sameIDs(p.recombinationParties, honest) {
		return p.recombinationVector
	}
	xs := make([]*big.Int, len(honest))
	ids := make([]int, len(honest))
	for i, pid := range honest {
		xs[i] = big.NewInt(int64(pid.ID))
		ids[i] = pid.ID
	}
	p.recombinationVector = field.RecombinationVector(xs, p.Params.FieldPrime())
	p.recombinationParties = ids
	return p.recombinationVector
}

// fullRecombinationVec is the fixed N-point recombination vector over every party's id
// 1..N, not just the currently-honest subset — multiplyCommitments uses it to
// degree-reduce a vector of per-owner local-product commitments (spec.md §4.5.2: "the
// recombination vector applied over commitments"). Unlike recombinationVec, it never
// changes as parties are marked corrupt: the active-security check inside
// multiplyCommitments is what keeps a corrupt owner's contribution from poisoning this
// sum, not exclusion from the vector.
func (p *Party) fullRecombinationVec() []*big.Int {
	if p.fullRecombVector != nil {
		return p.fullRecombVector
	}
	ids := p.Params.Parties().IDs()
	xs := make([]*big.Int, len(ids))
	for i, pid := range ids {
		xs[i] = big.NewInt(int64(pid.ID))
	}
	p.fullRecombVector = field.RecombinationVector(xs, p.Params.FieldPrime())
	return p.fullRecombVector
}

func sameIDs(cached []int, current []*party.PartyID) bool {
	if len(cached) != len(current) {
		return false
	}
	for i, pid := range current {
		if cached[i] != pid.ID {
			return false
		}
	}
	return true
}

// sanityChecks enforces spec.md §4.5's fatal startup invariants.
func (p *Party) sanityChecks() error {
	n := p.Params.PartyCount()
	if n < 3 {
		return errors.Errorf("N must be >= 3, got %d", n)
	}
	if p.Params.FieldPrime().Cmp(big.NewInt(int64(n))) <= 0 {
		return errors.Errorf("field prime must exceed N=%d", n)
	}
	if !common.ProbablyPrime(p.Params.FieldPrime()) {
		return errors.Errorf("field prime is not probably prime")
	}
	if p.Circuit == nil {
		return errors.Errorf("no circuit set")
	}
	if err := p.Circuit.Validate(); err != nil {
		return errors.Wrap(err, "circuit validation")
	}
	if p.Params.Protocol() != party.CEPS {
		d := p.Params.Degree()
		c := maxTolerance(n)
		// Solving for the max tolerable number of corrupt parties C from C<=D and
		// C<N-2D (original_source/Pceas/src/core/Party.cpp's sanityChecks): the
		// threshold must be large enough to cover C corruptions (D>=C) and small enough
		// that N-2D honest-majority reconstruction still has slack over C (C<N-2D).
		if c > d || c >= n-2*d {
			return errors.Errorf("threshold t=%d (d=%d) violates C<=D and C<N-2D for N=%d (C=%d)", p.Params.Threshold(), d, n, c)
		}
	}
	return nil
}

func (p *Party) String() string {
	return fmt.Sprintf("Party{%s, protocol=%s}", p.Params.PartyID(), p.Params.Protocol())
}

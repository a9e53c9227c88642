// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/field"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// distributeShares is CEPS's plain (non-verifiable) Shamir sharing: sample a degree-d
// polynomial with the given constant term, send party i its share f(i) privately
// tagged with label, bind our own share to the input wires of label, then collect every
// peer's share and bind it to the input wires of the label that peer's message carries
// (spec.md §4.5.1 phase 1).
func (p *Party) distributeShares(val *big.Int, label string) {
	poly := field.Sample(p.Params.FieldPrime(), p.Params.Degree(), val, p.rnd)

	for _, peer := range p.Params.Parties().IDs() {
		share := poly.EvaluateInt(peer.ID)
		msg := party.NewMessage(p.Params.PartyID())
		msg.Share = share
		msg.SetInput(label)
		if peer.ID == p.Params.PartyID().ID {
			// deliver our own share immediately; no channel round-trip needed for self.
			if err := p.Circuit.AssignInput(label, share); err != nil {
				panic(errors.Wrapf(err, "distributeShares: label %q", label))
			}
			continue
		}
		p.send(peer, msg)
	}
	p.interact()

	for _, peer := range p.Params.Parties().IDs() {
		if peer.ID == p.Params.PartyID().ID {
			continue
		}
		msg := p.recv(peer)
		if msg == nil || msg.Share == nil {
			_ = p.addCorrupt(peer)
			continue
		}
		if err := p.Circuit.AssignInput(msg.InputLabel, msg.Share); err != nil {
			panic(errors.Wrapf(err, "distributeShares: label %q", msg.InputLabel))
		}
	}
}

// distributeInputs runs distributeShares for every secret this party owns, then waits
// (via no-op interact rounds with an empty message) until the circuit's declared input
// count is satisfied by contributions from other input-providing parties — mirroring
// spec.md §4.5.1's "repeat until the circuit's declared input count has been satisfied."
func (p *Party) distributeInputs() {
	for label, val := range p.secrets {
		p.distributeShares(val, label)
	}
	for !p.allInputsAssigned() {
		p.interact()
	}
}

func (p *Party) allInputsAssigned() bool {
	for _, w := range p.Circuit.Wires {
		if w.PrevGate == -1 && !w.Assigned {
			return false
		}
	}
	return true
}

// distributeVerifiableShares is CEAS's VSS distribution (spec.md §4.5.2), run by the
// commitment's owner only: sample a symmetric bivariate polynomial f(x,y) with
// f(0,0)=val, create a fresh commitment record, send every peer k its row f(k,y)
// privately (tagged with the commit id so the receiver's record lands under the exact
// same id as ours), and record our own share f(pid,0) and f(0,x) for later opening. A
// non-empty label additionally marks this record as bound to that circuit input label,
// carried to every peer so receiveVerifiableShares can bind the matching wire too. The
// non-owner counterpart is receiveVerifiableShares; both are driven from commit().
func (p *Party) distributeVerifiableShares(val *big.Int, uniqueSuffix, label string) *commitment.Record {
	degree := p.Params.Degree()
	bivariate := field.NewSymmetricBivariatePoly(p.Params.FieldPrime(), degree)
	bivariate.SampleBivariate(val, p.rnd)

	cr := p.Commitments.AddRecord(p.Params.PartyID(), "")
	cr.VSS = true
	cr.ShareNameSuffix = uniqueSuffix
	cr.FX0 = bivariate.EvaluateAtZero()
	cr.Share = cr.FX0.EvaluateInt(p.Params.PartyID().ID)
	cr.VerifiableShare = bivariate.Evaluate(p.Params.PartyID().ID)
	cr.Bivariate = bivariate
	if label != "" {
		cr.SetInput(label)
	}

	for _, peer := range p.Params.Parties().IDs() {
		if peer.ID == p.Params.PartyID().ID {
			continue
		}
		rowPoly := bivariate.Evaluate(peer.ID)
		if p.has(CommitmentSendInvalidShare) && peer.ID == p.firstPeerOtherThanSelf().ID {
			rowPoly = rowPoly.Add(field.Zero(p.Params.FieldPrime(), degree, big.NewInt(1)))
		}
		msg := party.NewMessage(p.Params.PartyID())
		msg.CommitID = cr.ID
		msg.SetVerifiableShare(rowPoly)
		if label != "" {
			msg.SetInput(label)
		}
		p.send(peer, msg)
	}
	return cr
}

// receiveVerifiableShares is the non-owner side of distributeVerifiableShares: read our
// row off the owner's message — whose CommitID is the owner's own freshly-generated id,
// echoed verbatim so every party's table agrees on the name for this logical
// commitment — and install a passive record for it. A nil message or missing payload
// (the owner sent nothing this round) yields an empty placeholder record that
// crossCheckRow (commit.go) will flag as a mismatch.
func (p *Party) receiveVerifiableShares(owner *party.PartyID) *commitment.Record {
	msg := p.recv(owner)

	var cid party.CommitmentID
	if msg != nil {
		cid = msg.CommitID
	}
	cr := p.Commitments.AddRecord(owner, cid)

	if msg != nil && msg.VerifiableShare != nil {
		cr.VerifiableShare = msg.VerifiableShare.Poly
		cr.Share = cr.VerifiableShare.Evaluate(big.NewInt(0))
	}
	if msg != nil && msg.Input {
		cr.SetInput(msg.InputLabel)
	}
	return cr
}

// firstPeerOtherThanSelf picks a fixed peer to target with a single-victim deviation,
// so misbehavior is deterministic and reproducible across runs (spec.md §8:
// "Idempotence").
func (p *Party) firstPeerOtherThanSelf() *party.PartyID {
	for _, peer := range p.Params.Parties().IDs() {
		if peer.ID != p.Params.PartyID().ID {
			return peer
		}
	}
	return p.Params.PartyID()
}

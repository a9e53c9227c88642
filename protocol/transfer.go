// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// compositeSource stands in for cid's owner in NameTransferred when cid has no single
// owner (an addCommitments/constMultCommitment/subtractCommitments result): its id (0)
// never collides with a real 1..N party id, so the derived name stays unique and every
// honest party's table computes the same one without a coordinating round.
var compositeSource = &party.PartyID{ID: 0, Moniker: "composed"}

// transferCommitment moves ownership of cid from its current owner to target, so that
// target (and only target) learns the value while every party ends up holding a fresh
// commitment to the same value under target's name (spec.md §4.5.3's "Perfect
// Transfer").
func (p *Party) transferCommitment(cid party.CommitmentID, target *party.PartyID) party.CommitmentID {
	source := p.Commitments.Get(cid).Owner
	namedSource := source
	if namedSource == nil {
		namedSource = compositeSource
	}
	newID := commitment.NameTransferred(cid, namedSource, target)

	// Step 1: announce the transfer so every party agrees on its name up front. A
	// composed cid has no single owner to announce from; every party already derives
	// newID identically, so there is nothing to broadcast in that case.
	msg := party.NewMessage(p.Params.PartyID())
	if source != nil && source.ID == p.Params.PartyID().ID {
		t := party.NewCommitmentTransfer(cid, source, target)
		t.TransferedCommitID = newID
		msg.AddTransfer(t)
	}
	p.broadcast(msg)
	p.interact()

	// Step 2: the source designated-opens cid to target alone.
	p.designatedOpen(cid, target)

	// Step 3: target commits fresh shares to the value it just learned, under a
	// fresh id that every party then renames to newID — every party, not just target,
	// calls commit() together so rounds stay aligned; non-target callers pass a nil val
	// since only target's is meaningful.
	var val *big.Int
	if target.ID == p.Params.PartyID().ID {
		cr := p.Commitments.Get(cid)
		val = cr.OpenedValue
		if val == nil {
			val = cr.Share // designatedOpen was rejected upstream; fall back to our own share
		}
		if p.has(TransferTargetCommitsToDifferentValue) {
			val = new(big.Int).Add(val, big.NewInt(1))
		}
	}
	fresh := p.commit(target, val, "transfer")
	p.Commitments.Rename(fresh, newID)
	newCr := p.Commitments.Get(newID)

	// Step 4: every party broadcasts a reject if it holds no share of the new commitment
	// (a party running TransferRejectValidTransfer rejects regardless).
	reject := party.NewMessage(p.Params.PartyID())
	if p.has(TransferRejectValidTransfer) {
		reject.DesignatedOpenRejected = true
	} else if newCr.Share == nil {
		reject.DesignatedOpenRejected = true
	}
	p.broadcast(reject)
	p.interact()

	rejected := false
	for _, peer := range p.Params.Parties().IDs() {
		m := p.recvBroadcast(peer)
		if m != nil && m.DesignatedOpenRejected {
			rejected = true
		}
	}

	if rejected {
		// Every party, not just source, repairs by opening the original commitment in
		// place — open() is itself symmetric, so all rounds stay aligned regardless of
		// which role each party plays (spec.md §4.5.3's rejection-repair step).
		p.open(cid)
		if err := p.addCorrupt(target); err != nil {
			panic(err)
		}
		p.publicCommitToZero(newCr)
		return newID
	}

	newCr.SetDone(true)
	return newID
}

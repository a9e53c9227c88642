// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/field"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// designatedOpen opens cid's value to target alone rather than to everyone (spec.md
// §4.5.3's "DesignatedOpen (4 rounds)"): the owner sends fx0 privately to target only,
// every other honest party privately forwards a verifier to target, target alone
// decides accept/reject and announces it by broadcast, and any owner whose open was
// rejected falls back to a full open() in the same round slot so every party advances
// the same number of rounds regardless of outcome.
func (p *Party) designatedOpen(cid party.CommitmentID, target *party.PartyID) {
	cr := p.Commitments.Get(cid)
	if cr.Owner == nil {
		p.designatedOpenComposed(cid, target)
		return
	}

	fx0 := cr.FX0
	if p.has(DesignatedOpenWithInvalidFx0) && cr.Owner.ID == p.Params.PartyID().ID {
		fx0 = field.Sample(p.Params.FieldPrime(), p.Params.Degree()+1, fx0.Evaluate(big.NewInt(0)), p.rnd)
	}
	if cr.Owner.ID == p.Params.PartyID().ID {
		msg := party.NewMessage(p.Params.PartyID())
		msg.Target = target
		msg.SetVerifiableShare(fx0)
		p.send(target, msg)
	}
	p.interact()

	var ownerFx0 *field.Polynomial
	isTarget := target.ID == p.Params.PartyID().ID
	if isTarget {
		m := p.recv(cr.Owner)
		if m != nil && m.VerifiableShare != nil {
			ownerFx0 = m.VerifiableShare.Poly
		}
	}

	if ownerFx0 != nil {
		verifier := ownerFx0.EvaluateInt(p.Params.PartyID().ID)
		if p.has(DesignatedOpenSendInvalidVerifiers) {
			verifier = new(big.Int).Add(verifier, big.NewInt(1))
		}
		msg := party.NewMessage(p.Params.PartyID())
		msg.Target = target
		msg.AddVerifier(cid, verifier)
		p.send(target, msg)
	} else if !isTarget {
		// every non-target party sends the target its own share of cid as its verifier,
		// which the target checks against ownerFx0 at that party's index.
		msg := party.NewMessage(p.Params.PartyID())
		msg.Target = target
		if cr.Share != nil {
			msg.AddVerifier(cid, cr.Share)
		}
		p.send(target, msg)
	}
	p.interact()

	accepted := false
	if isTarget {
		agree := 0
		for _, peer := range p.Params.Parties().IDs() {
			if peer.ID == p.Params.PartyID().ID {
				continue
			}
			m := p.recv(peer)
			if m == nil {
				continue
			}
			if v, ok := m.GetVerifier(cid); ok && ownerFx0 != nil && v.Cmp(ownerFx0.EvaluateInt(peer.ID)) == 0 {
				agree++
			}
		}
		accepted = ownerFx0 != nil && ownerFx0.DegreeCheckLTE(p.Params.Degree()) && agree >= 2*p.Params.Degree()
		if accepted {
			cr.AddDesignatedOpen(target)
			cr.SetOpenedValue(ownerFx0.Evaluate(big.NewInt(0)))
		}
	}

	announce := party.NewMessage(p.Params.PartyID())
	announce.DesignatedOpenRejected = isTarget && !accepted
	p.broadcast(announce)
	p.interact()

	rejected := false
	targetMsg := p.recvBroadcast(target)
	if targetMsg == nil || targetMsg.DesignatedOpenRejected {
		rejected = true
	}

	if rejected {
		// Every party repairs together — open() is itself symmetric and internally
		// honors DesignatedOpenDoNotOpenRejected, so rounds stay aligned even when the
		// owner refuses to cooperate (spec.md §4.5.3's rejection-repair step).
		p.open(cid)
		if err := p.addCorrupt(cr.Owner); err != nil {
			panic(err)
		}
	}
}

// designatedOpenComposed is designatedOpen's counterpart for owner-less commitments:
// every party privately sends target its own share, target alone reconstructs via
// Lagrange interpolation. There is no owner to fall back to on rejection — target
// either gets enough shares to interpolate or it doesn't — so this has no rejection
// round; callers that need symmetry with the owned path (e.g. transferCommitment's
// "everyone agrees whether the transfer failed" step) check cr.OpenedValue == nil
// themselves afterward.
func (p *Party) designatedOpenComposed(cid party.CommitmentID, target *party.PartyID) {
	cr := p.Commitments.Get(cid)

	msg := party.NewMessage(p.Params.PartyID())
	msg.Share = cr.Share
	p.send(target, msg)
	p.interact()

	if target.ID != p.Params.PartyID().ID {
		return
	}

	honest := p.honestPartyIDs()
	var xs, shares []*big.Int
	for _, peer := range honest {
		var share *big.Int
		if peer.ID == p.Params.PartyID().ID {
			share = cr.Share
		} else {
			m := p.recv(peer)
			if m == nil || m.Share == nil {
				continue
			}
			share = m.Share
		}
		xs = append(xs, big.NewInt(int64(peer.ID)))
		shares = append(shares, share)
	}
	if len(shares) < p.Params.Threshold() {
		return
	}
	cr.AddDesignatedOpen(target)
	cr.SetOpenedValue(field.Recombine(xs, shares, p.Params.FieldPrime()))
}

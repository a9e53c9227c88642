// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/common"
	"github.com/binance-chain/mpc-circuit-sim/field"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// publicCommit forces every honest party to the same record for val with no
// interaction (spec.md §4.5.3: "Forced deterministic commitment to v; cannot fail").
// Used both directly (e.g. publicCommit(0) on a failed commitment's fallback) and via
// publicCommitToZero.
func (p *Party) publicCommit(cr *commitment.Record, val *big.Int) {
	cr.FX0 = field.Zero(p.Params.FieldPrime(), p.Params.Degree(), val)
	cr.Share = new(big.Int).Set(val)
	cr.VerifiableShare = field.Zero(p.Params.FieldPrime(), p.Params.Degree(), val)
	cr.SetDone(true)
}

func (p *Party) publicCommitToZero(cr *commitment.Record) {
	p.publicCommit(cr, big.NewInt(0))
}

// commit runs the "Protocol Perfect-Com-Simple" VSS commit (spec.md §4.5.3). Every
// party in the run calls commit with the same owner and uniqueSuffix in the same
// round; only owner's val is meaningful (everyone else may pass nil). A non-empty
// label marks the resulting record (on every honest party's table) as bound to that
// circuit input label. The owner distributes verifiable shares, everyone cross-checks
// their row, disputes resolve by broadcast, and every honest party finalizes an
// identically-keyed record. On failure the record becomes a public commitment to 0 and
// the owner is added to the corrupt set.
func (p *Party) commit(owner *party.PartyID, val *big.Int, uniqueSuffix string) party.CommitmentID {
	return p.commitLabeled(owner, val, uniqueSuffix, "")
}

func (p *Party) commitLabeled(owner *party.PartyID, val *big.Int, uniqueSuffix, label string) party.CommitmentID {
	var cr *commitment.Record
	if owner.ID == p.Params.PartyID().ID {
		cr = p.distributeVerifiableShares(val, uniqueSuffix, label)
	}
	p.interact() // round: verifiable shares delivered
	if owner.ID != p.Params.PartyID().ID {
		cr = p.receiveVerifiableShares(owner)
	}

	// Steps 2-3 (spec.md §4.5.3): every party privately cross-evaluates its received
	// row against every peer's row at the shared coordinate. By the bivariate's
	// defining symmetry f(i,j)==f(j,i), an honest owner's rows always agree here; a
	// peer whose claim disagrees with our own row gets a local dispute entry.
	p.crossCheckRow(cr)

	// Step 4: broadcast the disputed peers so every honest party learns the same set.
	disputeMsg := party.NewMessage(p.Params.PartyID())
	for _, d := range cr.Disputes {
		disputeMsg.AddDispute(cr.ID, d.Disputed)
	}
	if p.has(CommitmentDishonestAccused) {
		disputeMsg.AddDispute(cr.ID, p.firstPeerOtherThanSelf())
	}
	p.broadcast(disputeMsg)
	p.interact() // round: disputes observed

	disputed := p.collectDisputed(cr.ID)
	if len(disputed) == 0 {
		cr.SetDone(true)
		return cr.ID
	}

	// Step 5: the owner broadcasts the true row f(d,y) for every disputed party d,
	// drawn from the retained bivariate rather than the possibly-tampered wire copy.
	resolution := party.NewMessage(p.Params.PartyID())
	if cr.Owner.ID == p.Params.PartyID().ID && cr.Bivariate != nil && !p.has(CommitmentDoNotOpenDisputed) {
		for _, d := range disputed {
			resolution.AddOpenedVerifiableShare(d, cr.Bivariate.Evaluate(d.ID))
		}
	}
	p.broadcast(resolution)
	p.interact() // round: owner's resolution observed
	ownerMsg := p.recvBroadcast(cr.Owner)

	// Step 6: a disputed non-owner party whose own broadcast row disagrees with the
	// true row the owner just opened has caught the owner red-handed — direct
	// evidence from a single honest party, not a majority vote — so it adopts the
	// broadcast row as its corrected share and marks the owner corrupt immediately,
	// without waiting on the step-7 accusation tally below.
	if isDisputedParty(disputed, p.Params.PartyID()) && cr.Owner.ID != p.Params.PartyID().ID &&
		!p.has(CommitmentAccusedDoNotOpenVerifiableShare) {
		if rowPoly, ok := openedRowFor(ownerMsg, p.Params.PartyID()); ok && rowPoly.DegreeCheckLTE(p.Params.Degree()) {
			theirs := rowPoly.EvaluateInt(0)
			if cr.Share == nil || theirs.Cmp(cr.Share) != 0 {
				if err := p.addCorrupt(cr.Owner); err != nil {
					panic(err)
				}
			}
			cr.VerifiableShare = rowPoly
			cr.Share = theirs
		}
	}

	// Step 7: verify the owner's resolution, for every OTHER disputed party, against
	// our own (now possibly self-corrected) row and broadcast an accusation if
	// anything still fails to check out. This only fires for disputes a single party
	// can't resolve unilaterally — the owner stonewalling (CommitmentDoNotOpenDisputed)
	// or an inconsistent/over-degree broadcast — since an honest resolution always
	// agrees with every honest party's row by the bivariate's symmetry.
	accuseMsg := party.NewMessage(p.Params.PartyID())
	if p.verifyResolution(cr, ownerMsg, disputed) {
		accuseMsg.AddAccused(cr.Owner, "inconsistent VSS resolution")
	}
	if p.has(CommitmentAccuseHonestAfterDisputesOpened) {
		accuseMsg.AddAccused(p.firstPeerOtherThanSelf(), "bogus late accusation")
	}
	p.broadcast(accuseMsg)
	p.interact() // round: accusations observed

	for _, peer := range p.Params.Parties().IDs() {
		m := p.recvBroadcast(peer)
		if m == nil {
			continue
		}
		for _, acc := range m.Accusations {
			if acc.Accused.ID == cr.Owner.ID {
				cr.AddAccuser(peer)
			}
		}
	}

	// Step 8: a commitment whose disputes were all resolved by step 6's direct
	// self-correction already carries the true value and need not fail — it still
	// fails if the owner stonewalled a disputed party's request or more than d
	// distinct parties end up accusing outright over an unresolved inconsistency.
	if cr.AccuserCount() > p.Params.Degree() {
		p.publicCommitToZero(cr)
		if err := p.addCorrupt(cr.Owner); err != nil {
			panic(err)
		}
		cr.Success = false
		return cr.ID
	}
	cr.SetDone(true)
	return cr.ID
}

// openedRowFor finds the row the owner's step-5/6 broadcast opened for pid, if any.
func openedRowFor(msg *party.Message, pid *party.PartyID) (*field.Polynomial, bool) {
	if msg == nil {
		return nil, false
	}
	for _, vs := range msg.OpenedVerifiableShares {
		if vs.K.ID == pid.ID {
			return vs.Poly, true
		}
	}
	return nil, false
}

// crossCheckRow exchanges this party's received row with every peer, privately, and
// records a local dispute against any peer whose claimed cross-point disagrees with our
// own row (spec.md §4.5.3 steps 2-3). A missing or over-degree row disputes the owner
// directly, since there is nothing to cross-evaluate.
func (p *Party) crossCheckRow(cr *commitment.Record) {
	if cr.VerifiableShare == nil || !cr.VerifiableShare.DegreeCheckLTE(p.Params.Degree()) {
		cr.AddDispute(p.Params.PartyID(), cr.Owner)
	}

	for _, peer := range p.Params.Parties().IDs() {
		if peer.ID == p.Params.PartyID().ID {
			continue
		}
		msg := party.NewMessage(p.Params.PartyID())
		msg.CommitID = cr.ID
		if cr.VerifiableShare != nil {
			msg.CrossPoint = cr.VerifiableShare.EvaluateInt(peer.ID)
		}
		p.send(peer, msg)
	}
	p.interact() // round: cross-points delivered

	for _, peer := range p.Params.Parties().IDs() {
		if peer.ID == p.Params.PartyID().ID {
			continue
		}
		msg := p.recv(peer)
		if cr.VerifiableShare == nil {
			continue
		}
		mine := cr.VerifiableShare.EvaluateInt(peer.ID)
		if msg == nil || msg.CrossPoint == nil || msg.CrossPoint.Cmp(mine) != 0 {
			cr.AddDispute(p.Params.PartyID(), peer)
		}
	}
}

// verifyResolution checks the owner's step-5 broadcast against this party's own row via
// the bivariate's symmetry: the owner's claimed row for a disputed party must agree, at
// our index, with what our own row claims at theirs. Returns true (accuse the owner) on
// any missing, over-degree, or inconsistent entry.
func (p *Party) verifyResolution(cr *commitment.Record, ownerMsg *party.Message, disputed []*party.PartyID) bool {
	if ownerMsg == nil {
		return true
	}
	opened := make(map[int]*field.Polynomial)
	for _, vs := range ownerMsg.OpenedVerifiableShares {
		opened[vs.K.ID] = vs.Poly
	}
	if cr.VerifiableShare == nil {
		return true
	}
	for _, d := range disputed {
		rowPoly, ok := opened[d.ID]
		if !ok || !rowPoly.DegreeCheckLTE(p.Params.Degree()) {
			return true
		}
		mine := cr.VerifiableShare.EvaluateInt(d.ID)
		theirs := rowPoly.EvaluateInt(p.Params.PartyID().ID)
		if mine.Cmp(theirs) != 0 {
			return true
		}
	}
	return false
}

func isDisputedParty(disputed []*party.PartyID, pid *party.PartyID) bool {
	for _, d := range disputed {
		if d.ID == pid.ID {
			return true
		}
	}
	return false
}

// collectDisputed gathers the distinct peer ids named as disputed in cid's round-4
// broadcasts, resolved back to PartyIDs (spec.md §4.5.3 step 4's "common knowledge").
func (p *Party) collectDisputed(cid party.CommitmentID) []*party.PartyID {
	seen := make(map[int]bool)
	var disputed []*party.PartyID
	for _, peer := range p.Params.Parties().IDs() {
		msg := p.recvBroadcast(peer)
		if msg == nil {
			continue
		}
		set, ok := msg.Disputes[cid]
		if !ok {
			continue
		}
		for id := range set {
			if seen[id] {
				continue
			}
			seen[id] = true
			for _, pid := range p.Params.Parties().IDs() {
				if pid.ID == id {
					disputed = append(disputed, pid)
				}
			}
		}
	}
	return disputed
}

func (p *Party) recvBroadcast(from *party.PartyID) *party.Message {
	return p.scheduler.Broadcast.Recv(from)
}

// open broadcasts fx0, collects every peer's verifier, and decides locally whether the
// commitment opens (spec.md §4.5.3's "Open (3 rounds)"). All honest parties reach the
// same decision because it is derived solely from broadcast content. Records produced
// by addCommitments/constMultCommitment/subtractCommitments have no single owner — no
// party sampled a sharing polynomial for their sum — so those open via openComposed's
// direct Shamir reconstruction instead; cr.Owner is nil identically on every honest
// party's table for the same cid, so this dispatch never causes a round mismatch.
func (p *Party) open(cid party.CommitmentID) {
	cr := p.Commitments.Get(cid)
	if cr.Owner == nil {
		p.openComposed(cid)
		return
	}

	fx0 := cr.FX0
	if p.has(OpenWithInvalidFx0) && cr.Owner.ID == p.Params.PartyID().ID {
		fx0 = field.Sample(p.Params.FieldPrime(), p.Params.Degree()+1, fx0.Evaluate(big.NewInt(0)), p.rnd)
	}
	msg := party.NewMessage(p.Params.PartyID())
	if cr.Owner.ID == p.Params.PartyID().ID && !p.has(DesignatedOpenDoNotOpenRejected) {
		msg.SetVerifiableShare(fx0)
	}
	p.broadcast(msg)
	p.interact()

	ownerMsg := p.recvBroadcast(cr.Owner)
	if ownerMsg == nil || ownerMsg.VerifiableShare == nil {
		if err := p.addCorrupt(cr.Owner); err != nil {
			panic(err)
		}
		return
	}
	ownerFx0 := ownerMsg.VerifiableShare.Poly

	verifier := ownerFx0.EvaluateInt(p.Params.PartyID().ID)
	if p.has(OpenSendInvalidVerifiers) {
		verifier = new(big.Int).Add(verifier, big.NewInt(1))
	}
	verifierMsg := party.NewMessage(p.Params.PartyID())
	verifierMsg.AddVerifier(cid, verifier)
	p.broadcast(verifierMsg)
	p.interact()

	agree := 0
	for _, peer := range p.Params.Parties().IDs() {
		m := p.recvBroadcast(peer)
		if m == nil {
			continue
		}
		if v, ok := m.GetVerifier(cid); ok && v.Cmp(ownerFx0.EvaluateInt(peer.ID)) == 0 {
			agree++
		}
	}

	if ownerFx0.DegreeCheckLTE(p.Params.Degree()) && agree > 2*p.Params.Degree() {
		cr.SetOpenedValue(ownerFx0.Evaluate(big.NewInt(0)))
	} else {
		if err := p.addCorrupt(cr.Owner); err != nil {
			panic(err)
		}
	}
}

// openComposed is open()'s counterpart for commitments with no single owner
// (addCommitments/constMultCommitment/subtractCommitments results): rather than an
// owner broadcasting fx0, every honest party simply broadcasts its own already-agreed
// degree-d share and the value is recovered by Lagrange interpolation — the same
// technique ceps.go's reconstructOutput uses for the circuit's output wire.
func (p *Party) openComposed(cid party.CommitmentID) {
	cr := p.Commitments.Get(cid)

	msg := party.NewMessage(p.Params.PartyID())
	msg.Share = cr.Share
	p.broadcast(msg)
	p.interact()

	honest := p.honestPartyIDs()
	var xs, shares []*big.Int
	for _, peer := range honest {
		var share *big.Int
		if peer.ID == p.Params.PartyID().ID {
			share = cr.Share
		} else {
			m := p.recvBroadcast(peer)
			if m == nil || m.Share == nil {
				if err := p.addCorrupt(peer); err != nil {
					panic(err)
				}
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
	cr.SetOpenedValue(field.Recombine(xs, shares, p.Params.FieldPrime()))
}

// addCommitments returns the commitment for cid1+cid2, a purely local linear operation
// over each honest party's own share (spec.md §4.5.2's "commitment addition performed
// by every party... renamed to a deterministic result name").
func (p *Party) addCommitments(cid1, cid2 party.CommitmentID) party.CommitmentID {
	r1, r2 := p.Commitments.Get(cid1), p.Commitments.Get(cid2)
	resultID := commitment.NameAdd(cid1, cid2)
	if p.Commitments.Exists(resultID) {
		return resultID
	}
	cr := p.Commitments.AddRecord(nil, resultID)
	cr.Share = common.ModInt(p.Params.FieldPrime()).Add(r1.Share, r2.Share)
	cr.Success = true
	cr.SetDone(true)
	return resultID
}

// constMultCommitment returns the commitment for c*cid.
func (p *Party) constMultCommitment(c *big.Int, cid party.CommitmentID) party.CommitmentID {
	r := p.Commitments.Get(cid)
	resultID := commitment.NameCMul(c, cid)
	if p.Commitments.Exists(resultID) {
		return resultID
	}
	cr := p.Commitments.AddRecord(nil, resultID)
	cr.Share = common.ModInt(p.Params.FieldPrime()).Mul(c, r.Share)
	cr.Success = true
	cr.SetDone(true)
	return resultID
}

// constAddCommitment returns the commitment for cid+c (an add with a constant, realized
// as publicCommit(c) combined with addCommitments — neither needs interaction). The
// constant's own record is owner-less like an addCommitments/constMultCommitment
// result: publicCommit forces every party to the identical scalar c as its "share" (a
// degree-0 polynomial evaluates to c everywhere), so no single party distributes it.
func (p *Party) constAddCommitment(c *big.Int, cid party.CommitmentID) party.CommitmentID {
	constCid := party.CommitmentID("const_" + c.String())
	if !p.Commitments.Exists(constCid) {
		cc := p.Commitments.AddRecord(nil, constCid)
		p.publicCommit(cc, c)
	}
	return p.addCommitments(cid, constCid)
}

// subtractCommitments returns the commitment for cid1-cid2.
func (p *Party) subtractCommitments(cid1, cid2 party.CommitmentID) party.CommitmentID {
	neg := p.constMultCommitment(big.NewInt(-1), cid2)
	return p.addCommitments(cid1, neg)
}

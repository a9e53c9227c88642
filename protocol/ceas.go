// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/binance-chain/mpc-circuit-sim/circuit"
	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/common"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// runPceas drives CEAS and, with randomization, CEAS-with-Randomization (spec.md
// §4.5.2): optional triple preprocessing, VSS input sharing, gate-by-gate evaluation
// over commitment ids instead of raw shares, and designated-open-based output
// reconstruction.
func (p *Party) runPceas(randomized bool) {
	if randomized {
		p.runPreprocessing()
	}
	p.distributeInputsCEAS()
	p.evaluateGatesCEAS(randomized)
	p.reconstructOutputCEAS()
}

// runPreprocessing generates, for every MUL gate, a multiplication triple ⟦x⟧, ⟦y⟧,
// ⟦xy⟧ ahead of evaluation (spec.md §4.5.2 point 1): x and y are each the sum of every
// party's own VSS-distributed random scalar (so no single party, and no coalition
// short of the whole set, ever learns x or y), and xy is produced by the same verified
// multiplyCommitments used for non-randomized MUL gates — its internal per-owner VSS
// redistribution is exactly the "then VSS-redistributed" step the spec calls for, so no
// further round is needed here.
func (p *Party) runPreprocessing() {
	for _, g := range p.Circuit.Gates {
		if g.Type != circuit.MUL {
			continue
		}
		x := p.vssDistributedRandom(g.Number, commitment.TripleM1)
		y := p.vssDistributedRandom(g.Number, commitment.TripleM2)
		xy := p.multiplyCommitments(x, y)
		p.triples[g.Number] = &Triple{X: x, Y: y, XY: xy}
	}
}

// vssDistributedRandom has every party VSS-distribute its own random field element
// under a name derived from gateNumber and stage, then sums the N resulting
// commitments (a purely local operation) into one owner-less commitment to their sum.
func (p *Party) vssDistributedRandom(gateNumber int, stage commitment.TripleStage) party.CommitmentID {
	var sum party.CommitmentID
	for _, owner := range p.Params.Parties().IDs() {
		var val *big.Int
		if owner.ID == p.Params.PartyID().ID {
			val = p.rnd.Below(p.Params.FieldPrime())
		}
		suffix := commitment.NameTriple(owner, stage, gateNumber)
		cid := p.commit(owner, val, suffix)
		if sum == "" {
			sum = cid
			continue
		}
		sum = p.addCommitments(sum, cid)
	}
	return sum
}

// distributeInputsCEAS runs spec.md §4.5.2 point 2: every party loops once per distinct
// circuit input label, each iteration having every one of the N parties VSS-distribute
// either one of its own secrets (tagged with that label) or a zero filler, so no
// observer can tell from round count alone how many secrets any party holds. A record
// tagged with a label is bound to the matching circuit input wire as soon as it
// finishes.
func (p *Party) distributeInputsCEAS() {
	labels := p.Circuit.UnassignedLabels()
	needed := make(map[string]bool, len(labels))
	for _, label := range labels {
		needed[label] = true
	}

	ownLabels := make([]string, 0, len(p.secrets))
	for label := range p.secrets {
		if needed[label] {
			ownLabels = append(ownLabels, label)
		}
	}
	sort.Strings(ownLabels)

	for iter := 0; iter < len(labels); iter++ {
		for _, owner := range p.Params.Parties().IDs() {
			var val *big.Int
			var label string
			if owner.ID == p.Params.PartyID().ID && iter < len(ownLabels) {
				label = ownLabels[iter]
				val = p.secrets[label]
			} else if owner.ID == p.Params.PartyID().ID {
				val = big.NewInt(0)
			}
			suffix := fmt.Sprintf("input#%d", iter)
			cid := p.commitLabeled(owner, val, suffix, label)

			cr := p.Commitments.Get(cid)
			if cr.Input && cr.InputLabel != "" {
				if err := p.Circuit.AssignInputCid(cr.InputLabel, cid); err != nil {
					panic(errors.Wrapf(err, "distributeInputsCEAS: label %q", cr.InputLabel))
				}
			}
		}
	}
}

// evaluateGatesCEAS walks the circuit in the same deterministic topological order CEPS
// uses, replacing raw field arithmetic with commitment operations (spec.md §4.5.2
// point 3).
func (p *Party) evaluateGatesCEAS(randomized bool) {
	for {
		g := p.Circuit.Next()
		if g == nil {
			break
		}
		switch g.Type {
		case circuit.ADD:
			a := p.Circuit.Wires[g.Inputs[0]].Cid
			b := p.Circuit.Wires[g.Inputs[1]].Cid
			p.Circuit.AssignResultCid(g, p.addCommitments(a, b))
		case circuit.CMUL:
			a := p.Circuit.Wires[g.Inputs[0]].Cid
			p.Circuit.AssignResultCid(g, p.constMultCommitment(g.Const, a))
		case circuit.MUL:
			a := p.Circuit.Wires[g.Inputs[0]].Cid
			b := p.Circuit.Wires[g.Inputs[1]].Cid
			if randomized {
				p.Circuit.AssignResultCid(g, p.evaluateMulGateRandomized(g, a, b))
			} else {
				p.Circuit.AssignResultCid(g, p.multiplyCommitments(a, b))
			}
		}
	}
}

// evaluateMulGateRandomized is the randomization variant's per-gate MUL evaluation
// (spec.md §4.5.2): with the gate's preprocessed triple (⟦x⟧,⟦y⟧,⟦xy⟧) already in
// hand, it needs only two opens (of a−x and b−y) rather than a fresh verified
// multiplication, pushing the expensive work into preprocessing.
func (p *Party) evaluateMulGateRandomized(g *circuit.Gate, a, b party.CommitmentID) party.CommitmentID {
	triple := p.triples[g.Number]
	if triple == nil {
		panic(errors.Errorf("protocol: gate %d has no preprocessed multiplication triple", g.Number))
	}

	eCid := p.subtractCommitments(a, triple.X)
	dCid := p.subtractCommitments(b, triple.Y)
	p.open(eCid)
	p.open(dCid)

	eVal := p.Commitments.Get(eCid).OpenedValue
	dVal := p.Commitments.Get(dCid).OpenedValue
	modQ := common.ModInt(p.Params.FieldPrime())

	result := p.addCommitments(triple.XY, p.constMultCommitment(eVal, b))
	result = p.addCommitments(result, p.constMultCommitment(dVal, a))
	result = p.constAddCommitment(modQ.Neg(modQ.Mul(eVal, dVal)), result)
	return result
}

// reconstructOutputCEAS is spec.md §4.5.2 point 4, specialized to this simulator's
// single data user: every party designated-opens the circuit's single output
// commitment to the data user (no round-robin is needed, since there is only ever one
// target here — the concern the spec's round-robin avoids only arises with several
// simultaneous designated-open targets, as inside multiplyCommitments' verification
// loop). The data user reads the outcome designatedOpen already recorded for it.
func (p *Party) reconstructOutputCEAS() {
	outputCid, err := p.Circuit.RetrieveOutputCid()
	if err != nil {
		panic(err)
	}
	p.designatedOpen(outputCid, p.Params.DataUser())

	if !p.isDataUser() {
		return
	}
	cr := p.Commitments.Get(outputCid)
	if !cr.Opened {
		p.notEnoughShares = true
		return
	}
	p.result = new(big.Int).Set(cr.OpenedValue)
}

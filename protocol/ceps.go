// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/mpc-circuit-sim/circuit"
	"github.com/binance-chain/mpc-circuit-sim/common"
	"github.com/binance-chain/mpc-circuit-sim/field"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// RunProtocol dispatches on the configured protocol kind (spec.md §4.5's runProtocol
// entry point) and reports the scheduler-facing participant done once finished.
func (p *Party) RunProtocol() (err error) {
	defer p.scheduler.Done()
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*party.Error); ok {
				err = perr
				return
			}
			panic(r)
		}
	}()

	if serr := p.sanityChecks(); serr != nil {
		return party.NewError(serr, "sanityChecks", 0, p.Params.PartyID())
	}

	switch p.Params.Protocol() {
	case party.CEPS:
		p.runPceps()
	case party.CEAS:
		p.runPceas(false)
	case party.CEASRandomized:
		p.runPceas(true)
	default:
		p.runDummyInteractive(1)
	}
	return nil
}

// RunProtocolSequential is runProtocol's chained counterpart (spec.md §4.5): run CEAS
// to completion on the circuit set at construction, then rebind its output commitment
// directly as nextCircuit's prevResultLabel input — every honest party already holds a
// valid degree-d share of that commitment, so carrying it forward needs no further VSS
// round, only a rename of which wire it feeds — switch to nextCircuit and run CEAS
// again. The corrupt set tracked in p.corrupted is never reset between the two runs.
func (p *Party) RunProtocolSequential(prevResultLabel string, nextCircuit *circuit.Circuit) (err error) {
	defer p.scheduler.Done()
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*party.Error); ok {
				err = perr
				return
			}
			panic(r)
		}
	}()

	if serr := p.sanityChecks(); serr != nil {
		return party.NewError(serr, "sanityChecks", 0, p.Params.PartyID())
	}
	randomized := p.Params.Protocol() == party.CEASRandomized
	p.runPceas(randomized)

	outputCid, rerr := p.Circuit.RetrieveOutputCid()
	if rerr != nil {
		panic(rerr)
	}

	p.Circuit = nextCircuit
	p.triples = make(map[int]*Triple)
	if verr := p.Circuit.Validate(); verr != nil {
		return party.NewError(errors.Wrap(verr, "second circuit validation"), "sanityChecks", p.round, p.Params.PartyID())
	}
	if aerr := p.Circuit.AssignInputCid(prevResultLabel, outputCid); aerr != nil {
		panic(aerr)
	}

	p.runPceas(randomized)
	return nil
}

// runDummyInteractive is RunProtocol's fallback for a protocol kind other than the three
// above (spec.md §9's supplemented runDummyInteractiveProtocol): it interacts `rounds` times without
// sending anything, then finishes.
func (p *Party) runDummyInteractive(rounds int) {
	for i := 0; i < rounds; i++ {
		p.interact()
	}
}

// runPceps implements spec.md §4.5.1's three phases for Circuit Evaluation with
// Passive Security.
func (p *Party) runPceps() {
	p.distributeInputs()

	for {
		g := p.Circuit.Next()
		if g == nil {
			break
		}
		switch g.Type {
		case circuit.ADD:
			a := p.Circuit.Wires[g.Inputs[0]].Value
			b := p.Circuit.Wires[g.Inputs[1]].Value
			p.Circuit.AssignResult(g, common.ModInt(p.Params.FieldPrime()).Add(a, b))
		case circuit.CMUL:
			a := p.Circuit.Wires[g.Inputs[0]].Value
			p.Circuit.AssignResult(g, common.ModInt(p.Params.FieldPrime()).Mul(g.Const, a))
		case circuit.MUL:
			p.evaluateMulGatePassive(g)
		}
	}

	p.reconstructOutput()
}

// evaluateMulGatePassive computes the local product of the two input shares (now
// degree 2d), re-shares it at degree d, and degree-reduces via the recombination
// vector, exactly as spec.md §4.5.1 phase 2 describes for CEPS.
func (p *Party) evaluateMulGatePassive(g *circuit.Gate) {
	a := p.Circuit.Wires[g.Inputs[0]].Value
	b := p.Circuit.Wires[g.Inputs[1]].Value
	localProduct := common.ModInt(p.Params.FieldPrime()).Mul(a, b)

	poly := field.Sample(p.Params.FieldPrime(), p.Params.Degree(), localProduct, p.rnd)
	for _, peer := range p.Params.Parties().IDs() {
		share := poly.EvaluateInt(peer.ID)
		if peer.ID == p.Params.PartyID().ID {
			continue
		}
		msg := party.NewMessage(p.Params.PartyID())
		msg.Share = share
		p.send(peer, msg)
	}
	p.interact()

	honest := p.honestPartyIDs()
	received := make([]*big.Int, len(honest))
	for i, peer := range honest {
		if peer.ID == p.Params.PartyID().ID {
			received[i] = poly.EvaluateInt(peer.ID)
			continue
		}
		msg := p.recv(peer)
		if msg == nil || msg.Share == nil {
			if err := p.addCorrupt(peer); err != nil {
				panic(err)
			}
			received[i] = big.NewInt(0)
			continue
		}
		received[i] = msg.Share
	}

	vec := p.recombinationVec()
	result := big.NewInt(0)
	modQ := common.ModInt(p.Params.FieldPrime())
	for i, lambda := range vec {
		result = modQ.Add(result, modQ.Mul(lambda, received[i]))
	}
	p.Circuit.AssignResult(g, result)
}

// reconstructOutput sends our output-wire share to the data user; the data user
// collects at least t shares and Lagrange-interpolates, otherwise reports "not enough
// shares" (spec.md §4.5.1 phase 3).
func (p *Party) reconstructOutput() {
	outputShare, err := p.Circuit.RetrieveOutput()
	if err != nil {
		panic(err)
	}

	msg := party.NewMessage(p.Params.PartyID())
	msg.Share = outputShare
	if p.Params.DataUser().ID != p.Params.PartyID().ID {
		p.send(p.Params.DataUser(), msg)
	}
	p.interact()

	if !p.isDataUser() {
		return
	}

	var xs, shares []*big.Int
	for _, peer := range p.Params.Parties().IDs() {
		var share *big.Int
		if peer.ID == p.Params.PartyID().ID {
			share = outputShare
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
		p.notEnoughShares = true
		return
	}
	p.result = field.Recombine(xs, shares, p.Params.FieldPrime())
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package circuit implements the arena-indexed arithmetic circuit model of spec.md §3
// and §4.3: gates and wires live in flat slices owned by the Circuit, referencing each
// other by index rather than by pointer, per spec.md §9's "cyclic wire↔gate references"
// design note (grounded on original_source/Pceas/src/circuit/{Circuit,Gate,Wire}.h).
package circuit

import (
	"fmt"
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/party"
)

// GateType tags the three gate kinds of spec.md §3. A tagged variant is preferred here
// over an interface with virtual dispatch, per spec.md §9's design note: per-gate
// behavior is a pure function of the tag.
type GateType int

const (
	ADD GateType = iota
	CMUL
	MUL
)

func (t GateType) String() string {
	switch t {
	case ADD:
		return "ADD"
	case CMUL:
		return "CMUL"
	case MUL:
		return "MUL"
	default:
		return "UNKNOWN"
	}
}

// Gate is one node of the circuit. ADD and MUL take exactly two input wires; CMUL takes
// one input wire and a scalar constant. Outputs normally holds a single wire index, but
// may hold more when the gate's result fans out to several consumers (spec.md §9:
// "Shared message ownership" applies equally to shared gate results).
type Gate struct {
	Number     int
	Type       GateType
	Const      *big.Int // only set for CMUL
	Inputs     []int    // wire indices
	Outputs    []int    // wire indices, all assigned the same result
	LocalValue *big.Int
	LocalCid   party.CommitmentID
	tapped     bool
}

// Wire is either a free input wire (PrevGate == -1), a gate-to-gate wire, or the
// circuit's single free output wire (NextGate == -1). It carries a field value under
// CEPS or a commitment id under CEAS/CEAS-randomized, never both.
type Wire struct {
	Index      int
	PrevGate   int // -1: free input wire
	NextGate   int // -1: free output wire
	InputLabel string
	Value      *big.Int
	Cid        party.CommitmentID
	Assigned   bool
}

// Circuit owns both arenas. Gates and wires never own each other directly; all
// cross-references are indices into these two slices.
type Circuit struct {
	Gates []*Gate
	Wires []*Wire
}

func NewCircuit() *Circuit {
	return &Circuit{}
}

func (c *Circuit) addWire() int {
	w := &Wire{Index: len(c.Wires), PrevGate: -1, NextGate: -1}
	c.Wires = append(c.Wires, w)
	return w.Index
}

// addInputWire creates a fresh free input wire labelled label. Calling this more than
// once with the same label is how the same secret fans out to several gates (spec.md
// §4.3: "Same label may appear multiple times").
func (c *Circuit) addInputWire(label string) int {
	idx := c.addWire()
	c.Wires[idx].InputLabel = label
	return idx
}

// addGate appends a new gate consuming the given (already-existing) input wires and
// returns its number. A fresh, still-dangling output wire is created for it.
func (c *Circuit) addGate(t GateType, constant *big.Int, inputs ...int) int {
	num := len(c.Gates) + 1
	g := &Gate{Number: num, Type: t, Const: constant, Inputs: inputs}
	outIdx := c.addWire()
	g.Outputs = []int{outIdx}
	c.Wires[outIdx].PrevGate = num
	for _, wi := range inputs {
		c.Wires[wi].NextGate = num
	}
	c.Gates = append(c.Gates, g)
	return num
}

// tap returns a wire carrying gateNumber's result, suitable for use as another gate's
// input. The first call after addGate reuses the gate's still-dangling default output
// wire; each further call allocates an additional output wire, so a single gate's result
// can fan out to any number of consumers (circuit/comparator.go's running-product chain)
// while every allocated output wire ends up consumed by exactly one later gate, save for
// the one that remains the circuit's free output.
func (c *Circuit) tap(gateNumber int) int {
	g := c.Gates[gateNumber-1]
	if !g.tapped {
		g.tapped = true
		if c.Wires[g.Outputs[0]].NextGate == -1 {
			return g.Outputs[0]
		}
	}
	idx := c.addWire()
	c.Wires[idx].PrevGate = gateNumber
	g.Outputs = append(g.Outputs, idx)
	return idx
}

// InputCount returns the number of free input wires.
func (c *Circuit) InputCount() int {
	n := 0
	for _, w := range c.Wires {
		if w.PrevGate == -1 {
			n++
		}
	}
	return n
}

// Labels returns the set of distinct input labels in the circuit.
func (c *Circuit) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, w := range c.Wires {
		if w.PrevGate == -1 && w.InputLabel != "" && !seen[w.InputLabel] {
			seen[w.InputLabel] = true
			labels = append(labels, w.InputLabel)
		}
	}
	return labels
}

// UnassignedLabels is Labels filtered to wires not yet bound to a value or commitment
// id — runProtocolSequential's second circuit has its prevResultLabel input already
// bound before its own CEAS run starts, and that run must not re-distribute it.
func (c *Circuit) UnassignedLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, w := range c.Wires {
		if w.PrevGate == -1 && w.InputLabel != "" && !w.Assigned && !seen[w.InputLabel] {
			seen[w.InputLabel] = true
			labels = append(labels, w.InputLabel)
		}
	}
	return labels
}

// outputWire locates the circuit's single free output wire.
func (c *Circuit) outputWire() (*Wire, error) {
	var found *Wire
	for _, w := range c.Wires {
		if w.NextGate == -1 {
			if found != nil {
				return nil, fmt.Errorf("circuit: more than one free output wire")
			}
			found = w
		}
	}
	if found == nil {
		return nil, fmt.Errorf("circuit: no free output wire")
	}
	return found, nil
}

// Validate enforces spec.md §3's invariant: exactly one free output wire, and every
// ADD/MUL gate has two inputs while every CMUL gate has one.
func (c *Circuit) Validate() error {
	if _, err := c.outputWire(); err != nil {
		return err
	}
	for _, g := range c.Gates {
		switch g.Type {
		case ADD, MUL:
			if len(g.Inputs) != 2 {
				return fmt.Errorf("circuit: gate %d (%s) must have 2 inputs, has %d", g.Number, g.Type, len(g.Inputs))
			}
		case CMUL:
			if len(g.Inputs) != 1 {
				return fmt.Errorf("circuit: gate %d (CMUL) must have 1 input, has %d", g.Number, len(g.Inputs))
			}
			if g.Const == nil {
				return fmt.Errorf("circuit: gate %d (CMUL) missing constant", g.Number)
			}
		}
	}
	return nil
}

// AssignInput binds val to every free input wire carrying label (spec.md §4.3: repeated
// labels all resolve to the same value).
func (c *Circuit) AssignInput(label string, val *big.Int) error {
	matched := false
	for _, w := range c.Wires {
		if w.PrevGate == -1 && w.InputLabel == label {
			w.Value = new(big.Int).Set(val)
			w.Assigned = true
			matched = true
		}
	}
	if !matched {
		return fmt.Errorf("circuit: no wire with label %q", label)
	}
	return nil
}

// AssignInputCid is AssignInput's CEAS counterpart, binding a commitment id instead of a
// raw value.
func (c *Circuit) AssignInputCid(label string, cid party.CommitmentID) error {
	matched := false
	for _, w := range c.Wires {
		if w.PrevGate == -1 && w.InputLabel == label {
			w.Cid = cid
			w.Assigned = true
			matched = true
		}
	}
	if !matched {
		return fmt.Errorf("circuit: no wire with label %q", label)
	}
	return nil
}

// RetrieveOutput copies the value on the circuit's free output wire. A copy, not the
// live gate-local scratch value, per spec.md §9 Open Question (b).
func (c *Circuit) RetrieveOutput() (*big.Int, error) {
	w, err := c.outputWire()
	if err != nil {
		return nil, err
	}
	if !w.Assigned {
		return nil, fmt.Errorf("circuit: output wire not yet assigned")
	}
	return new(big.Int).Set(w.Value), nil
}

// RetrieveOutputCid is RetrieveOutput's CEAS counterpart.
func (c *Circuit) RetrieveOutputCid() (party.CommitmentID, error) {
	w, err := c.outputWire()
	if err != nil {
		return "", err
	}
	if !w.Assigned {
		return "", fmt.Errorf("circuit: output wire not yet assigned")
	}
	return w.Cid, nil
}

// IsReady reports whether every input wire of g is assigned.
func (c *Circuit) IsReady(g *Gate) bool {
	for _, wi := range g.Inputs {
		if !c.Wires[wi].Assigned {
			return false
		}
	}
	return true
}

// IsProcessed reports whether every output wire of g is assigned.
func (c *Circuit) IsProcessed(g *Gate) bool {
	for _, wi := range g.Outputs {
		if !c.Wires[wi].Assigned {
			return false
		}
	}
	return true
}

// Next returns the ready-but-unprocessed gate with the smallest gate number, or nil if
// none remain (spec.md §4.5.1: "always picking the ready-but-unprocessed gate with
// smallest number" enforces a deterministic topological order across all parties).
func (c *Circuit) Next() *Gate {
	var best *Gate
	for _, g := range c.Gates {
		if c.IsProcessed(g) || !c.IsReady(g) {
			continue
		}
		if best == nil || g.Number < best.Number {
			best = g
		}
	}
	return best
}

// AssignResult assigns val to g's local result and to every one of its output wires
// (spec.md's CEPS gate evaluation).
func (c *Circuit) AssignResult(g *Gate, val *big.Int) {
	g.LocalValue = val
	for _, wi := range g.Outputs {
		w := c.Wires[wi]
		w.Value = new(big.Int).Set(val)
		w.Assigned = true
	}
}

// AssignResultCid is AssignResult's CEAS counterpart.
func (c *Circuit) AssignResultCid(g *Gate, cid party.CommitmentID) {
	g.LocalCid = cid
	for _, wi := range g.Outputs {
		w := c.Wires[wi]
		w.Cid = cid
		w.Assigned = true
	}
}

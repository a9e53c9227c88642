// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package circuit

import (
	"fmt"
	"math/big"
)

// GenerateComparator builds a circuit yielding 1 if a > b, 0 otherwise, for two
// bitlength-bit values supplied as labelA0..labelA{bitlength-1} and
// labelB0..labelB{bitlength-1} (bit 0 least significant), plus a constant-1 input bound
// to labelOne (spec.md §4.3). Grounded on
// original_source/Pceas/src/circuit/CircuitGenerator.cpp's generateComparator:
//
//   - c_i = XOR(a_i,b_i) = a_i+b_i+(a_i*b_i).-2   ("bits differ at i")
//   - g_i = g_{i+1} * (1 - c_i), with g_{l+1} := 1  ("every bit above i agrees")
//   - df_i = g_{i+1} - g_i                          ("i is the most-significant differing bit")
//   - result = sum_i a_i * df_i
//
// The original generates each XOR/SUB/MUL/ADD piece as an independent text-grammar
// Circuit and splices the fragments together with connectCircuits/combine. This instead
// builds directly into one arena with Circuit.tap threading the running product g_i
// through the loop, so a value computed once fans out to its two consumers (the next
// iteration's g and df) without being recomputed.
func GenerateComparator(bitlength int, labelA, labelB, labelOne string) (*Circuit, error) {
	if bitlength <= 0 {
		return nil, fmt.Errorf("circuit: bad bitlength %d", bitlength)
	}
	c := NewCircuit()
	l := bitlength - 1
	negOne := big.NewInt(-1)
	negTwo := big.NewInt(-2)

	prevGGate := -1 // gate number producing g_{i+1}; -1 means "use labelOne directly"
	dfGates := make([]int, bitlength)

	for i := l; i >= 0; i-- {
		ai := fmt.Sprintf("%s%d", labelA, i)
		bi := fmt.Sprintf("%s%d", labelB, i)

		// c_i = a_i + b_i + (a_i*b_i).-2
		sumABGate := c.addGate(ADD, nil, c.addInputWire(ai), c.addInputWire(bi))
		mulABGate := c.addGate(MUL, nil, c.addInputWire(ai), c.addInputWire(bi))
		cmulGate := c.addGate(CMUL, negTwo, c.tap(mulABGate))
		xorGate := c.addGate(ADD, nil, c.tap(sumABGate), c.tap(cmulGate))

		// omc_i = 1 - c_i
		negXorGate := c.addGate(CMUL, negOne, c.tap(xorGate))
		omcGate := c.addGate(ADD, nil, c.addInputWire(labelOne), c.tap(negXorGate))

		// g_i = g_{i+1} * omc_i
		gSrcForG := prevGGate
		var gSrcWireForG int
		if gSrcForG == -1 {
			gSrcWireForG = c.addInputWire(labelOne)
		} else {
			gSrcWireForG = c.tap(gSrcForG)
		}
		thisGGate := c.addGate(MUL, nil, gSrcWireForG, c.tap(omcGate))

		// df_i = g_{i+1} - g_i
		var gSrcWireForDf int
		if prevGGate == -1 {
			gSrcWireForDf = c.addInputWire(labelOne)
		} else {
			gSrcWireForDf = c.tap(prevGGate)
		}
		negGGate := c.addGate(CMUL, negOne, c.tap(thisGGate))
		dfGate := c.addGate(ADD, nil, gSrcWireForDf, c.tap(negGGate))

		dfGates[i] = dfGate
		prevGGate = thisGGate
	}

	// result = sum_i a_i * df_i
	sumGate := -1
	for i := l; i >= 0; i-- {
		ai := fmt.Sprintf("%s%d", labelA, i)
		termGate := c.addGate(MUL, nil, c.addInputWire(ai), c.tap(dfGates[i]))
		if sumGate == -1 {
			sumGate = termGate
			continue
		}
		sumGate = c.addGate(ADD, nil, c.tap(sumGate), c.tap(termGate))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

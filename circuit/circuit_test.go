// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package circuit

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuit_ManualAddGate(t *testing.T) {
	c := NewCircuit()
	wa := c.addInputWire("a")
	wb := c.addInputWire("b")
	c.addGate(ADD, nil, wa, wb)

	require.NoError(t, c.Validate())
	assert.Equal(t, 2, c.InputCount())

	require.NoError(t, c.AssignInput("a", big.NewInt(3)))
	require.NoError(t, c.AssignInput("b", big.NewInt(4)))

	next := c.Next()
	require.NotNil(t, next)
	c.AssignResult(next, big.NewInt(7))

	assert.Nil(t, c.Next(), "no gate should remain ready after the only gate is processed")

	out, err := c.RetrieveOutput()
	require.NoError(t, err)
	assert.Equal(t, "7", out.String())
}

func TestCircuit_MissingLabelIsAnError(t *testing.T) {
	c := NewCircuit()
	c.addInputWire("a")
	err := c.AssignInput("z", big.NewInt(1))
	assert.Error(t, err)
}

func TestCircuit_RetrieveOutputReturnsACopy(t *testing.T) {
	c := NewCircuit()
	wa := c.addInputWire("a")
	wb := c.addInputWire("b")
	g := c.addGate(ADD, nil, wa, wb)

	require.NoError(t, c.AssignInput("a", big.NewInt(1)))
	require.NoError(t, c.AssignInput("b", big.NewInt(2)))
	c.AssignResult(c.Gates[g-1], big.NewInt(3))

	out1, err := c.RetrieveOutput()
	require.NoError(t, err)
	out1.Add(out1, big.NewInt(100))

	out2, err := c.RetrieveOutput()
	require.NoError(t, err)
	assert.Equal(t, "3", out2.String(), "mutating a retrieved output must not affect the circuit's stored value")
}

func TestCircuit_TapFansOutAndLeavesSingleFreeOutput(t *testing.T) {
	c := NewCircuit()
	wa := c.addInputWire("a")
	g1 := c.addGate(CMUL, big.NewInt(2), wa)

	// g1's result feeds two different consumers: tap must allocate a second wire for the
	// second consumer while reusing the first, still-dangling output wire for the first.
	w1 := c.tap(g1)
	w2 := c.tap(g1)
	assert.NotEqual(t, w1, w2)

	wb := c.addInputWire("b")
	wc := c.addInputWire("c")
	gA := c.addGate(ADD, nil, w1, wb)
	gB := c.addGate(ADD, nil, w2, wc)
	c.addGate(ADD, nil, c.tap(gA), c.tap(gB))

	require.NoError(t, c.Validate())
}

func TestCircuit_ValidateRejectsMoreThanOneFreeOutput(t *testing.T) {
	c := NewCircuit()
	wa := c.addInputWire("a")
	wb := c.addInputWire("b")
	c.addGate(ADD, nil, wa, wb)
	c.addInputWire("c") // an extra free wire that's neither consumed nor the circuit's output

	assert.Error(t, c.Validate())
}

func TestCircuit_NextPicksSmallestReadyGateNumber(t *testing.T) {
	c := NewCircuit()
	wa := c.addInputWire("a")
	wb := c.addInputWire("b")
	g1 := c.addGate(ADD, nil, wa, wb) // ready once a,b assigned
	g2 := c.addGate(CMUL, big.NewInt(3), c.tap(g1))

	require.NoError(t, c.AssignInput("a", big.NewInt(1)))
	require.NoError(t, c.AssignInput("b", big.NewInt(2)))

	next := c.Next()
	require.NotNil(t, next)
	assert.Equal(t, g1, next.Number)

	c.AssignResult(next, big.NewInt(3))
	next = c.Next()
	require.NotNil(t, next)
	assert.Equal(t, g2, next.Number)
}

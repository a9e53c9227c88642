// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package circuit_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/circuit"
)

func evalExpr(t *testing.T, expr string, inputs map[string]int64) *big.Int {
	t.Helper()
	c, err := circuit.Parse(expr)
	require.NoError(t, err)
	for label, val := range inputs {
		require.NoError(t, c.AssignInput(label, big.NewInt(val)))
	}
	for {
		g := c.Next()
		if g == nil {
			break
		}
		var result *big.Int
		switch g.Type {
		case circuit.ADD:
			a, b := c.Wires[g.Inputs[0]].Value, c.Wires[g.Inputs[1]].Value
			result = new(big.Int).Add(a, b)
		case circuit.MUL:
			a, b := c.Wires[g.Inputs[0]].Value, c.Wires[g.Inputs[1]].Value
			result = new(big.Int).Mul(a, b)
		case circuit.CMUL:
			result = new(big.Int).Mul(c.Wires[g.Inputs[0]].Value, g.Const)
		}
		c.AssignResult(g, result)
	}
	out, err := c.RetrieveOutput()
	require.NoError(t, err)
	return out
}

func TestParse_SimpleAddition(t *testing.T) {
	out := evalExpr(t, "a+b", map[string]int64{"a": 3, "b": 4})
	assert.Equal(t, "7", out.String())
}

func TestParse_PrecedenceMulBeforeAdd(t *testing.T) {
	out := evalExpr(t, "a+b*c", map[string]int64{"a": 1, "b": 2, "c": 3})
	assert.Equal(t, "7", out.String())
}

func TestParse_Parentheses(t *testing.T) {
	out := evalExpr(t, "(a+b)*c", map[string]int64{"a": 1, "b": 2, "c": 3})
	assert.Equal(t, "9", out.String())
}

func TestParse_ScalarMultiply(t *testing.T) {
	out := evalExpr(t, "a.5", map[string]int64{"a": 3})
	assert.Equal(t, "15", out.String())
}

func TestParse_NegativeScalar(t *testing.T) {
	out := evalExpr(t, "a.-2", map[string]int64{"a": 3})
	assert.Equal(t, "-6", out.String())
}

func TestParse_RepeatedLabelSharesValue(t *testing.T) {
	out := evalExpr(t, "a+a", map[string]int64{"a": 5})
	assert.Equal(t, "10", out.String())
	c, err := circuit.Parse("a+a")
	require.NoError(t, err)
	assert.Equal(t, 2, c.InputCount())
	assert.Equal(t, []string{"a"}, c.Labels())
}

func TestParse_TrailingGarbageIsAnError(t *testing.T) {
	_, err := circuit.Parse("a+b)")
	assert.Error(t, err)
}

func TestParse_UnknownCharacterIsAnError(t *testing.T) {
	_, err := circuit.Parse("a+%")
	assert.Error(t, err)
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package circuit_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/circuit"
)

// evalComparator assigns a and b's bit decompositions (bit 0 least significant) to a
// freshly generated comparator circuit and evaluates it gate by gate.
func evalComparator(t *testing.T, bitlength int, a, b int64) int64 {
	t.Helper()
	c, err := circuit.GenerateComparator(bitlength, "a", "b", "one")
	require.NoError(t, err)

	require.NoError(t, c.AssignInput("one", big.NewInt(1)))
	for i := 0; i < bitlength; i++ {
		require.NoError(t, c.AssignInput(fmt.Sprintf("a%d", i), big.NewInt((a>>uint(i))&1)))
		require.NoError(t, c.AssignInput(fmt.Sprintf("b%d", i), big.NewInt((b>>uint(i))&1)))
	}

	for {
		g := c.Next()
		if g == nil {
			break
		}
		var result *big.Int
		switch g.Type {
		case circuit.ADD:
			x, y := c.Wires[g.Inputs[0]].Value, c.Wires[g.Inputs[1]].Value
			result = new(big.Int).Add(x, y)
		case circuit.MUL:
			x, y := c.Wires[g.Inputs[0]].Value, c.Wires[g.Inputs[1]].Value
			result = new(big.Int).Mul(x, y)
		case circuit.CMUL:
			result = new(big.Int).Mul(c.Wires[g.Inputs[0]].Value, g.Const)
		}
		c.AssignResult(g, result)
	}

	out, err := c.RetrieveOutput()
	require.NoError(t, err)
	return out.Int64()
}

func TestGenerateComparator_AllPairsUpToFourBits(t *testing.T) {
	const bitlength = 4
	const max = 1 << bitlength
	for a := int64(0); a < max; a++ {
		for b := int64(0); b < max; b++ {
			want := int64(0)
			if a > b {
				want = 1
			}
			got := evalComparator(t, bitlength, a, b)
			assert.Equalf(t, want, got, "a=%d b=%d", a, b)
		}
	}
}

func TestGenerateComparator_SingleBit(t *testing.T) {
	assert.EqualValues(t, 1, evalComparator(t, 1, 1, 0))
	assert.EqualValues(t, 0, evalComparator(t, 1, 0, 1))
	assert.EqualValues(t, 0, evalComparator(t, 1, 1, 1))
	assert.EqualValues(t, 0, evalComparator(t, 1, 0, 0))
}

func TestGenerateComparator_RejectsNonPositiveBitlength(t *testing.T) {
	_, err := circuit.GenerateComparator(0, "a", "b", "one")
	assert.Error(t, err)
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binance-chain/mpc-circuit-sim/common"
	"github.com/binance-chain/mpc-circuit-sim/field"
)

var testMod = big.NewInt(2039)

func TestPolynomial_EvaluateConstant(t *testing.T) {
	p := field.Zero(testMod, 2, big.NewInt(7))
	assert.Equal(t, big.NewInt(7), p.Evaluate(big.NewInt(0)))
	assert.Equal(t, big.NewInt(7), p.EvaluateInt(5))
}

func TestPolynomial_SampleAndReconstruct(t *testing.T) {
	rnd := common.NewDeterministicRand(1)
	secret := big.NewInt(112)
	degree := 2
	p := field.Sample(testMod, degree, secret, rnd)
	assert.True(t, p.DegreeCheckLTE(degree))

	xs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	shares := make([]*big.Int, len(xs))
	for i, x := range xs {
		shares[i] = p.Evaluate(x)
	}
	got := field.Recombine(xs, shares, testMod)
	assert.Equal(t, secret.String(), got.String())
}

func TestPolynomial_AddScalarMulNegate(t *testing.T) {
	a := field.NewPolynomial(testMod, []*big.Int{big.NewInt(1), big.NewInt(2)})
	b := field.NewPolynomial(testMod, []*big.Int{big.NewInt(3), big.NewInt(4), big.NewInt(5)})

	sum := a.Add(b)
	assert.Equal(t, big.NewInt(4), sum.Evaluate(big.NewInt(0)))

	scaled := a.ScalarMul(big.NewInt(3))
	assert.Equal(t, big.NewInt(3), scaled.Evaluate(big.NewInt(0)))

	neg := a.Negate()
	zero := a.Add(neg)
	assert.True(t, zero.DegreeCheckEQ(-1), "p + (-p) must be the zero polynomial")
}

func TestPolynomial_DegreeChecks(t *testing.T) {
	p := field.NewPolynomial(testMod, []*big.Int{big.NewInt(1), big.NewInt(0), big.NewInt(0)})
	assert.True(t, p.DegreeCheckEQ(0))
	assert.True(t, p.DegreeCheckLTE(2))
	assert.False(t, p.DegreeCheckEQ(2))
}

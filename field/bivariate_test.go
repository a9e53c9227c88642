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

func TestSymmetricBivariatePoly_Symmetric(t *testing.T) {
	rnd := common.NewDeterministicRand(1)
	b := field.NewSymmetricBivariatePoly(testMod, 2)
	b.SampleBivariate(big.NewInt(42), rnd)

	for k := 1; k <= 3; k++ {
		for l := 1; l <= 3; l++ {
			assert.Equal(t, b.EvaluatePoint(k, l).String(), b.EvaluatePoint(l, k).String(),
				"f(k,l) must equal f(l,k) for a symmetric bivariate polynomial")
		}
	}
}

func TestSymmetricBivariatePoly_EvaluateAtZeroIsShareSource(t *testing.T) {
	rnd := common.NewDeterministicRand(2)
	secret := big.NewInt(112)
	b := field.NewSymmetricBivariatePoly(testMod, 1)
	b.SampleBivariate(secret, rnd)

	fx := b.EvaluateAtZero()
	assert.Equal(t, secret.String(), fx.Evaluate(big.NewInt(0)).String())

	for k := 1; k <= 2; k++ {
		assert.Equal(t, fx.EvaluateInt(k).String(), b.EvaluatePoint(0, k).String())
	}
}

func TestSymmetricBivariatePoly_EvaluateMatchesEvaluatePoint(t *testing.T) {
	rnd := common.NewDeterministicRand(3)
	b := field.NewSymmetricBivariatePoly(testMod, 2)
	b.SampleBivariate(big.NewInt(7), rnd)

	fk := b.Evaluate(2)
	assert.Equal(t, fk.EvaluateInt(3).String(), b.EvaluatePoint(2, 3).String())
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binance-chain/mpc-circuit-sim/common"
)

func TestDeterministicRand_Below(t *testing.T) {
	mod := big.NewInt(2039)
	rnd := common.NewDeterministicRand(1)
	v := rnd.Below(mod)
	assert.True(t, common.IsInInterval(v, mod))
}

func TestDeterministicRand_Reproducible(t *testing.T) {
	mod := big.NewInt(2039)
	a := common.NewDeterministicRand(7)
	b := common.NewDeterministicRand(7)
	for i := 0; i < 10; i++ {
		assert.Zero(t, a.Below(mod).Cmp(b.Below(mod)))
	}
}

func TestDeterministicRand_DiffersByParty(t *testing.T) {
	mod := big.NewInt(2039)
	a := common.NewDeterministicRand(1).Below(mod)
	b := common.NewDeterministicRand(2).Below(mod)
	assert.NotZero(t, a.Cmp(b))
}

func TestDeterministicRand_NonZeroBelow(t *testing.T) {
	mod := big.NewInt(5)
	rnd := common.NewDeterministicRand(3)
	for i := 0; i < 20; i++ {
		assert.NotZero(t, rnd.NonZeroBelow(mod).Sign())
	}
}

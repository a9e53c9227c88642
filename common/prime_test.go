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

func TestProbablyPrime(t *testing.T) {
	assert.True(t, common.ProbablyPrime(big.NewInt(2039)))
	assert.True(t, common.ProbablyPrime(big.NewInt(257)))
	assert.False(t, common.ProbablyPrime(big.NewInt(2040)))
	assert.False(t, common.ProbablyPrime(big.NewInt(1)))
	assert.False(t, common.ProbablyPrime(nil))
}

func TestProbablyPrime_Large(t *testing.T) {
	large := new(big.Int).Lsh(big.NewInt(1), 200)
	large.Sub(large, big.NewInt(357)) // not a claim of primality either way, just exercises the big.Int path
	assert.False(t, large.IsInt64())
	_ = common.ProbablyPrime(large)
}

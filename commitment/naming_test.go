// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package commitment_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

func TestNameAdd_IsOrderIndependent(t *testing.T) {
	a := party.CommitmentID("party1_commitment_2")
	b := party.CommitmentID("party2_commitment_1")
	assert.Equal(t, commitment.NameAdd(a, b), commitment.NameAdd(b, a))
}

func TestNameMul_IsOrderIndependent(t *testing.T) {
	a := party.CommitmentID("party1_commitment_2")
	b := party.CommitmentID("party2_commitment_1")
	assert.Equal(t, commitment.NameMul(a, b), commitment.NameMul(b, a))
}

func TestNameCMul_IsPureFunctionOfInputs(t *testing.T) {
	c := party.CommitmentID("party1_commitment_2")
	assert.Equal(t, commitment.NameCMul(big.NewInt(5), c), commitment.NameCMul(big.NewInt(5), c))
	assert.NotEqual(t, commitment.NameCMul(big.NewInt(5), c), commitment.NameCMul(big.NewInt(6), c))
}

func TestNameTransferred_DistinguishesSourceAndTarget(t *testing.T) {
	c := party.CommitmentID("party1_commitment_2")
	p1, p2 := party.NewPartyID(1), party.NewPartyID(2)
	assert.NotEqual(t, commitment.NameTransferred(c, p1, p2), commitment.NameTransferred(c, p2, p1))
}

func TestNameTriple_DistinguishesStagesAndGates(t *testing.T) {
	owner := party.NewPartyID(1)
	n1 := commitment.NameTriple(owner, commitment.TripleM1, 4)
	n2 := commitment.NameTriple(owner, commitment.TripleM2, 4)
	n3 := commitment.NameTriple(owner, commitment.TripleM1, 5)
	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, n1, n3)
}

func TestIsReservedName(t *testing.T) {
	assert.True(t, commitment.IsReservedName(party.CommitmentID("share(input)@1@2@0")))
	assert.False(t, commitment.IsReservedName(party.CommitmentID("party1_commitment_2")))
}

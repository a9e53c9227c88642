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
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

func TestRecord_AccuserBookkeeping(t *testing.T) {
	owner := party.NewPartyID(1)
	accuser := party.NewPartyID(2)
	r := commitment.NewRecord("c1", owner, owner)

	assert.False(t, r.IsAccuser(accuser))
	r.AddAccuser(accuser)
	assert.True(t, r.IsAccuser(accuser))
	assert.Equal(t, 1, r.AccuserCount())
	r.AddAccuser(accuser) // idempotent
	assert.Equal(t, 1, r.AccuserCount())
}

func TestRecord_DisputeValueLookup(t *testing.T) {
	owner := party.NewPartyID(1)
	disputer := party.NewPartyID(2)
	disputed := party.NewPartyID(3)
	r := commitment.NewRecord("c1", owner, owner)

	r.AddDispute(disputer, disputed)
	require.Len(t, r.Disputes, 1)
	assert.False(t, r.Disputes[0].Opened)

	r.SetDisputeValue(disputer, disputed, big.NewInt(42))
	assert.True(t, r.Disputes[0].Opened)
	assert.Equal(t, "42", r.Disputes[0].Value.String())
}

func TestRecord_DesignatedOpenTargets(t *testing.T) {
	owner := party.NewPartyID(1)
	target := party.NewPartyID(2)
	r := commitment.NewRecord("c1", owner, owner)

	assert.False(t, r.IsDesignatedOpenedTo(target))
	r.AddDesignatedOpen(target)
	assert.True(t, r.IsDesignatedOpenedTo(target))
}

func TestRecord_SetOpenedValueMarksOpened(t *testing.T) {
	owner := party.NewPartyID(1)
	r := commitment.NewRecord("c1", owner, owner)
	assert.False(t, r.Opened)
	r.SetOpenedValue(big.NewInt(7))
	assert.True(t, r.Opened)
	assert.Equal(t, "7", r.OpenedValue.String())
}

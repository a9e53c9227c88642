// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/commitment"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

func TestTable_AddRecordGeneratesFreshIDsSequentially(t *testing.T) {
	p1 := party.NewPartyID(1)
	tbl := commitment.NewTable(p1)

	r1 := tbl.AddRecord(p1, "")
	r2 := tbl.AddRecord(p1, "")
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.True(t, tbl.Exists(r1.ID))
	assert.True(t, tbl.Exists(r2.ID))
}

func TestTable_ReservedNameIsRerouted(t *testing.T) {
	p1 := party.NewPartyID(1)
	tbl := commitment.NewTable(p1)
	r := tbl.AddRecord(p1, "share(input)@1@1@0")
	assert.False(t, commitment.IsReservedName(r.ID), "a user-supplied share-prefixed name must be rerouted to a fresh id")
}

func TestTable_CleanUpKeepsOnlyPermanentRecords(t *testing.T) {
	p1 := party.NewPartyID(1)
	tbl := commitment.NewTable(p1)

	transient := tbl.AddRecord(p1, "")
	permanent := tbl.AddRecord(p1, "")
	permanent.Permanent = true

	tbl.CleanUp()
	assert.False(t, tbl.Exists(transient.ID))
	assert.True(t, tbl.Exists(permanent.ID))
}

func TestTable_RecordForOngoingCommitment(t *testing.T) {
	p1, p2 := party.NewPartyID(1), party.NewPartyID(2)
	tbl := commitment.NewTable(p1)

	r := tbl.AddRecord(p2, "")
	got := tbl.RecordForOngoingCommitment(p2)
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.ID)

	r.SetDone(true)
	assert.Nil(t, tbl.RecordForOngoingCommitment(p2))
}

func TestTable_InputAndOutputShareLookup(t *testing.T) {
	p1 := party.NewPartyID(1)
	tbl := commitment.NewTable(p1)

	in := tbl.AddRecord(p1, "")
	in.SetInput("a")
	out := tbl.AddRecord(p1, "")
	out.Output = true

	assert.Equal(t, in.ID, tbl.InputShareWithLabel("a").ID)
	assert.Nil(t, tbl.InputShareWithLabel("nope"))

	outputs := tbl.OutputShares()
	require.Len(t, outputs, 1)
	assert.Equal(t, out.ID, outputs[0].ID)
}

func TestTable_Rename(t *testing.T) {
	p1 := party.NewPartyID(1)
	tbl := commitment.NewTable(p1)
	r := tbl.AddRecord(p1, "")
	oldID := r.ID
	tbl.Rename(oldID, "final_name")
	assert.False(t, tbl.Exists(oldID))
	assert.True(t, tbl.Exists("final_name"))
	assert.Equal(t, party.CommitmentID("final_name"), tbl.Get("final_name").ID)
}

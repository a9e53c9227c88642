// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package commitment implements the per-party Commitment store of spec.md §3/§4.5.3:
// records keyed by deterministic string ids, the fresh-id counter, and the naming
// schemes every honest party must reproduce byte-for-byte. Grounded on
// original_source/Pceas/src/core/{CommitmentRecord,CommitmentTable}.{h,cpp}.
package commitment

import (
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/field"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

// Record is one row of a party's commitment table (spec.md §3's Commitment record).
// A Record is thread-local: only the owning party's goroutine ever touches it (spec.md
// §5: "Commitment tables are thread-local to a party — no cross-party access").
type Record struct {
	ID           party.CommitmentID
	Owner        *party.PartyID
	RecordHolder *party.PartyID

	// VerifiableShare is what the owner sent us at commit step 1: our row of the
	// owner's bivariate, f_owner(k, y). FX0 is f(0, x) — the owner's own copy, set
	// only when this record is successful and owned locally, used later to open.
	VerifiableShare *field.Polynomial
	FX0             *field.Polynomial

	// Bivariate is the owner's sampled f(x,y), retained (owner-side only) so a VSS
	// dispute's resolution step can open any party's true row f(k,y) on demand instead
	// of trusting a single already-sent copy (spec.md §4.5.3 steps 4-5).
	Bivariate *field.SymmetricBivariatePoly

	Share *big.Int // our degree-d share f_owner(pid, 0)

	InProgress bool
	Success    bool

	Disputes []*party.DisputedValue
	Accusers map[int]bool

	Opened             bool
	OpenedValue        *big.Int
	DesignatedOpenedTo map[int]bool

	Input      bool
	InputLabel string
	Output     bool

	VSS       bool
	Permanent bool

	Distributor     *party.PartyID
	ShareNameSuffix string
	MulTriple       bool
}

// NewRecord constructs a fresh in-progress record for a commitment owned by owner and
// held locally by recordHolder.
func NewRecord(id party.CommitmentID, owner, recordHolder *party.PartyID) *Record {
	return &Record{
		ID:                 id,
		Owner:              owner,
		RecordHolder:       recordHolder,
		InProgress:         true,
		Accusers:           make(map[int]bool),
		DesignatedOpenedTo: make(map[int]bool),
	}
}

func (r *Record) SetDone(success bool) {
	r.InProgress = false
	r.Success = success
}

func (r *Record) AddAccuser(accuser *party.PartyID) {
	r.Accusers[accuser.ID] = true
}

func (r *Record) IsAccuser(p *party.PartyID) bool {
	return r.Accusers[p.ID]
}

func (r *Record) AccuserCount() int {
	return len(r.Accusers)
}

func (r *Record) AddDispute(disputer, disputed *party.PartyID) {
	r.Disputes = append(r.Disputes, &party.DisputedValue{Disputer: disputer, Disputed: disputed})
}

func (r *Record) AddDesignatedOpen(target *party.PartyID) {
	r.DesignatedOpenedTo[target.ID] = true
}

func (r *Record) IsDesignatedOpenedTo(p *party.PartyID) bool {
	return r.DesignatedOpenedTo[p.ID]
}

func (r *Record) SetOpenedValue(v *big.Int) {
	r.OpenedValue = new(big.Int).Set(v)
	r.Opened = true
}

func (r *Record) SetInput(label string) {
	r.Input = true
	r.InputLabel = label
}

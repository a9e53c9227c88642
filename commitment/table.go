// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package commitment

import (
	"fmt"

	"github.com/binance-chain/mpc-circuit-sim/party"
)

// Table is one party's commitment store (spec.md §3's Commitment table), keyed by
// CommitmentID. A per-party monotonic counter names fresh records `party<id>_commitment_<n>`
// so that, combined with identical protocol execution order, honest parties never
// collide on an auto-generated id. Grounded on
// original_source/Pceas/src/core/CommitmentTable.{h,cpp}.
type Table struct {
	pid     *party.PartyID
	counter int
	records map[party.CommitmentID]*Record
}

func NewTable(pid *party.PartyID) *Table {
	return &Table{pid: pid, records: make(map[party.CommitmentID]*Record)}
}

// freshID draws the next auto-generated commitment id for this party.
func (t *Table) freshID() party.CommitmentID {
	t.counter++
	return party.CommitmentID(fmt.Sprintf("party%d_commitment_%d", t.pid.ID, t.counter))
}

// AddRecord creates and stores a fresh in-progress record owned by owner, using an
// auto-generated id. If name is non-empty it is used instead, unless it collides with
// the reserved share-name prefix (spec.md §4.5.4), in which case a fresh name is drawn
// regardless — matching the original's "rerouted to an auto-generated fresh name".
func (t *Table) AddRecord(owner *party.PartyID, name party.CommitmentID) *Record {
	id := name
	if id == "" || IsReservedName(id) {
		id = t.freshID()
	}
	r := NewRecord(id, owner, t.pid)
	t.records[id] = r
	return r
}

// Put inserts an already-constructed record (e.g. one replayed from the owner's
// broadcast), overwriting any existing record under the same id. Structural invariant:
// callers must never insert two distinct logical commitments under the same id
// (spec.md §7: duplicate commitment id is a fatal structural breach).
func (t *Table) Put(r *Record) {
	if existing, ok := t.records[r.ID]; ok && existing != r && existing.Owner.ID != r.Owner.ID {
		panic(fmt.Sprintf("commitment: id %s re-used for a different owner", r.ID))
	}
	t.records[r.ID] = r
}

func (t *Table) Remove(id party.CommitmentID) {
	delete(t.records, id)
}

func (t *Table) Exists(id party.CommitmentID) bool {
	_, ok := t.records[id]
	return ok
}

func (t *Table) Get(id party.CommitmentID) *Record {
	return t.records[id]
}

// Rename moves a record to a new id, used when a commitment that started under an
// auto-generated name acquires its final deterministic name (e.g. a gate-result name
// computed only once both operand ids are known).
func (t *Table) Rename(oldID, newID party.CommitmentID) {
	r, ok := t.records[oldID]
	if !ok {
		return
	}
	delete(t.records, oldID)
	r.ID = newID
	t.records[newID] = r
}

// OngoingCommits returns the ids of every record still in progress.
func (t *Table) OngoingCommits() []party.CommitmentID {
	var ids []party.CommitmentID
	for id, r := range t.records {
		if r.InProgress {
			ids = append(ids, id)
		}
	}
	return ids
}

// RecordForOngoingCommitment returns the in-progress record owned by owner, or nil.
// Spec.md's protocol only ever runs one commit per owner at a time.
func (t *Table) RecordForOngoingCommitment(owner *party.PartyID) *Record {
	for _, r := range t.records {
		if r.InProgress && r.Owner.ID == owner.ID {
			return r
		}
	}
	return nil
}

// VSSharesReceivedBy returns every record this table holds a verifiable share for on
// behalf of recvPid — i.e. everything distributed to us that is still mid-VSS.
func (t *Table) VSSharesReceivedBy(recvPid *party.PartyID) []*Record {
	var out []*Record
	for _, r := range t.records {
		if r.VSS && r.RecordHolder.ID == recvPid.ID {
			out = append(out, r)
		}
	}
	return out
}

// InputShares returns every record flagged as an input share.
func (t *Table) InputShares() []*Record {
	var out []*Record
	for _, r := range t.records {
		if r.Input {
			out = append(out, r)
		}
	}
	return out
}

// InputShareWithLabel returns the input-share record bound to label, or nil.
func (t *Table) InputShareWithLabel(label string) *Record {
	for _, r := range t.records {
		if r.Input && r.InputLabel == label {
			return r
		}
	}
	return nil
}

// OutputShares returns every record flagged as an output share.
func (t *Table) OutputShares() []*Record {
	var out []*Record
	for _, r := range t.records {
		if r.Output {
			out = append(out, r)
		}
	}
	return out
}

// ClearVSSFlags clears the VSS in-progress marker from every record (done once per
// VSS sub-round boundary, mirroring the original's clearVssFlags()).
func (t *Table) ClearVSSFlags() {
	for _, r := range t.records {
		r.VSS = false
	}
}

// CleanUp discards every transient (non-permanent) record between protocol phases
// (spec.md §3: "records are either transient... or permanent").
func (t *Table) CleanUp() {
	for id, r := range t.records {
		if !r.Permanent {
			delete(t.records, id)
		}
	}
}

// Dump renders every record's non-secret attributes, used by VERBOSE-mode per-party
// commitment-table dumps (spec.md §6).
func (t *Table) Dump() string {
	s := fmt.Sprintf("commitment table for %s (%d records):\n", t.pid, len(t.records))
	for id, r := range t.records {
		s += fmt.Sprintf("  %s: owner=%s success=%v opened=%v input=%v output=%v\n",
			id, r.Owner, r.Success, r.Opened, r.Input, r.Output)
	}
	return s
}

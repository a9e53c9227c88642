// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package party

import (
	"fmt"
	"sort"
)

// PartyID identifies one of the N computing parties (spec.md §3: "party id ∈ {1..N}").
// Unlike the teacher's tss.PartyID (a protobuf-backed key used to address real network
// peers), indices here are plain 1..N integers: the simulator never needs a key
// derived from external identity since all N parties run in one address space.
type PartyID struct {
	Index   int // 0-based index into the party list
	ID      int // 1-based party id (spec.md's PartyId), == Index+1
	Moniker string
}

type SortedPartyIDs []*PartyID

// NewPartyID constructs a PartyID for the given 1-based id.
func NewPartyID(id int) *PartyID {
	return &PartyID{
		Index:   id - 1,
		ID:      id,
		Moniker: fmt.Sprintf("P[%d]", id),
	}
}

func (pid *PartyID) String() string {
	if pid == nil {
		return "{nil}"
	}
	return fmt.Sprintf("{%d,%s}", pid.ID, pid.Moniker)
}

// GeneratePartyIDs builds the sorted list P[1]..P[n].
func GeneratePartyIDs(n int) SortedPartyIDs {
	ids := make(SortedPartyIDs, n)
	for i := 0; i < n; i++ {
		ids[i] = NewPartyID(i + 1)
	}
	return ids
}

func (spids SortedPartyIDs) Len() int           { return len(spids) }
func (spids SortedPartyIDs) Less(a, b int) bool { return spids[a].ID < spids[b].ID }
func (spids SortedPartyIDs) Swap(a, b int)      { spids[a], spids[b] = spids[b], spids[a] }

var _ sort.Interface = SortedPartyIDs(nil)

// FindByID returns the PartyID with the given 1-based id, or nil.
func (spids SortedPartyIDs) FindByID(id int) *PartyID {
	for _, pid := range spids {
		if pid.ID == id {
			return pid
		}
	}
	return nil
}

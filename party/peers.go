// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package party

// PeerContext is the full party set known to every party (spec.md §3: all N parties
// are known to each other up front; there is no dynamic membership in this simulator).
type PeerContext struct {
	PartyIDs   SortedPartyIDs
	OurPartyID *PartyID
}

func NewPeerContext(parties SortedPartyIDs, ourPartyID *PartyID) *PeerContext {
	return &PeerContext{PartyIDs: parties, OurPartyID: ourPartyID}
}

func (ctx *PeerContext) IDs() SortedPartyIDs { return ctx.PartyIDs }
func (ctx *PeerContext) OurID() *PartyID     { return ctx.OurPartyID }
func (ctx *PeerContext) Count() int          { return len(ctx.PartyIDs) }

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package channel implements spec.md §4.2/§5's round-synchronous transport: one
// private channel per directed (i,j) pair, one mapping-valued consensus broadcast, and
// the future/present double-buffer every round swap promotes. Grounded on the
// synchronization idiom of original_source/Pceas/src/Simulator.cpp's per-round
// synchronizer, adapted from its raw pointer-swap to Go-native mutex-guarded maps.
package channel

import (
	"sync"

	"github.com/binance-chain/mpc-circuit-sim/party"
)

// Private carries at most one Message per round from one fixed sender to one fixed
// recipient (spec.md §4.2: "carries at most one message per round"). future is written
// by the sender during a round's local-compute phase; present is what the recipient
// reads after the scheduler's barrier swap. A Private channel has exactly one writer
// (the sender party's own goroutine) so it needs no lock of its own — the scheduler is
// the sole swapper, and swaps only happen while every party is suspended at the barrier
// (spec.md §5: "lock-free between swaps").
type Private struct {
	future  *party.Message
	present *party.Message
}

func NewPrivate() *Private {
	return &Private{}
}

// Send stages msg for delivery on the next round swap, overwriting any message already
// staged this round. A Private channel carries only one message per round, so a second
// Send before a Swap silently replaces the first — callers must send at most once per
// round, per spec.md §5's "exactly one private message per directed (i,j) pair".
func (c *Private) Send(msg *party.Message) {
	c.future = msg
}

// Swap promotes the staged message (or nil) into present and clears future. Called
// only by the scheduler at the round barrier.
func (c *Private) Swap() {
	c.present = c.future
	c.future = nil
}

// Recv returns whatever was promoted into present on the last swap — nil if the sender
// sent nothing this round, which an honest recipient treats as cheating by the sender
// (spec.md §5: "any missing message in a round is interpreted as cheating").
func (c *Private) Recv() *party.Message {
	return c.present
}

// Broadcast is the single consensus channel every party both writes to and reads from.
// future is a sender→message map, mutated concurrently by every party thread during a
// round's local-compute phase, hence the mutex (spec.md §5: "the consensus-broadcast
// buffer is mutex-protected because multiple party threads insert into its 'future' map
// concurrently"). present is read-only after a swap and needs no lock.
type Broadcast struct {
	mu      sync.Mutex
	future  map[int]*party.Message
	present map[int]*party.Message
}

func NewBroadcast() *Broadcast {
	return &Broadcast{
		future:  make(map[int]*party.Message),
		present: make(map[int]*party.Message),
	}
}

// Send stages msg as sender's broadcast for the next round swap. Spec.md §5: "at most
// one broadcast slot" per party per round; a second Send from the same sender before a
// Swap replaces the first.
func (b *Broadcast) Send(sender *party.PartyID, msg *party.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.future[sender.ID] = msg
}

// Swap clears present and promotes future (spec.md §4.2: "swapToFuture clears present
// and promotes future"). Called only by the scheduler at the round barrier, after every
// party thread has suspended, so no lock is needed here.
func (b *Broadcast) Swap() {
	b.present = b.future
	b.future = make(map[int]*party.Message)
}

// Recv returns the message sender broadcast last round, or nil if sender sent nothing —
// an honest observer treats that as the sender's cheating (spec.md §5).
func (b *Broadcast) Recv(sender *party.PartyID) *party.Message {
	return b.present[sender.ID]
}

// RecvAll returns every broadcast message observed this round, keyed by sender id.
func (b *Broadcast) RecvAll() map[int]*party.Message {
	return b.present
}

// NewChannels constructs the private-channel matrix for n parties and a shared
// broadcast. matrix[i][j] is the channel carrying messages from party i to party j;
// every protocol.Party shares one matrix and one Broadcast.
func NewChannels(n int) (matrix [][]*Private, broadcast *Broadcast) {
	matrix = make([][]*Private, n)
	for i := range matrix {
		matrix[i] = make([]*Private, n)
		for j := range matrix[i] {
			matrix[i][j] = NewPrivate()
		}
	}
	return matrix, NewBroadcast()
}

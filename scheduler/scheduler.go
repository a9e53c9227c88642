// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package scheduler drives the synchronous round-barrier model of spec.md §5: one
// goroutine per party plus the scheduler goroutine, interaction suspension points, and
// a single global barrier per round. Grounded on
// original_source/Pceas/src/Simulator.cpp's synchronizer, translated from raw
// std::condition_variable/std::thread bookkeeping to Go's sync.Cond — the direct
// stdlib analogue of a condition variable, with no ecosystem replacement in the
// retrieval pack (see DESIGN.md).
package scheduler

import (
	"sync"

	"github.com/binance-chain/mpc-circuit-sim/channel"
	"github.com/binance-chain/mpc-circuit-sim/common"
)

// Participant is the scheduler-facing view of a running party: the suspension and
// completion flags the scheduler polls and wakes, kept separate from the party's own
// protocol state (commitment table, circuit, secrets) which the scheduler never reads
// (spec.md §5: "The scheduler never reads commitment tables").
type Participant struct {
	mu          sync.Mutex
	cond        *sync.Cond
	interactive bool
	done        bool

	Private   []*channel.Private // outgoing channels, indexed by recipient
	Broadcast *channel.Broadcast
}

func NewParticipant(outgoing []*channel.Private, broadcast *channel.Broadcast) *Participant {
	p := &Participant{Private: outgoing, Broadcast: broadcast}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Interact is a party's suspension point: spec.md §5, "each one flips interactive=true,
// notifies the scheduler, and waits on messagesReady." Call this once per round, after
// a party has finished its round's local compute and staged its outgoing messages.
func (p *Participant) Interact() {
	p.mu.Lock()
	p.interactive = true
	p.cond.Broadcast()
	for p.interactive && !p.done {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Done marks the party finished; spec.md §5: "A party in done state releases the
// scheduler once and never interacts again."
func (p *Participant) Done() {
	p.mu.Lock()
	p.done = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *Participant) isDone() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Participant) isInteractive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interactive
}

// releaseRound clears interactive and wakes the party to resume its next round.
func (p *Participant) releaseRound() {
	p.mu.Lock()
	p.interactive = false
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Scheduler owns the private-channel matrix and the shared broadcast, and runs the
// round barrier until every participant reports done.
type Scheduler struct {
	participants []*Participant
	privMatrix   [][]*channel.Private
	broadcast    *channel.Broadcast
}

func New(participants []*Participant, privMatrix [][]*channel.Private, broadcast *channel.Broadcast) *Scheduler {
	return &Scheduler{participants: participants, privMatrix: privMatrix, broadcast: broadcast}
}

// Run blocks until every participant reaches done, advancing one round at a time
// exactly as original_source/Pceas/src/Simulator.cpp's synchronizer does: wait for all
// non-done parties to become interactive, swap every channel, then release the round.
// Returns the number of rounds transmitted.
func (s *Scheduler) Run() int {
	rounds := 0
	for {
		allDone := true
		for _, p := range s.participants {
			if !p.isDone() {
				allDone = false
				break
			}
		}
		if allDone {
			return rounds
		}

		active := false
		for _, p := range s.participants {
			if p.isDone() {
				continue
			}
			p.mu.Lock()
			for !p.interactive && !p.done {
				p.cond.Wait()
			}
			if p.interactive {
				active = true
			}
			p.mu.Unlock()
		}
		if !active {
			continue
		}

		rounds++
		common.Logger.Infof("Transmitting messages. Round : %d", rounds)

		s.broadcast.Swap()
		for i := range s.privMatrix {
			for j := range s.privMatrix[i] {
				s.privMatrix[i][j].Swap()
			}
		}

		for _, p := range s.participants {
			if !p.isDone() {
				p.releaseRound()
			}
		}
	}
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package scheduler_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/channel"
	"github.com/binance-chain/mpc-circuit-sim/party"
	"github.com/binance-chain/mpc-circuit-sim/scheduler"
)

// runDummy mimics original_source's runDummyInteractiveProtocol: interact a fixed
// number of rounds, sending nothing, then report done.
func runDummy(p *scheduler.Participant, rounds int, wg *sync.WaitGroup) {
	defer wg.Done()
	for i := 0; i < rounds; i++ {
		p.Interact()
	}
	p.Done()
}

func TestScheduler_RunsDummyPartiesToCompletion(t *testing.T) {
	const n = 3
	const rounds = 4

	matrix, broadcast := channel.NewChannels(n)
	participants := make([]*scheduler.Participant, n)
	for i := 0; i < n; i++ {
		participants[i] = scheduler.NewParticipant(matrix[i], broadcast)
	}

	sched := scheduler.New(participants, matrix, broadcast)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go runDummy(participants[i], rounds, &wg)
	}

	done := make(chan int, 1)
	go func() { done <- sched.Run() }()

	select {
	case got := <-done:
		assert.Equal(t, rounds, got)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not terminate")
	}
	wg.Wait()
}

func TestScheduler_DeliversPrivateMessageNextRound(t *testing.T) {
	matrix, broadcast := channel.NewChannels(2)
	participants := []*scheduler.Participant{
		scheduler.NewParticipant(matrix[0], broadcast),
		scheduler.NewParticipant(matrix[1], broadcast),
	}
	sched := scheduler.New(participants, matrix, broadcast)

	sender := party.NewPartyID(1)
	received := make(chan *party.Message, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		msg := party.NewMessage(sender)
		msg.DebugInfo = "hello"
		matrix[0][1].Send(msg)
		participants[0].Interact() // round 1: send
		participants[0].Interact() // round 2: nothing more to do
		participants[0].Done()
	}()
	go func() {
		defer wg.Done()
		participants[1].Interact() // round 1: the pre-staged send becomes visible on this round's swap
		received <- matrix[0][1].Recv()
		participants[1].Interact() // round 2
		participants[1].Done()
	}()

	done := make(chan int, 1)
	go func() { done <- sched.Run() }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not terminate")
	}
	wg.Wait()

	msg := <-received
	require.NotNil(t, msg)
	assert.Equal(t, "hello", msg.DebugInfo)
}

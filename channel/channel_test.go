// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package channel_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/channel"
	"github.com/binance-chain/mpc-circuit-sim/party"
)

func TestPrivate_MessageOnlyVisibleAfterSwap(t *testing.T) {
	c := channel.NewPrivate()
	sender := party.NewPartyID(1)
	msg := party.NewMessage(sender)

	c.Send(msg)
	assert.Nil(t, c.Recv(), "a staged message must not be observable before the round swap")

	c.Swap()
	assert.Same(t, msg, c.Recv())
}

func TestPrivate_MissingSendIsObservedAsNil(t *testing.T) {
	c := channel.NewPrivate()
	c.Swap()
	assert.Nil(t, c.Recv(), "no send before swap means the recipient observes nothing this round")
}

func TestPrivate_SwapClearsFutureAfterPromotion(t *testing.T) {
	c := channel.NewPrivate()
	sender := party.NewPartyID(1)
	c.Send(party.NewMessage(sender))
	c.Swap()
	c.Swap() // no Send this round
	assert.Nil(t, c.Recv())
}

func TestBroadcast_ConcurrentSendsAreRaceFree(t *testing.T) {
	b := channel.NewBroadcast()
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p := party.NewPartyID(id)
			b.Send(p, party.NewMessage(p))
		}(i)
	}
	wg.Wait()
	b.Swap()

	for i := 1; i <= 8; i++ {
		require.NotNil(t, b.Recv(party.NewPartyID(i)))
	}
}

func TestBroadcast_RecvAllReflectsOnlyLastSwap(t *testing.T) {
	b := channel.NewBroadcast()
	p1, p2 := party.NewPartyID(1), party.NewPartyID(2)
	b.Send(p1, party.NewMessage(p1))
	b.Swap()

	assert.Len(t, b.RecvAll(), 1)

	b.Send(p2, party.NewMessage(p2))
	b.Swap()

	all := b.RecvAll()
	assert.Len(t, all, 1, "future must be cleared on swap so the previous round's senders don't linger")
	_, ok := all[p2.ID]
	assert.True(t, ok)
}

func TestNewChannels_MatrixIsPerDirectedPair(t *testing.T) {
	matrix, broadcast := channel.NewChannels(3)
	require.Len(t, matrix, 3)
	require.Len(t, matrix[0], 3)
	assert.NotSame(t, matrix[0][1], matrix[1][0], "the channel from 0->1 must differ from 1->0")
	require.NotNil(t, broadcast)
}

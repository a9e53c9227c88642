// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/mpc-circuit-sim/channel"
	"github.com/binance-chain/mpc-circuit-sim/circuit"
	"github.com/binance-chain/mpc-circuit-sim/party"
	"github.com/binance-chain/mpc-circuit-sim/protocol"
	"github.com/binance-chain/mpc-circuit-sim/scheduler"
)

// secretInput is one (party, label, value) input binding for a scenario.
type secretInput struct {
	Party int
	Label string
	Value int64
}

// corruptParty names a dishonest party and the deviation it runs.
type corruptParty struct {
	Party     int
	Deviation protocol.Deviation
}

// scenario wires up n protocol.Party goroutines over one circuit and runs the
// scheduler to completion, mirroring what cmd/mpcsim does for a single options file.
type scenario struct {
	n          int
	threshold  int
	fieldPrime int64
	protoKind  party.Protocol
	dataUser   int
	circuit    func() (*circuit.Circuit, error)
	inputs     []secretInput
	corrupt    []corruptParty
}

func (s scenario) run(t *testing.T) (*protocol.Party, error) {
	t.Helper()

	ids := party.GeneratePartyIDs(s.n)
	dataUser := ids.FindByID(s.dataUser)
	require.NotNil(t, dataUser)

	privMatrix, broadcast := channel.NewChannels(s.n)
	parties := make([]*protocol.Party, s.n)

	for i, pid := range ids {
		c, err := s.circuit()
		require.NoError(t, err)

		ctx := party.NewPeerContext(ids, pid)
		params := party.NewParameters(ctx, pid, big.NewInt(s.fieldPrime), s.threshold, s.protoKind, dataUser)

		outgoing := make([]*channel.Private, s.n)
		incoming := make([]*channel.Private, s.n)
		for j := range ids {
			outgoing[j] = privMatrix[pid.Index][j]
			incoming[j] = privMatrix[j][pid.Index]
		}

		p := protocol.NewParty(params, c, outgoing, incoming, broadcast)
		for _, in := range s.inputs {
			if in.Party == pid.ID {
				p.AddSecret(in.Label, big.NewInt(in.Value))
			}
		}
		for _, corrupt := range s.corrupt {
			if corrupt.Party == pid.ID {
				p.SetBehavior(protocol.NewBehavior(corrupt.Deviation))
			}
		}
		parties[i] = p
	}

	participants := make([]*scheduler.Participant, s.n)
	for i, p := range parties {
		participants[i] = p.Participant()
	}
	sched := scheduler.New(participants, privMatrix, broadcast)

	var wg sync.WaitGroup
	errs := make([]error, s.n)
	for i, p := range parties {
		wg.Add(1)
		go func(i int, p *protocol.Party) {
			defer wg.Done()
			errs[i] = p.RunProtocol()
		}(i, p)
	}

	sched.Run()
	wg.Wait()

	var dataUserParty *protocol.Party
	for i, pid := range ids {
		if pid.ID == dataUser.ID {
			dataUserParty = parties[i]
		}
		if errs[i] != nil {
			return dataUserParty, errs[i]
		}
	}
	return dataUserParty, nil
}

func expr(desc string) func() (*circuit.Circuit, error) {
	return func() (*circuit.Circuit, error) { return circuit.Parse(desc) }
}

// Scenario 1: N=3, t=2, p=2039, (a+b)*(c.2), a=3,b=5,c=7, CEPS -> 112.
func TestScenario1_CEPS(t *testing.T) {
	s := scenario{
		n: 3, threshold: 2, fieldPrime: 2039,
		protoKind: party.CEPS, dataUser: 1,
		circuit: expr("(a+b)*(c.2)"),
		inputs: []secretInput{
			{Party: 1, Label: "a", Value: 3},
			{Party: 2, Label: "b", Value: 5},
			{Party: 3, Label: "c", Value: 7},
		},
	}
	dataUserParty, err := s.run(t)
	require.NoError(t, err)
	result, notEnough := dataUserParty.Result()
	require.False(t, notEnough)
	assert.Equal(t, big.NewInt(112), result)
}

// Scenario 2: same parameters under CEAS, no dishonest parties -> 112.
func TestScenario2_CEAS(t *testing.T) {
	s := scenario{
		n: 3, threshold: 2, fieldPrime: 2039,
		protoKind: party.CEAS, dataUser: 1,
		circuit: expr("(a+b)*(c.2)"),
		inputs: []secretInput{
			{Party: 1, Label: "a", Value: 3},
			{Party: 2, Label: "b", Value: 5},
			{Party: 3, Label: "c", Value: 7},
		},
	}
	dataUserParty, err := s.run(t)
	require.NoError(t, err)
	result, notEnough := dataUserParty.Result()
	require.False(t, notEnough)
	assert.Equal(t, big.NewInt(112), result)
}

// Scenario 3: same as 2, but P2 runs commitment_send_invalid_share; still reaches 112.
func TestScenario3_CEAS_DishonestCommitmentShare(t *testing.T) {
	s := scenario{
		n: 3, threshold: 2, fieldPrime: 2039,
		protoKind: party.CEAS, dataUser: 1,
		circuit: expr("(a+b)*(c.2)"),
		inputs: []secretInput{
			{Party: 1, Label: "a", Value: 3},
			{Party: 2, Label: "b", Value: 5},
			{Party: 3, Label: "c", Value: 7},
		},
		corrupt: []corruptParty{
			{Party: 2, Deviation: protocol.CommitmentSendInvalidShare},
		},
	}
	dataUserParty, err := s.run(t)
	require.NoError(t, err)
	result, notEnough := dataUserParty.Result()
	require.False(t, notEnough)
	assert.Equal(t, big.NewInt(112), result)
	assert.True(t, dataUserParty.IsCorrupt(party.GeneratePartyIDs(3).FindByID(2)), "P2 should end up in the corrupt set")
}

// Scenario 4: N=4, t=2, p=2039, a*b, a=4,b=6, CEAS-with-randomization -> 24.
func TestScenario4_CEASRandomized(t *testing.T) {
	s := scenario{
		n: 4, threshold: 2, fieldPrime: 2039,
		protoKind: party.CEASRandomized, dataUser: 4,
		circuit: expr("a*b"),
		inputs: []secretInput{
			{Party: 1, Label: "a", Value: 4},
			{Party: 2, Label: "b", Value: 6},
		},
	}
	dataUserParty, err := s.run(t)
	require.NoError(t, err)
	result, notEnough := dataUserParty.Result()
	require.False(t, notEnough)
	assert.Equal(t, big.NewInt(24), result)
}

// Scenario 5: N=3, t=2, p=257, comparator bitlength=3, a=5 (101b), b=3 (011b) -> 1.
func TestScenario5_Comparator(t *testing.T) {
	s := scenario{
		n: 3, threshold: 2, fieldPrime: 257,
		protoKind: party.CEAS, dataUser: 1,
		circuit: func() (*circuit.Circuit, error) {
			return circuit.GenerateComparator(3, "a", "b", "one")
		},
		inputs: []secretInput{
			{Party: 1, Label: "a0", Value: 1},
			{Party: 1, Label: "a1", Value: 0},
			{Party: 1, Label: "a2", Value: 1},
			{Party: 2, Label: "b0", Value: 1},
			{Party: 2, Label: "b1", Value: 1},
			{Party: 2, Label: "b2", Value: 0},
			{Party: 3, Label: "one", Value: 1},
		},
	}
	dataUserParty, err := s.run(t)
	require.NoError(t, err)
	result, notEnough := dataUserParty.Result()
	require.False(t, notEnough)
	assert.Equal(t, big.NewInt(1), result)
}

// Scenario 6: N=3, t=2, CEAS, sequential run: a*b (a=2,b=3) feeds label r into r+a -> 8.
func TestScenario6_SequentialRun(t *testing.T) {
	ids := party.GeneratePartyIDs(3)
	dataUser := ids.FindByID(1)
	require.NotNil(t, dataUser)

	privMatrix, broadcast := channel.NewChannels(3)
	parties := make([]*protocol.Party, 3)

	for i, pid := range ids {
		c, err := circuit.Parse("a*b")
		require.NoError(t, err)

		ctx := party.NewPeerContext(ids, pid)
		params := party.NewParameters(ctx, pid, big.NewInt(2039), 2, party.CEAS, dataUser)

		outgoing := make([]*channel.Private, 3)
		incoming := make([]*channel.Private, 3)
		for j := range ids {
			outgoing[j] = privMatrix[pid.Index][j]
			incoming[j] = privMatrix[j][pid.Index]
		}

		p := protocol.NewParty(params, c, outgoing, incoming, broadcast)
		if pid.ID == 1 {
			p.AddSecret("a", big.NewInt(2))
		}
		if pid.ID == 2 {
			p.AddSecret("b", big.NewInt(3))
		}
		parties[i] = p
	}

	nextCircuits := make([]*circuit.Circuit, 3)
	for i := range ids {
		nc, err := circuit.Parse("r+a")
		require.NoError(t, err)
		nextCircuits[i] = nc
	}

	participants := make([]*scheduler.Participant, 3)
	for i, p := range parties {
		participants[i] = p.Participant()
	}
	sched := scheduler.New(participants, privMatrix, broadcast)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i, p := range parties {
		wg.Add(1)
		go func(i int, p *protocol.Party) {
			defer wg.Done()
			errs[i] = p.RunProtocolSequential("r", nextCircuits[i])
		}(i, p)
	}

	sched.Run()
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	result, notEnough := parties[0].Result()
	require.False(t, notEnough)
	assert.Equal(t, big.NewInt(8), result)
}

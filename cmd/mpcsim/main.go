// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Command mpcsim drives one end-to-end run of the simulator from an options file
// (spec.md §6): it builds N protocol.Party goroutines wired through a shared
// scheduler, runs the scheduler to completion, and prints the data user's result.
//
// Usage: mpcsim <path-to-options-file> [scenario] [log-level]
//
// scenario names a protocol.Deviation (spec.md §9) assigned to every CORRUPT party;
// omit it for an all-honest run. log-level defaults to "info"; "debug" is this
// simulator's VERBOSE mode (spec.md §6).
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/binance-chain/mpc-circuit-sim/channel"
	"github.com/binance-chain/mpc-circuit-sim/circuit"
	"github.com/binance-chain/mpc-circuit-sim/common"
	"github.com/binance-chain/mpc-circuit-sim/options"
	"github.com/binance-chain/mpc-circuit-sim/party"
	"github.com/binance-chain/mpc-circuit-sim/protocol"
	"github.com/binance-chain/mpc-circuit-sim/scheduler"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mpcsim <path-to-options-file> [scenario] [log-level]")
		os.Exit(1)
	}
	optionsPath := os.Args[1]
	var scenario string
	if len(os.Args) >= 3 {
		scenario = os.Args[2]
	}
	logLevel := "info"
	if len(os.Args) >= 4 {
		logLevel = os.Args[3]
	}

	if err := common.SetLogLevel(logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(optionsPath, scenario); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("End")
}

func run(optionsPath, scenario string) error {
	f, err := os.Open(optionsPath)
	if err != nil {
		return fmt.Errorf("mpcsim: %w", err)
	}
	defer f.Close()

	opt, err := options.Parse(f)
	if err != nil {
		return fmt.Errorf("mpcsim: bad options file: %w", err)
	}

	var deviation protocol.Deviation
	if scenario != "" {
		d, ok := protocol.ParseDeviation(scenario)
		if !ok {
			return fmt.Errorf("mpcsim: unknown scenario %q", scenario)
		}
		deviation = d
	}

	buildCircuit := func() (*circuit.Circuit, error) {
		if opt.Comparator {
			return circuit.GenerateComparator(opt.Bitlength, opt.LabelA, opt.LabelB, opt.LabelOne)
		}
		return circuit.Parse(opt.CircuitDesc)
	}

	var nextCircuitOf func() (*circuit.Circuit, error)
	if opt.SeqRun {
		nextCircuitOf = func() (*circuit.Circuit, error) { return circuit.Parse(opt.NextCircuitDesc) }
	}

	ids := party.GeneratePartyIDs(opt.N)
	dataUser := ids.FindByID(opt.DataUser)
	if dataUser == nil {
		return fmt.Errorf("mpcsim: DATA_USER %d is not a known party", opt.DataUser)
	}

	protoKind := party.Protocol(opt.Protocol)

	privMatrix, broadcast := channel.NewChannels(opt.N)
	parties := make([]*protocol.Party, opt.N)
	nextCircuits := make([]*circuit.Circuit, opt.N)

	for i, pid := range ids {
		c, cerr := buildCircuit()
		if cerr != nil {
			return fmt.Errorf("mpcsim: circuit: %w", cerr)
		}
		ctx := party.NewPeerContext(ids, pid)
		params := party.NewParameters(ctx, pid, opt.FieldPrime, opt.T, protoKind, dataUser)

		outgoing := make([]*channel.Private, opt.N)
		incoming := make([]*channel.Private, opt.N)
		for j := range ids {
			outgoing[j] = privMatrix[pid.Index][j]
			incoming[j] = privMatrix[j][pid.Index]
		}

		p := protocol.NewParty(params, c, outgoing, incoming, broadcast)
		for _, in := range opt.Inputs {
			if in.Party == pid.ID {
				p.AddSecret(in.Label, in.Value)
			}
		}
		for _, corruptID := range opt.Corrupt {
			if corruptID == pid.ID {
				p.SetBehavior(protocol.NewBehavior(deviation))
			}
		}

		if opt.SeqRun {
			nc, nerr := nextCircuitOf()
			if nerr != nil {
				return fmt.Errorf("mpcsim: sequential-run circuit: %w", nerr)
			}
			nextCircuits[i] = nc
		}
		parties[i] = p
	}

	participants := make([]*scheduler.Participant, opt.N)
	for i, p := range parties {
		participants[i] = p.Participant()
	}
	sched := scheduler.New(participants, privMatrix, broadcast)

	var wg sync.WaitGroup
	errs := make([]error, opt.N)
	for i, p := range parties {
		wg.Add(1)
		go func(i int, p *protocol.Party) {
			defer wg.Done()
			if opt.SeqRun {
				errs[i] = p.RunProtocolSequential(opt.PrevResultLabel, nextCircuits[i])
			} else {
				errs[i] = p.RunProtocol()
			}
		}(i, p)
	}

	sched.Run()
	wg.Wait()

	for _, perr := range errs {
		if perr != nil {
			return fmt.Errorf("mpcsim: %w", perr)
		}
	}

	for i, pid := range ids {
		if pid.ID != dataUser.ID {
			continue
		}
		result, notEnough := parties[i].Result()
		if notEnough {
			fmt.Println("not enough shares")
			return nil
		}
		fmt.Printf("Evaluation result : %s\n", result.String())
	}
	return nil
}

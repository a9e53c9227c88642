// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package options parses the line-oriented options file of spec.md §6, grounded on
// original_source/Pceas/src/SimulatorOptions.cpp's state-machine reader: lines
// beginning with '#' advance to the next section, lines beginning with '@' carry
// '@'-delimited fields for the current section, and everything else is whitespace that
// gets stripped. Unlike the original's single-deviation-per-binary compile flags, this
// reader leaves deviation assignment to the caller (cmd/mpcsim's scenario argument) per
// spec.md §9's runtime Behavior design note.
package options

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Input is one (party, label, value) line of the INPUTS section.
type Input struct {
	Party int
	Label string
	Value *big.Int
}

// Options is the fully parsed, still law-in-field content of an options file. Its
// Protocol field mirrors spec.md §6's encoding (0=none,1=CEPS,2=CEAS,3=CEAS-with-
// randomization) rather than party.Protocol directly, since this package must not
// import protocol (it is consumed by cmd/mpcsim).
type Options struct {
	N           int
	T           int
	FieldPrime  *big.Int
	Protocol    int
	Inputs      []Input
	Corrupt     []int
	DataUser    int
	Comparator  bool
	Bitlength   int
	LabelA      string
	LabelB      string
	LabelOne    string
	CircuitDesc string

	SeqRun       bool
	PrevResultLabel string
	NextCircuitDesc string
}

type readState int

const (
	stateStart readState = iota
	stateN
	stateT
	stateFieldPrime
	stateProtocol
	stateInputs
	stateCorrupt
	stateDataUser
	stateComparator
	stateCircuitDesc
	stateSeqRun
	stateFinish
)

func (s readState) next() readState {
	if s >= stateSeqRun {
		return stateFinish
	}
	return s + 1
}

// Parse reads an options file from r, per spec.md §6. Any unknown section or malformed
// line aborts startup; every malformed data line is collected so a single run reports
// every problem at once rather than stopping at the first (github.com/hashicorp/go-
// multierror, the same batching library the teacher uses for round-finalization
// errors).
func Parse(r io.Reader) (*Options, error) {
	opt := &Options{}
	state := stateStart
	var result *multierror.Error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		line = strings.TrimSpace(line)
		line = strings.ReplaceAll(line, " ", "")
		line = strings.ReplaceAll(line, "\t", "")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			state = state.next()
			continue
		}
		if !strings.HasPrefix(line, "@") {
			result = multierror.Append(result, fmt.Errorf("line %d: expected '#' or '@', got %q", lineNo, line))
			continue
		}
		fields := strings.Split(strings.TrimPrefix(line, "@"), "@")
		if err := opt.applyLine(state, fields); err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", lineNo, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// Validate checks the required sections were actually populated — an options file
// that is well-formed line-by-line but omits a whole section (e.g. no FIELD_PRIME data
// line at all) would otherwise only surface as a nil-pointer panic deep in party
// construction. Batched with multierror so every missing section is reported at once.
func (opt *Options) Validate() error {
	var result *multierror.Error
	if opt.N <= 0 {
		result = multierror.Append(result, fmt.Errorf("N: missing or non-positive"))
	}
	if opt.T <= 0 {
		result = multierror.Append(result, fmt.Errorf("T: missing or non-positive"))
	}
	if opt.FieldPrime == nil {
		result = multierror.Append(result, fmt.Errorf("FIELD_PRIME: missing"))
	}
	if opt.Protocol < 0 || opt.Protocol > 3 {
		result = multierror.Append(result, fmt.Errorf("PROTOCOL: %d out of range 0-3", opt.Protocol))
	}
	if opt.DataUser <= 0 {
		result = multierror.Append(result, fmt.Errorf("DATA_USER: missing or non-positive"))
	}
	if !opt.Comparator && opt.CircuitDesc == "" {
		result = multierror.Append(result, fmt.Errorf("CIRCUIT_DESC: missing"))
	}
	return result.ErrorOrNil()
}

func (opt *Options) applyLine(state readState, fields []string) error {
	switch state {
	case stateN:
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("N: %w", err)
		}
		opt.N = n
	case stateT:
		t, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("T: %w", err)
		}
		opt.T = t
	case stateFieldPrime:
		p, ok := new(big.Int).SetString(fields[0], 10)
		if !ok {
			return fmt.Errorf("FIELD_PRIME: bad integer %q", fields[0])
		}
		opt.FieldPrime = p
	case stateProtocol:
		prot, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("PROTOCOL: %w", err)
		}
		opt.Protocol = prot
	case stateInputs:
		if len(fields) < 3 {
			return fmt.Errorf("INPUTS: expected @party@label@value, got %d fields", len(fields))
		}
		party, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("INPUTS: party: %w", err)
		}
		val, ok := new(big.Int).SetString(fields[2], 10)
		if !ok {
			return fmt.Errorf("INPUTS: bad value %q", fields[2])
		}
		opt.Inputs = append(opt.Inputs, Input{Party: party, Label: fields[1], Value: val})
	case stateCorrupt:
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("CORRUPT: %w", err)
		}
		opt.Corrupt = append(opt.Corrupt, id)
	case stateDataUser:
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("DATA_USER: %w", err)
		}
		opt.DataUser = id
	case stateComparator:
		if strings.EqualFold(fields[0], "TRUE") {
			if len(fields) < 5 {
				return fmt.Errorf("COMPARATOR: expected @TRUE@bitlength@labelA@labelB@labelOne, got %d fields", len(fields))
			}
			bl, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("COMPARATOR: bitlength: %w", err)
			}
			opt.Comparator = true
			opt.Bitlength = bl
			opt.LabelA = fields[2]
			opt.LabelB = fields[3]
			opt.LabelOne = fields[4]
		} else if !strings.EqualFold(fields[0], "FALSE") {
			return fmt.Errorf("COMPARATOR: expected TRUE or FALSE, got %q", fields[0])
		}
	case stateCircuitDesc:
		if !opt.Comparator {
			opt.CircuitDesc = fields[0]
		}
	case stateSeqRun:
		if opt.Comparator {
			break
		}
		if strings.EqualFold(fields[0], "TRUE") {
			if len(fields) < 3 {
				return fmt.Errorf("SEQ_RUN: expected @TRUE@prevResultLabel@nextCircuitDesc, got %d fields", len(fields))
			}
			opt.SeqRun = true
			opt.PrevResultLabel = fields[1]
			opt.NextCircuitDesc = fields[2]
		} else if !strings.EqualFold(fields[0], "FALSE") {
			return fmt.Errorf("SEQ_RUN: expected TRUE or FALSE, got %q", fields[0])
		}
	default:
		return fmt.Errorf("unexpected data line outside any known section")
	}
	return nil
}

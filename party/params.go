// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package party

import (
	"math/big"
)

// Protocol selects which of the three protocols (spec.md §1) a run evaluates.
type Protocol int

const (
	ProtocolNone Protocol = iota
	CEPS                  // Circuit Evaluation with Passive Security
	CEAS                  // Circuit Evaluation with Active Security
	CEASRandomized        // CEAS with circuit randomization (preprocessed multiplication triples)
)

func (p Protocol) String() string {
	switch p {
	case CEPS:
		return "CEPS"
	case CEAS:
		return "CEAS"
	case CEASRandomized:
		return "CEAS+Randomization"
	default:
		return "NONE"
	}
}

// Parameters holds the static configuration of one party (spec.md §3's Party
// attributes, minus the circuit/secrets/channels which the protocol driver owns
// directly). Grounded on the teacher's tss.Parameters, stripped of the elliptic-curve
// and Paillier-keygen fields this simulator has no use for.
type Parameters struct {
	partyID   *PartyID
	parties   *PeerContext
	fieldP    *big.Int
	threshold int // t; degree d = t-1
	dataUser  *PartyID
	protocol  Protocol
}

func NewParameters(ctx *PeerContext, partyID *PartyID, fieldP *big.Int, threshold int, protocol Protocol, dataUser *PartyID) *Parameters {
	return &Parameters{
		partyID:   partyID,
		parties:   ctx,
		fieldP:    fieldP,
		threshold: threshold,
		dataUser:  dataUser,
		protocol:  protocol,
	}
}

func (params *Parameters) PartyID() *PartyID    { return params.partyID }
func (params *Parameters) Parties() *PeerContext { return params.parties }
func (params *Parameters) PartyCount() int       { return params.parties.Count() }
func (params *Parameters) FieldPrime() *big.Int  { return params.fieldP }
func (params *Parameters) Threshold() int        { return params.threshold }
func (params *Parameters) Degree() int           { return params.threshold - 1 }
func (params *Parameters) DataUser() *PartyID    { return params.dataUser }
func (params *Parameters) Protocol() Protocol    { return params.protocol }

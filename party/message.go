// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package party

import (
	"fmt"
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/field"
)

// CommitmentID names one row of a party's commitment table (spec.md §4.5). IDs are
// derived deterministically (commitment.Name*) so that every honest party computes the
// same string for the same logical commitment without any coordination round.
type CommitmentID string

// Verifier is one point on a committed polynomial, sent so the receiver can check its own
// share against the sender's claim (spec.md §4.5.2 "commit verifiers").
type Verifier struct {
	CommitID CommitmentID
	Value    *big.Int
}

// DisputedValue names a commit-step VSS cross-check mismatch a party locally recorded
// against a peer: Disputer raised it, Disputed is the peer whose cross-point disagreed
// (spec.md §4.5.3 steps 2-3).
type DisputedValue struct {
	Disputer *PartyID
	Disputed *PartyID
}

// Accusation records that Accused behaved inconsistently during an open (spec.md §7).
type Accusation struct {
	Accused *PartyID
	Reason  string
}

// CommitmentTransfer moves ownership of a commitment from Source to Target (spec.md
// §4.5.5): the value is designated-opened to Target, which then commits the same value
// afresh under its own ownership.
type CommitmentTransfer struct {
	CommitID           CommitmentID
	Source             *PartyID
	Target             *PartyID
	Error              bool // malformed transfer request; ignored until the reject round
	Rejecters          map[int]bool
	TransferedCommitID CommitmentID
	Fkx                map[int]CommitmentID // per-party combined coefficient commitments, source side
	Gkx                map[int]CommitmentID // per-party combined coefficient commitments, target side
}

func NewCommitmentTransfer(cid CommitmentID, source, target *PartyID) *CommitmentTransfer {
	return &CommitmentTransfer{
		CommitID:  cid,
		Source:    source,
		Target:    target,
		Rejecters: make(map[int]bool),
		Fkx:       make(map[int]CommitmentID),
		Gkx:       make(map[int]CommitmentID),
	}
}

func (ct *CommitmentTransfer) AddFkx(k int, c CommitmentID) { ct.Fkx[k] = c }
func (ct *CommitmentTransfer) GetFkx(k int) CommitmentID    { return ct.Fkx[k] }
func (ct *CommitmentTransfer) AddGkx(k int, c CommitmentID) { ct.Gkx[k] = c }
func (ct *CommitmentTransfer) GetGkx(k int) CommitmentID    { return ct.Gkx[k] }
func (ct *CommitmentTransfer) AddRejecter(id int)           { ct.Rejecters[id] = true }
func (ct *CommitmentTransfer) IsRejected() bool             { return len(ct.Rejecters) > 0 }

// CommitmentMult carries the Fcom-multiplication subprotocol's bookkeeping: the two input
// commitments c1,c2, the resulting commitment c3 to their product, and the per-party
// coefficient commitments exchanged while proving c3 = c1*c2 (spec.md §4.5.6).
type CommitmentMult struct {
	CommitID1 CommitmentID
	CommitID2 CommitmentID
	CommitID3 CommitmentID
	Owner     *PartyID
	Error     bool
	Rejecters map[int]bool
	Fkx       map[int]CommitmentID
	Gkx       map[int]CommitmentID
	Hkx       map[int]CommitmentID
}

func NewCommitmentMult(c1, c2, c3 CommitmentID, owner *PartyID) *CommitmentMult {
	return &CommitmentMult{
		CommitID1: c1,
		CommitID2: c2,
		CommitID3: c3,
		Owner:     owner,
		Rejecters: make(map[int]bool),
		Fkx:       make(map[int]CommitmentID),
		Gkx:       make(map[int]CommitmentID),
		Hkx:       make(map[int]CommitmentID),
	}
}

func (cm *CommitmentMult) AddFkx(k int, c CommitmentID) { cm.Fkx[k] = c }
func (cm *CommitmentMult) GetFkx(k int) CommitmentID    { return cm.Fkx[k] }
func (cm *CommitmentMult) AddGkx(k int, c CommitmentID) { cm.Gkx[k] = c }
func (cm *CommitmentMult) GetGkx(k int) CommitmentID    { return cm.Gkx[k] }
func (cm *CommitmentMult) AddHkx(k int, c CommitmentID) { cm.Hkx[k] = c }
func (cm *CommitmentMult) GetHkx(k int) CommitmentID    { return cm.Hkx[k] }
func (cm *CommitmentMult) AddRejecter(id int)           { cm.Rejecters[id] = true }
func (cm *CommitmentMult) IsRejected() bool             { return len(cm.Rejecters) > 0 }

// VerifiableShare is one party's share of a committed polynomial, opened so others can
// reconstruct or re-verify it (spec.md §4.5.2).
type VerifiableShare struct {
	Poly *field.Polynomial
	K    *PartyID
}

// Message is the union-like envelope every party sends each round (spec.md §3: "fields
// are union-like; only those relevant to the step in question are populated"). Unlike the
// teacher's protobuf-wrapped Message, this never leaves the process: the scheduler hands
// it directly from sender to receiver buffers, so there is no wire-bytes encoding, no
// Any-type framing, and no MessageWrapper.
type Message struct {
	Sender *PartyID

	Share           *big.Int
	VerifiableShare *VerifiableShare
	CrossPoint      *big.Int // a row evaluated at the recipient's index, for VSS cross-check (spec.md §4.5.3 steps 2-3)
	MulCheckF       *big.Int // f(k) for Perfect Commitment Multiplication's per-checker verification
	MulCheckG       *big.Int // g(k)
	MulCheckH       *big.Int // h(k), h=f*g
	Input           bool
	InputLabel      string
	CommitID        CommitmentID
	Target          *PartyID // recipient of a designated action, e.g. a designated open

	CommitVerifiers map[CommitmentID]*big.Int
	Disputes        map[CommitmentID]map[int]bool
	Accusations     []*Accusation

	OpenedVerifiableShares []*VerifiableShare
	DesignatedOpenRejected bool

	Transfers       []*CommitmentTransfer
	Multiplications []*CommitmentMult

	Success   bool
	DebugInfo string

	BatchMessages []*Message
}

func NewMessage(sender *PartyID) *Message {
	return &Message{
		Sender:          sender,
		CommitVerifiers: make(map[CommitmentID]*big.Int),
		Disputes:        make(map[CommitmentID]map[int]bool),
	}
}

func (m *Message) SetVerifiableShare(poly *field.Polynomial) {
	m.VerifiableShare = &VerifiableShare{Poly: poly, K: m.Sender}
}

func (m *Message) AddOpenedVerifiableShare(k *PartyID, poly *field.Polynomial) {
	m.OpenedVerifiableShares = append(m.OpenedVerifiableShares, &VerifiableShare{Poly: poly, K: k})
}

func (m *Message) AddAccused(id *PartyID, reason string) {
	m.Accusations = append(m.Accusations, &Accusation{Accused: id, Reason: reason})
}

func (m *Message) AddVerifier(cid CommitmentID, val *big.Int) {
	m.CommitVerifiers[cid] = val
}

func (m *Message) GetVerifier(cid CommitmentID) (*big.Int, bool) {
	v, ok := m.CommitVerifiers[cid]
	return v, ok
}

func (m *Message) AddDispute(cid CommitmentID, p *PartyID) {
	set, ok := m.Disputes[cid]
	if !ok {
		set = make(map[int]bool)
		m.Disputes[cid] = set
	}
	set[p.ID] = true
}

func (m *Message) GetDisputes(cid CommitmentID) map[int]bool {
	return m.Disputes[cid]
}

func (m *Message) AddTransfer(t *CommitmentTransfer) {
	m.Transfers = append(m.Transfers, t)
}

func (m *Message) AddMultiplication(cm *CommitmentMult) {
	m.Multiplications = append(m.Multiplications, cm)
}

func (m *Message) AddBatchMessage(other *Message) {
	m.BatchMessages = append(m.BatchMessages, other)
}

func (m *Message) SetInput(label string) {
	m.Input = true
	m.InputLabel = label
}

func (m *Message) String() string {
	return fmt.Sprintf("Message{from: %s, commit: %s, target: %s, debug: %q}",
		m.Sender, m.CommitID, m.Target, m.DebugInfo)
}

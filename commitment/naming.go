// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package commitment

import (
	"fmt"
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/party"
)

// The naming schemes of spec.md §4.5.4. Every function here is a pure string function
// of its inputs: all honest parties, given the same logical derivation, compute
// byte-identical commitment ids without any coordinating round. Grounded on
// original_source/Pceas/src/core/Party.cpp's name-building helpers, generalized from
// ad hoc stringstream concatenation to named Go functions, one per derivation.

// sortedPair canonicalizes a commutative pair so Add/Mul name the same way regardless
// of argument order.
func sortedPair(a, b party.CommitmentID) (party.CommitmentID, party.CommitmentID) {
	if a <= b {
		return a, b
	}
	return b, a
}

// NameAdd names the commitment resulting from commitment addition (or, combined with
// NameCMul(-1, ...), subtraction/negation).
func NameAdd(a, b party.CommitmentID) party.CommitmentID {
	lo, hi := sortedPair(a, b)
	return party.CommitmentID(fmt.Sprintf("_(%s_+_%s)_", lo, hi))
}

// NameCMul names the commitment resulting from scalar-multiplying c by scalar.
func NameCMul(scalar *big.Int, c party.CommitmentID) party.CommitmentID {
	return party.CommitmentID(fmt.Sprintf("_(%s_._%s)_", scalar.String(), c))
}

// NameMul names the commitment resulting from multiplying two commitments together.
func NameMul(a, b party.CommitmentID) party.CommitmentID {
	lo, hi := sortedPair(a, b)
	return party.CommitmentID(fmt.Sprintf("_(%s_*_%s)_", lo, hi))
}

// NameShareCoeff names the commitment to the i-th non-constant coefficient of a
// sharing polynomial (used while VSS-distributing a fresh commitment).
func NameShareCoeff(c party.CommitmentID, i int) party.CommitmentID {
	return party.CommitmentID(fmt.Sprintf("_(%s_share_coeff_%d)_", c, i))
}

// NameTransferCoeff names the commitment to the i-th non-constant coefficient of the
// re-sharing polynomial a commitment transfer's source samples for target.
func NameTransferCoeff(c party.CommitmentID, src, tgt *party.PartyID, i int) party.CommitmentID {
	return party.CommitmentID(fmt.Sprintf("_(%s_trans_coeff_%d_%d_%d)_", c, src.ID, tgt.ID, i))
}

// MultCoeffKind selects which of the three polynomials (f, g, h) a multiplication
// coefficient commitment belongs to (spec.md §4.5.3's "Perfect Commitment
// Multiplication").
type MultCoeffKind byte

const (
	MultCoeffF MultCoeffKind = 'f'
	MultCoeffG MultCoeffKind = 'g'
	MultCoeffH MultCoeffKind = 'h'
)

// NameMultCoeff names the commitment to the i-th non-constant coefficient of one of the
// three polynomials an owner samples to prove a multiplication.
func NameMultCoeff(a, b party.CommitmentID, kind MultCoeffKind, i int) party.CommitmentID {
	lo, hi := sortedPair(a, b)
	return party.CommitmentID(fmt.Sprintf("_(%s_mult_coeff_%s_%c%d)_", lo, hi, kind, i))
}

// NameTransferred names the commitment a target re-commits to after a successful
// commitment transfer.
func NameTransferred(c party.CommitmentID, src, tgt *party.PartyID) party.CommitmentID {
	return party.CommitmentID(fmt.Sprintf("_(transfered_%s_%d-->%d)_", c, src.ID, tgt.ID))
}

// NameShare names a per-party share exchanged while VSS-distributing a value. flags is
// a free-form marker (e.g. "input", "output", "triple") carried through for debugging;
// it participates in the name so two distinct distributions never collide.
func NameShare(flags string, dist, recv *party.PartyID, suffix string) string {
	return fmt.Sprintf("share(%s)@%d@%d@%s", flags, dist.ID, recv.ID, suffix)
}

// SharePrefix is reserved: no user-chosen commit id may begin with it (spec.md §4.5.4:
// "Share names reserve a prefix... forbidden for user commit-id choices").
const SharePrefix = "share"

// IsReservedName reports whether id collides with the share-name prefix reserved for
// internal VSS bookkeeping.
func IsReservedName(id party.CommitmentID) bool {
	return len(id) >= len(SharePrefix) && string(id[:len(SharePrefix)]) == SharePrefix
}

// TripleStage identifies which sub-commitment of a preprocessed multiplication triple a
// triple name refers to (spec.md §4.5.2's randomization-variant preprocessing: the x and
// y VSS-distributions, the owner's local product E=x*y share, and D, the degree-reduced
// result).
type TripleStage string

const (
	TripleM1   TripleStage = "M1" // the x share this owner distributed
	TripleM2   TripleStage = "M2" // the y share this owner distributed
	TripleE    TripleStage = "E"  // this owner's local product of received M1,M2 shares
	TripleD    TripleStage = "D"  // the degree-reduced triple output
	TripleProd TripleStage = "PROD"
)

// NameTriple names one stage of a per-owner, per-gate preprocessed multiplication
// triple.
func NameTriple(owner *party.PartyID, stage TripleStage, gate int) string {
	return fmt.Sprintf("triple@%d@%s@%d", owner.ID, stage, gate)
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

// Deviation names one of the sixteen cheating scenarios modelled on
// original_source/Pceas.h's compile-time TEST_CASE_* flags, promoted to a runtime value
// (spec.md §9's Design Notes) so a single binary can run any scenario named on its
// command line rather than needing a separate build per scenario.
type Deviation int

const (
	NoDeviation Deviation = iota

	// Commit (Protocol Perfect-Com-Simple) deviations.
	CommitmentSendInvalidShare               // send an inconsistent verifiable share to one peer
	CommitmentDoNotOpenDisputed               // refuse to open f(m,n) for a raised dispute
	CommitmentAccuseHonestAfterDisputesOpened // broadcast a dispute against an honest peer after the real ones resolved
	CommitmentDishonestAccused                // as the accused, broadcast a false cross-check failure
	CommitmentAccusedDoNotOpenVerifiableShare // as the accused, withhold the requested verifiable share

	// Open deviations.
	OpenWithInvalidFx0      // broadcast an fx0 with the wrong degree or wrong constant term
	OpenSendInvalidVerifiers // broadcast verifiers inconsistent with the claimed fx0

	// DesignatedOpen deviations.
	DesignatedOpenWithInvalidFx0       // send the target a malformed fx0
	DesignatedOpenDoNotOpenRejected    // refuse the in-place open fallback after a rejection
	DesignatedOpenSendInvalidVerifiers // send the target an inconsistent verifier

	// Commitment Transfer deviations.
	TransferTargetCommitsToDifferentValue // target commits to something other than what was designated-opened
	TransferRejectValidTransfer            // falsely reject a transfer that was actually consistent
	TransferSourceSendsBadCoefficient       // source sends a peer a coefficient inconsistent with its own commitments
	TransferSourceDoNotOpenErroneous        // source withholds the public-opening repair after an honest rejection

	// Commitment Multiplication deviations.
	MultiplicationCommitToDifferentValue  // owner commits h such that h(0) != f(0)*g(0)
	MultiplicationRejectValidMultiplication // a checker falsely rejects a valid multiplication
)

func (d Deviation) String() string {
	switch d {
	case NoDeviation:
		return "none"
	case CommitmentSendInvalidShare:
		return "commitment_send_invalid_share"
	case CommitmentDoNotOpenDisputed:
		return "commitment_do_not_open_disputed"
	case CommitmentAccuseHonestAfterDisputesOpened:
		return "commitment_accuse_honest_after_disputes_opened"
	case CommitmentDishonestAccused:
		return "commitment_dishonest_accused"
	case CommitmentAccusedDoNotOpenVerifiableShare:
		return "commitment_accused_do_not_open_verifiable_share"
	case OpenWithInvalidFx0:
		return "open_with_invalid_fx0"
	case OpenSendInvalidVerifiers:
		return "open_send_invalid_verifiers"
	case DesignatedOpenWithInvalidFx0:
		return "designated_open_with_invalid_fx0"
	case DesignatedOpenDoNotOpenRejected:
		return "designated_open_do_not_open_rejected"
	case DesignatedOpenSendInvalidVerifiers:
		return "designated_open_send_invalid_verifiers"
	case TransferTargetCommitsToDifferentValue:
		return "transfer_target_commits_to_different_value"
	case TransferRejectValidTransfer:
		return "transfer_reject_valid_transfer"
	case TransferSourceSendsBadCoefficient:
		return "transfer_source_sends_bad_coefficient"
	case TransferSourceDoNotOpenErroneous:
		return "transfer_source_do_not_open_erroneous"
	case MultiplicationCommitToDifferentValue:
		return "multiplication_commit_to_different_value"
	case MultiplicationRejectValidMultiplication:
		return "multiplication_reject_valid_multiplication"
	default:
		return "unknown"
	}
}

// ParseDeviation maps a scenario name (cmd/mpcsim's second positional argument) to a
// Deviation.
func ParseDeviation(s string) (Deviation, bool) {
	for d := NoDeviation; d <= MultiplicationRejectValidMultiplication; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return NoDeviation, false
}

// Behavior is a dishonest party's deviation profile: exactly one named scenario, active
// for the whole run, matching how original_source compiled in one TEST_CASE_* at a time
// (spec.md §9's "one variant per original macro").
type Behavior struct {
	Deviation Deviation
}

func NewBehavior(d Deviation) *Behavior {
	return &Behavior{Deviation: d}
}

// has reports whether this party's active behavior matches d. A nil Behavior (the
// honest default) never matches anything.
func (p *Party) has(d Deviation) bool {
	return p.behavior != nil && p.behavior.Deviation == d
}

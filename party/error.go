// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package party

import (
	"fmt"
)

// Error wraps a protocol fault with enough context to decide, per spec.md §7, whether
// it is attributable to a specific party (culprits non-empty; execution continues with
// the culprit added to the corrupt set) or fatal (culprits empty; the round/victim
// party cannot proceed).
type Error struct {
	cause    error
	task     string
	round    int
	victim   *PartyID
	culprits []*PartyID
}

func NewError(cause error, task string, round int, victim *PartyID, culprits ...*PartyID) *Error {
	return &Error{cause: cause, task: task, round: round, victim: victim, culprits: culprits}
}

func (err *Error) Unwrap() error        { return err.cause }
func (err *Error) Cause() error         { return err.cause }
func (err *Error) Task() string         { return err.task }
func (err *Error) Round() int           { return err.round }
func (err *Error) Victim() *PartyID     { return err.victim }
func (err *Error) Culprits() []*PartyID { return err.culprits }

func (err *Error) Error() string {
	if err == nil || err.cause == nil {
		return "Error is nil"
	}
	if len(err.culprits) > 0 {
		return fmt.Sprintf("task %s, party %v, round %d, culprits %v: %s",
			err.task, err.victim, err.round, err.culprits, err.cause.Error())
	}
	return fmt.Sprintf("task %s, party %v, round %d: %s",
		err.task, err.victim, err.round, err.cause.Error())
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"math/big"
)

// DeterministicRand is a per-party, seedable source of field elements.
//
// Cryptographic strength of the randomness is explicitly out of scope (spec.md §1
// Non-goals): every party's RNG state is seeded from its party id alone, so that a
// fixed options file always replays the exact same run (spec.md §8, "Idempotence").
// Each draw advances an internal counter so repeated calls never repeat output.
type DeterministicRand struct {
	seed    *big.Int
	counter uint64
}

// NewDeterministicRand seeds a stream from a party id. Two parties never draw the
// same sequence because their ids differ; a single party never repeats a draw
// because the counter is advanced on every call.
func NewDeterministicRand(partyID int) *DeterministicRand {
	return &DeterministicRand{seed: big.NewInt(int64(partyID))}
}

// Below returns a uniformly distributed element of [0, mod). mod must be positive.
func (r *DeterministicRand) Below(mod *big.Int) *big.Int {
	if mod == nil || mod.Sign() <= 0 {
		panic("common: DeterministicRand.Below requires a positive modulus")
	}
	// Draw hash outputs until one falls in the largest multiple of mod that fits in
	// the hash's output range, so reducing mod `mod` doesn't bias small moduli.
	bound := new(big.Int).Sub(shaOutputSpace, new(big.Int).Mod(shaOutputSpace, mod))
	for {
		r.counter++
		h := SHA512_256i(r.seed, new(big.Int).SetUint64(r.counter))
		if h.Cmp(bound) < 0 {
			return new(big.Int).Mod(h, mod)
		}
	}
}

// NonZeroBelow is Below, redrawing on a zero result. Used for sampling the leading
// coefficient of a bivariate polynomial, which must be non-zero for the polynomial's
// effective degree to equal d (spec.md §4.4).
func (r *DeterministicRand) NonZeroBelow(mod *big.Int) *big.Int {
	for {
		if v := r.Below(mod); v.Sign() != 0 {
			return v
		}
	}
}

// shaOutputSpace is 2^256, the size of the SHA-512/256 output space.
var shaOutputSpace = new(big.Int).Lsh(big.NewInt(1), 256)

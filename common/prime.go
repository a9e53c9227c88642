// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"math/big"

	"github.com/otiai10/primes"
)

const primeTestN = 30

// ProbablyPrime reports whether p is prime (spec.md §7: "composite prime" is a fatal
// configuration error at startup). Small primes that fit an int64 are factored exactly
// with github.com/otiai10/primes; anything larger falls back to big.Int.ProbablyPrime,
// which otiai10/primes cannot handle (it factors over int64 arithmetic internally).
func ProbablyPrime(p *big.Int) bool {
	if p == nil || p.Sign() <= 0 {
		return false
	}
	if p.IsInt64() {
		n := p.Int64()
		if n < 2 {
			return false
		}
		factors := primes.Factorize(n)
		all := factors.All()
		return len(all) == 1 && all[0] == n
	}
	return p.ProbablyPrime(primeTestN)
}


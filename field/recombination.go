// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import (
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/common"
)

// RecombinationVector returns lambda_i such that sum(lambda_i * f(xs[i])) == f(0) for any
// polynomial f of degree < len(xs), the Lagrange-at-zero idiom from the teacher's
// vss.Shares.ReConstruct generalized to a named x-coordinate set instead of party indices
// 1..n (spec.md §4.1's "recombination vector", recomputed whenever the corrupt set grows).
func RecombinationVector(xs []*big.Int, mod *big.Int) []*big.Int {
	modQ := common.ModInt(mod)
	n := len(xs)
	lambdas := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			num = modQ.Mul(num, xs[j])
			diff := modQ.Sub(xs[j], xs[i])
			den = modQ.Mul(den, diff)
		}
		lambdas[i] = modQ.Mul(num, modQ.ModInverse(den))
	}
	return lambdas
}

// Recombine reconstructs f(0) from a set of shares at the given x-coordinates.
func Recombine(xs []*big.Int, shares []*big.Int, mod *big.Int) *big.Int {
	modQ := common.ModInt(mod)
	lambdas := RecombinationVector(xs, mod)
	secret := big.NewInt(0)
	for i, lambda := range lambdas {
		secret = modQ.Add(secret, modQ.Mul(lambda, shares[i]))
	}
	return secret
}

// LagrangeInterpolate evaluates the unique degree<len(xs) polynomial through (xs,ys) at
// the point atX. RecombinationVector/Recombine are the atX==0 special case used throughout
// the protocol; this general form is not called by the protocol code.
func LagrangeInterpolate(xs, ys []*big.Int, atX *big.Int, mod *big.Int) *big.Int {
	modQ := common.ModInt(mod)
	n := len(xs)
	result := big.NewInt(0)
	for i := 0; i < n; i++ {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			num = modQ.Mul(num, modQ.Sub(atX, xs[j]))
			den = modQ.Mul(den, modQ.Sub(xs[i], xs[j]))
		}
		term := modQ.Mul(ys[i], modQ.Mul(num, modQ.ModInverse(den)))
		result = modQ.Add(result, term)
	}
	return result
}

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

// SymmetricBivariatePoly is f(x,y) = sum_{0<=i,j<=degree} c_ij x^i y^j with c_ij == c_ji,
// grounded on the original simulator's SymmBivariatePoly (spec.md §4.5.1's VSS commitment
// polynomial). Only the lower triangle (i>=j) is stored; the upper triangle mirrors it.
type SymmetricBivariatePoly struct {
	Mod    *big.Int
	Degree int
	coeff  [][]*big.Int // coeff[i][j] valid for j<=i<=Degree
}

// NewSymmetricBivariatePoly allocates an empty (nil-coefficient) bivariate polynomial of
// the given degree. Call SampleBivariate to fill it before using any Evaluate method.
func NewSymmetricBivariatePoly(mod *big.Int, degree int) *SymmetricBivariatePoly {
	coeff := make([][]*big.Int, degree+1)
	for i := range coeff {
		coeff[i] = make([]*big.Int, i+1)
	}
	return &SymmetricBivariatePoly{Mod: mod, Degree: degree, coeff: coeff}
}

// SampleBivariate fills the stored lower triangle c_ij (j<=i) with c_00 = coeffZero, a
// non-zero leading c_dd, and every other c_ij drawn uniformly from rnd; the upper
// triangle is never stored, since setCoeff/getCoeff swap indices to read it.
func (b *SymmetricBivariatePoly) SampleBivariate(coeffZero *big.Int, rnd *common.DeterministicRand) {
	for i := 0; i <= b.Degree; i++ {
		for j := 0; j <= i; j++ {
			if i == 0 && j == 0 {
				b.setCoeff(0, 0, new(big.Int).Mod(coeffZero, b.Mod))
				continue
			}
			if i == b.Degree && j == b.Degree {
				b.setCoeff(i, j, rnd.NonZeroBelow(b.Mod))
				continue
			}
			b.setCoeff(i, j, rnd.Below(b.Mod))
		}
	}
}

func (b *SymmetricBivariatePoly) setCoeff(row, col int, val *big.Int) {
	if col > row {
		row, col = col, row
	}
	b.coeff[row][col] = val
}

func (b *SymmetricBivariatePoly) getCoeff(row, col int) *big.Int {
	if col > row {
		row, col = col, row
	}
	return b.coeff[row][col]
}

// EvaluateAtZero returns f(0,y) as a univariate polynomial in y — the polynomial whose
// value at k is the Shamir share handed to party k.
func (b *SymmetricBivariatePoly) EvaluateAtZero() *Polynomial {
	return b.Evaluate(0)
}

// Evaluate returns f(k,y) as a univariate polynomial in y — the polynomial party k uses
// to hand out cross-verification values f(k,l) to every other party l.
func (b *SymmetricBivariatePoly) Evaluate(k int) *Polynomial {
	modQ := common.ModInt(b.Mod)
	x := big.NewInt(int64(k))
	coeffs := make([]*big.Int, b.Degree+1)
	for j := 0; j <= b.Degree; j++ {
		// coefficient of y^j is sum_i c_ij * k^i
		sum := big.NewInt(0)
		xi := big.NewInt(1)
		for i := 0; i <= b.Degree; i++ {
			term := modQ.Mul(b.getCoeff(i, j), xi)
			sum = modQ.Add(sum, term)
			xi = modQ.Mul(xi, x)
		}
		coeffs[j] = sum
	}
	return NewPolynomial(b.Mod, coeffs)
}

// EvaluatePoint returns the scalar f(k,l).
func (b *SymmetricBivariatePoly) EvaluatePoint(k, l int) *big.Int {
	return b.Evaluate(k).EvaluateInt(l)
}

// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package field implements the univariate and symmetric bivariate polynomial arithmetic
// that the simulator's Shamir sharing, VSS commitments, and Lagrange recombination are
// built from (spec.md §4.1). The Lagrange idiom is grounded on the teacher's
// crypto/vss/feldman_vss.go; everything here works over a single prime field rather than
// an elliptic curve's scalar field.
package field

import (
	"fmt"
	"math/big"

	"github.com/binance-chain/mpc-circuit-sim/common"
)

// Polynomial is a univariate polynomial over Z/pZ, Coeffs[i] being the coefficient of x^i.
type Polynomial struct {
	Mod    *big.Int
	Coeffs []*big.Int
}

// NewPolynomial wraps coeffs as a polynomial over mod. It does not copy coeffs.
func NewPolynomial(mod *big.Int, coeffs []*big.Int) *Polynomial {
	return &Polynomial{Mod: mod, Coeffs: coeffs}
}

// Zero returns the polynomial with the given constant term and all higher coefficients 0,
// sized to hold degree+1 coefficients (MathUtil::zeroUnivariate).
func Zero(mod *big.Int, degree int, coeffZero *big.Int) *Polynomial {
	coeffs := make([]*big.Int, degree+1)
	coeffs[0] = new(big.Int).Mod(coeffZero, mod)
	for i := 1; i <= degree; i++ {
		coeffs[i] = big.NewInt(0)
	}
	return NewPolynomial(mod, coeffs)
}

// Sample draws a uniform random polynomial of the given degree with a fixed constant term,
// using rnd for every coefficient but the zeroth (MathUtil::sampleUnivariate).
func Sample(mod *big.Int, degree int, coeffZero *big.Int, rnd *common.DeterministicRand) *Polynomial {
	coeffs := make([]*big.Int, degree+1)
	coeffs[0] = new(big.Int).Mod(coeffZero, mod)
	for i := 1; i <= degree; i++ {
		coeffs[i] = rnd.Below(mod)
	}
	return NewPolynomial(mod, coeffs)
}

// Degree returns len(Coeffs)-1, i.e. the polynomial's allocated degree. It does not strip
// leading zero coefficients; use DegreeCheckEQ/DegreeCheckLTE to test the true degree.
func (p *Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// trueDegree is the index of the highest non-zero coefficient, or -1 for the zero polynomial.
func (p *Polynomial) trueDegree() int {
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		if p.Coeffs[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// DegreeCheckEQ reports whether the polynomial's true (leading-zero-stripped) degree is
// exactly required (MathUtil::degreeCheckEQ).
func (p *Polynomial) DegreeCheckEQ(required int) bool {
	return p.trueDegree() == required
}

// DegreeCheckLTE reports whether the polynomial's true degree is at most required
// (MathUtil::degreeCheckLTE).
func (p *Polynomial) DegreeCheckLTE(required int) bool {
	return p.trueDegree() <= required
}

// Evaluate computes p(x) mod p.Mod via Horner's method.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	modQ := common.ModInt(p.Mod)
	result := big.NewInt(0)
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		result = modQ.Add(modQ.Mul(result, x), p.Coeffs[i])
	}
	return result
}

// EvaluateInt evaluates p(x) for a small integer x, a convenience over party IDs.
func (p *Polynomial) EvaluateInt(x int) *big.Int {
	return p.Evaluate(big.NewInt(int64(x)))
}

// Add returns p+q coefficient-wise, padding the shorter operand with zeros.
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	modQ := common.ModInt(p.Mod)
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	coeffs := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		a := zeroIfMissing(p.Coeffs, i)
		b := zeroIfMissing(q.Coeffs, i)
		coeffs[i] = modQ.Add(a, b)
	}
	return NewPolynomial(p.Mod, coeffs)
}

// ScalarMul returns c*p coefficient-wise.
func (p *Polynomial) ScalarMul(c *big.Int) *Polynomial {
	modQ := common.ModInt(p.Mod)
	coeffs := make([]*big.Int, len(p.Coeffs))
	for i, a := range p.Coeffs {
		coeffs[i] = modQ.Mul(a, c)
	}
	return NewPolynomial(p.Mod, coeffs)
}

// Negate returns -p.
func (p *Polynomial) Negate() *Polynomial {
	modQ := common.ModInt(p.Mod)
	coeffs := make([]*big.Int, len(p.Coeffs))
	for i, a := range p.Coeffs {
		coeffs[i] = modQ.Neg(a)
	}
	return NewPolynomial(p.Mod, coeffs)
}

// Mul returns p*q via coefficient convolution, e.g. the degree-2d h=f*g polynomial of
// Perfect Commitment Multiplication (spec.md §4.5.3).
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	modQ := common.ModInt(p.Mod)
	coeffs := make([]*big.Int, len(p.Coeffs)+len(q.Coeffs)-1)
	for i := range coeffs {
		coeffs[i] = big.NewInt(0)
	}
	for i, a := range p.Coeffs {
		if a.Sign() == 0 {
			continue
		}
		for j, b := range q.Coeffs {
			coeffs[i+j] = modQ.Add(coeffs[i+j], modQ.Mul(a, b))
		}
	}
	return NewPolynomial(p.Mod, coeffs)
}

func zeroIfMissing(coeffs []*big.Int, i int) *big.Int {
	if i < len(coeffs) {
		return coeffs[i]
	}
	return big.NewInt(0)
}

func (p *Polynomial) String() string {
	return fmt.Sprintf("Polynomial(deg<=%d, %v)", p.Degree(), p.Coeffs)
}

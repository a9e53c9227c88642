// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package circuit

import (
	"fmt"
	"math/big"
	"strings"
)

// Parse builds a Circuit from the expression grammar of spec.md §4.3:
//
//	expression := term ('+' term)*
//	term       := factor (('*' factor) | ('.' number))*
//	factor     := label | '(' expression ')'
//	label      := [a-z]([a-z0-9])*
//	number     := '-'? [0-9]+
//
// grounded on original_source/Pceas/src/circuit/CircuitGenerator.cpp's recursive-descent
// parser, adapted to build directly into the arena-indexed Circuit rather than wiring
// Gate/Wire pointer objects together.
func Parse(expr string) (*Circuit, error) {
	c := NewCircuit()
	outWire, err := c.appendExpr(expr)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	_ = outWire
	return c, nil
}

type parser struct {
	src []rune
	pos int
	c   *Circuit
}

// appendExpr parses expr and appends its gates/wires into the receiver circuit,
// returning the wire index carrying the expression's result.
func (c *Circuit) appendExpr(expr string) (int, error) {
	p := &parser{src: []rune(strings.TrimSpace(expr)), c: c}
	w, err := p.expression()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("circuit: unexpected trailing input at %d: %q", p.pos, string(p.src[p.pos:]))
	}
	return w, nil
}

func (p *parser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) get() rune {
	r := p.peek()
	p.pos++
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func (p *parser) number() (*big.Int, error) {
	neg := p.peek() == '-'
	if neg {
		p.get()
	}
	start := p.pos
	for isDigit(p.peek()) {
		p.get()
	}
	if p.pos == start {
		return nil, fmt.Errorf("circuit: expected a number at %d", p.pos)
	}
	n := new(big.Int)
	n.SetString(string(p.src[start:p.pos]), 10)
	if neg {
		n.Neg(n)
	}
	return n, nil
}

func (p *parser) label() (string, error) {
	if !isLower(p.peek()) {
		return "", fmt.Errorf("circuit: expected a label at %d", p.pos)
	}
	start := p.pos
	p.get()
	for isLower(p.peek()) || isDigit(p.peek()) {
		p.get()
	}
	return string(p.src[start:p.pos]), nil
}

// factor := label | '(' expression ')'
func (p *parser) factor() (int, error) {
	switch {
	case isDigit(p.peek()):
		return 0, fmt.Errorf("circuit: numbers can only follow '.' at %d", p.pos)
	case isLower(p.peek()):
		lbl, err := p.label()
		if err != nil {
			return 0, err
		}
		return p.c.addInputWire(lbl), nil
	case p.peek() == '(':
		p.get()
		w, err := p.expression()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("circuit: expected ')' at %d", p.pos)
		}
		p.get()
		return w, nil
	default:
		return 0, fmt.Errorf("circuit: unexpected character %q at %d", p.peek(), p.pos)
	}
}

// term := factor (('*' factor) | ('.' number))*
func (p *parser) term() (int, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for p.peek() == '*' || p.peek() == '.' {
		op := p.get()
		if op == '*' {
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			gate := p.c.addGate(MUL, nil, left, right)
			left = p.c.Gates[gate-1].Outputs[0]
		} else {
			scalar, err := p.number()
			if err != nil {
				return 0, err
			}
			gate := p.c.addGate(CMUL, scalar, left)
			left = p.c.Gates[gate-1].Outputs[0]
		}
	}
	return left, nil
}

// expression := term ('+' term)*
func (p *parser) expression() (int, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for p.peek() == '+' {
		p.get()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		gate := p.c.addGate(ADD, nil, left, right)
		left = p.c.Gates[gate-1].Outputs[0]
	}
	return left, nil
}

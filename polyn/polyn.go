// Package polyn is for linear polynomials, used to state linear equations
//
//	0 = c + a.1 x.1 + a.2 x.2 + ... + a.n x.n
//
// one at a time, before they are laid out as rows of a coefficient matrix.
/*
BSD 3-Clause License

Copyright (c) 2017–21, Norbert Pillmayer.

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
   list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
   contributors may be used to endorse or promote products derived from
   this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package polyn

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
)

// T traces to the equations tracer.
func T() tracing.Trace {
	return tracing.Select("equations")
}

// ErrIllegalTerm indicates a term position < 1 for a variable term.
var ErrIllegalTerm = errors.New("term position must be at least 1")

// A VariableResolver links term positions to "real" variable names.
//
// Terms are keyed by position i (a.i * x.i), position 0 being the constant.
// The resolver maps x.i to a readable name, e.g. "c2[3]".
type VariableResolver interface {
	GetVariableName(int) string // get real-life name of x.i
}

// X is a helper for quick construction of polynomials.
// It denotes a term
//
//	C⋅x[I]
//
// I > 0
type X struct {
	I int     // position of x
	C float64 // coefficient
}

// New creates a polynomial, given the constant and the variable terms.
//
// Use it as
//
//	polyn.New(8, polyn.X{2,5}, polyn.X{1,2/3} )
//
// to get
//
//	P(x) = 8 + 5b + 2/3a
func New(c float64, tms ...X) (Polynomial, error) {
	p := NewConstantPolynomial(c)
	var err error
	for _, t := range tms {
		if t.I < 1 {
			err = fmt.Errorf("%w, skipping term %g x.%d", ErrIllegalTerm, t.C, t.I)
			T().Errorf("illegal term position %d", t.I)
		} else {
			p.SetTerm(t.I, t.C)
		}
	}
	return p, err
}

// Polynomial is a type for linear polynomials
//
//	c + a.1 x.1 + a.2 x.2 + ... a.n x.n .
//
// We store the coefficients only, in a tree map keyed by position. Position 0
// is the constant term. Iterating over the map yields terms in ascending
// order of positions.
type Polynomial struct {
	Terms *treemap.Map
}

// NewConstantPolynomial creates a Polynomial consisting of just a constant term.
func NewConstantPolynomial(c float64) Polynomial {
	p := Polynomial{}
	p.checkTerms()
	p.Terms.Put(0, c)
	return p.Zap()
}

func (p *Polynomial) checkTerms() {
	if p.Terms == nil {
		p.Terms = treemap.NewWithIntComparator()
	}
}

// SetTerm sets the coefficient for a term a.i within a Polynomial.
// For i=0, sets the constant term. Polynomials share their terms, so p is
// altered as well; for a zero Polynomial use the result.
func (p Polynomial) SetTerm(i int, scale float64) Polynomial {
	p.checkTerms()
	p.Terms.Put(i, scale)
	return p
}

// GetCoeffForTerm gets the coefficient for term # i.
//
// Example:
//
//	p = x + 3x.2
//
// ⇒
//
//	coeff(2) = 3
func (p Polynomial) GetCoeffForTerm(i int) float64 {
	if p.Terms == nil {
		return 0
	}
	if scale, ok := p.Terms.Get(i); ok {
		return scale.(float64)
	}
	return 0
}

// GetConstantValue returns the constant term of a polynomial.
func (p Polynomial) GetConstantValue() float64 {
	return p.GetCoeffForTerm(0)
}

// Exponents returns the positions of all terms in ascending order, including
// the constant term at position 0.
func (p Polynomial) Exponents() []int {
	if p.Terms == nil {
		return nil
	}
	keys := p.Terms.Keys()
	positions := make([]int, len(keys))
	for i, k := range keys {
		positions[i] = k.(int)
	}
	return positions
}

// CopyPolynomial makes a copy of a numeric Polynomial.
func (p Polynomial) CopyPolynomial() Polynomial {
	p1 := NewConstantPolynomial(0)
	if p.Terms == nil {
		return p1
	}
	it := p.Terms.Iterator()
	for it.Next() {
		p1.SetTerm(it.Key().(int), it.Value().(float64))
	}
	return p1
}

// Zap eliminates all terms with coefficient=0 from a polynomial.
// The constant term is always kept.
func (p Polynomial) Zap() Polynomial {
	p.checkTerms()
	for _, k := range p.Terms.Keys() {
		pos := k.(int)
		scale := p.GetCoeffForTerm(pos)
		if pos == 0 {
			p.Terms.Put(0, splines.Zap(scale))
		} else if splines.Is0(scale) {
			p.Terms.Remove(pos)
		}
	}
	if _, found := p.Terms.Get(0); !found {
		p.Terms.Put(0, 0.0)
	}
	return p
}

// Subtract subtracts p2 from p and returns a new Polynomial. Neither
// operand is altered.
func (p Polynomial) Subtract(p2 Polynomial) Polynomial {
	p1 := p.CopyPolynomial()
	if p2.Terms == nil {
		return p1
	}
	it := p2.Terms.Iterator()
	for it.Next() {
		pos := it.Key().(int)
		scale := it.Value().(float64)
		if splines.Is0(scale) {
			continue
		}
		p1.SetTerm(pos, p1.GetCoeffForTerm(pos)-scale)
	}
	return p1.Zap()
}

// Evaluate calculates c + Σ a.i x.i, with the values of x.i delivered by
// function x. For an equation 0 = p, this is the residual of a candidate
// solution.
func (p Polynomial) Evaluate(x func(int) float64) float64 {
	if p.Terms == nil {
		return 0
	}
	var sum float64
	it := p.Terms.Iterator()
	for it.Next() {
		pos := it.Key().(int)
		if pos == 0 {
			sum += it.Value().(float64)
		} else {
			sum += it.Value().(float64) * x(pos)
		}
	}
	return sum
}

// String creates a readable string representation for a Polynomial.
// Uses internal variable representations x.<n>.
func (p Polynomial) String() string {
	return p.TraceString(nil)
}

// TraceString creates a string representation for a Polynomial. Uses a variable name
// resolver to print 'real' variable identifiers. If no resolver is
// present, variables are printed in a generic form: { a.i x.i }, where i is
// the position of the term.
func (p Polynomial) TraceString(resolv VariableResolver) string {
	var buffer bytes.Buffer
	var indent = false // no space before first term (usually constant)
	if p.Terms != nil {
		it := p.Terms.Iterator()
		for it.Next() {
			pos := it.Key().(int)
			scale := it.Value().(float64)
			if pos == 0 { // constant term
				if resolv == nil {
					buffer.WriteString(fmt.Sprintf("{ %g } ", splines.Round(scale)))
				} else if !splines.Is0(scale) {
					buffer.WriteString(fmt.Sprintf("%g", splines.Round(scale)))
					indent = true
				}
				continue
			}
			if resolv == nil {
				buffer.WriteString(fmt.Sprintf("{ %g x.%d } ", splines.Round(scale), pos))
				continue
			}
			if indent {
				if scale < 0.0 {
					buffer.WriteString(" - ")
				} else {
					buffer.WriteString(" + ")
				}
			} else {
				indent = true
				if scale < 0.0 {
					buffer.WriteString("-")
				}
			}
			if !splines.Is0(math.Abs(scale) - 1.0) {
				buffer.WriteString(fmt.Sprintf("%g", math.Abs(scale)))
			}
			buffer.WriteString(resolv.GetVariableName(pos))
		}
	}
	if resolv != nil && !indent {
		buffer.WriteString("0")
	}
	return buffer.String()
}

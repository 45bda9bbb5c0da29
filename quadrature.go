/*
Copyright © 2026 the RxCalc authors.
This file is part of RxCalc.

RxCalc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RxCalc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RxCalc.  If not, see <http://www.gnu.org/licenses/>.
*/

package rxcalc

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// DefaultSteps is the number of subintervals used when a step count is
// not given.
const DefaultSteps = 1000

// Rule is a fixed-step quadrature rule.
type Rule int

// Available quadrature rules.
const (
	// Simpson is the composite Simpson's rule. It needs an even number
	// of subintervals; odd step counts are rounded up.
	Simpson Rule = iota
	// Midpoint is the composite midpoint rule. It never evaluates the
	// integrand at the interval ends.
	Midpoint
	// Trapezoid is the composite trapezoidal rule.
	Trapezoid
)

func (r Rule) String() string {
	switch r {
	case Simpson:
		return "simpson"
	case Midpoint:
		return "midpoint"
	case Trapezoid:
		return "trapezoid"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule returns the rule with the given name.
func ParseRule(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simpson", "simpsons", "":
		return Simpson, nil
	case "midpoint":
		return Midpoint, nil
	case "trapezoid", "trapezoidal":
		return Trapezoid, nil
	}
	return Simpson, fmt.Errorf("rxcalc: invalid quadrature rule %q; valid options are simpson, midpoint and trapezoid", name)
}

// Integrate approximates the integral of f over [lower, upper] using n
// subintervals and the given rule. If upper <= lower it returns 0
// without calling f. If n < 1, DefaultSteps is used.
//
// The integrand is not checked: if f diverges inside the interval the
// result will be meaningless.
func Integrate(f func(float64) float64, lower, upper float64, n int, rule Rule) float64 {
	if !(upper > lower) {
		return 0
	}
	if n < 1 {
		n = DefaultSteps
	}
	switch rule {
	case Midpoint:
		return midpoint(f, lower, upper, n)
	case Trapezoid:
		return trapezoid(f, lower, upper, n)
	default:
		return simpson(f, lower, upper, n)
	}
}

// samples returns n+1 evenly spaced points on [a, b] and f at each.
func samples(f func(float64) float64, a, b float64, n int) (x, fx []float64) {
	x = floats.Span(make([]float64, n+1), a, b)
	fx = make([]float64, len(x))
	for i, xi := range x {
		fx[i] = f(xi)
	}
	return x, fx
}

func midpoint(f func(float64) float64, a, b float64, n int) float64 {
	h := (b - a) / float64(n)
	fx := make([]float64, n)
	for i := range fx {
		fx[i] = f(a + (float64(i)+0.5)*h)
	}
	return floats.Sum(fx) * h
}

func trapezoid(f func(float64) float64, a, b float64, n int) float64 {
	return integrate.Trapezoidal(samples(f, a, b, n))
}

func simpson(f func(float64) float64, a, b float64, n int) float64 {
	if n%2 != 0 {
		n++
	}
	_, fx := samples(f, a, b, n)
	var odd, even float64
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			odd += fx[i]
		} else {
			even += fx[i]
		}
	}
	h := (b - a) / float64(n)
	return h / 3 * (fx[0] + 4*odd + 2*even + fx[n])
}

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
	"math"
	"strings"
)

// DefaultRateConstant is the symbolic rate constant of a new rate law.
var DefaultRateConstant = Parse("k")

// RateLaw is a power-law rate expression,
//
//	rate = k × Π Cᵢ^αᵢ,
//
// over the species of Reaction whose exponent αᵢ is non-zero.
type RateLaw struct {
	Reaction *Reaction

	// K is the rate constant. It may be symbolic for display, but
	// evaluating the rate requires a number unless CoerceSymbolicK is set.
	K Value

	// If CoerceSymbolicK is true, a symbolic K is replaced by 1 when the
	// rate is evaluated instead of causing an error.
	CoerceSymbolicK bool
}

// Constant returns the numeric rate constant.
func (rl *RateLaw) Constant() (float64, error) {
	if k, ok := rl.K.Float64(); ok {
		return k, nil
	}
	if rl.CoerceSymbolicK {
		return 1, nil
	}
	return math.NaN(), &NonNumericRateConstantError{Constant: rl.K.String()}
}

// Concentration returns the concentration of species s when the
// limiting reactant has reached conversion x. Reactants are depleted
// in proportion to their coefficient relative to the limiting
// reactant's coefficient; products are formed from the limiting
// reactant's initial amount in the same proportion. Inerts do not change.
func Concentration(s Species, limitingCoeff, limitingAmount, x float64) float64 {
	switch s.Class {
	case Reactant:
		return s.InitialAmount * (1 - s.Coefficient/limitingCoeff*x)
	case Product:
		return s.InitialAmount + s.Coefficient/limitingCoeff*limitingAmount*x
	}
	return s.InitialAmount
}

// Rate returns the reaction rate at conversion x of the limiting
// reactant. It does not check whether the result is usable as a
// divisor; see Sizer for that.
func (rl *RateLaw) Rate(x float64) (float64, error) {
	f, err := rl.rateFunc()
	if err != nil {
		return math.NaN(), err
	}
	r, _ := f(x)
	return r, nil
}

// rateFunc validates the rate law once and returns a function
// evaluating it without repeating the checks. The function also returns
// the label of the first rate-law species whose concentration is not
// positive at x, or "" when every concentration is positive.
func (rl *RateLaw) rateFunc() (func(x float64) (float64, string), error) {
	k, err := rl.Constant()
	if err != nil {
		return nil, err
	}
	coeff, amount, err := rl.Reaction.limiting()
	if err != nil {
		return nil, err
	}
	var terms []Species
	for _, s := range rl.Reaction.Species() {
		if s.Exponent != 0 {
			terms = append(terms, s)
		}
	}
	return func(x float64) (float64, string) {
		rate := k
		var depleted string
		for _, s := range terms {
			c := Concentration(s, coeff, amount, x)
			if !(c > 0) && depleted == "" {
				depleted = s.Label()
			}
			rate *= math.Pow(c, s.Exponent)
		}
		return rate, depleted
	}, nil
}

// String renders the rate law, for example "Rate = k × [A₁]^1 × [A₂]^1".
func (rl *RateLaw) String() string {
	terms := []string{rl.K.String()}
	for _, s := range rl.Reaction.Species() {
		if s.Exponent == 0 {
			continue
		}
		terms = append(terms, "["+s.Label()+"]^"+formatNumber(s.Exponent))
	}
	return "Rate = " + strings.Join(terms, " × ")
}

// RateCalculation is the result of evaluating a rate law for display.
type RateCalculation struct {
	Display string `json:"display"`
	// InletRate is the rate at zero conversion. It is not computed
	// when the rate constant is symbolic.
	InletRate Measure `json:"inletRate"`
}

// Calculate renders the rate law and, when K is numeric, evaluates it
// at the inlet conditions.
func (rl *RateLaw) Calculate() (RateCalculation, error) {
	if err := rl.Reaction.Validate(); err != nil {
		return RateCalculation{}, err
	}
	c := RateCalculation{Display: rl.String()}
	if !rl.K.IsNumeric() {
		return c, nil
	}
	r, err := rl.Rate(0)
	if err != nil {
		return c, err
	}
	c.InletRate = Known(r)
	return c, nil
}

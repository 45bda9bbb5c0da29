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
)

// Class is the role a species plays in the reaction.
type Class int

// Species classes.
const (
	Reactant Class = iota
	Product
	Inert
)

// String returns the letter used to label species of class c.
func (c Class) String() string {
	switch c {
	case Reactant:
		return "A"
	case Product:
		return "B"
	case Inert:
		return "I"
	}
	return "?"
}

// Species is a single row of a reaction.
type Species struct {
	Class Class
	Index int // 1-based

	Coefficient   float64 // stoichiometric coefficient
	Exponent      float64 // rate-law exponent; zero for inerts
	InitialAmount float64 // molarity or molar flow rate, depending on basis
}

// Label returns the display name of s, for example "A₁".
func (s Species) Label() string {
	return s.Class.String() + subscript(s.Index)
}

func subscript(i int) string {
	const digits = "₀₁₂₃₄₅₆₇₈₉"
	var b strings.Builder
	for _, r := range fmt.Sprint(i) {
		if r < '0' || r > '9' {
			b.WriteRune(r)
			continue
		}
		b.WriteString(string([]rune(digits)[r-'0']))
	}
	return b.String()
}

// Reaction holds the species counts and per-species arrays of a single
// overall reaction. Every array must have exactly as many entries as
// its class count, except that a nil exponent array means that no
// species of that class appears in the rate law.
type Reaction struct {
	Reactants int `json:"reactants"`
	Products  int `json:"products"`
	Inerts    int `json:"inerts"`

	ReactantCoefficients []float64 `json:"reactantCoefficients"`
	ProductCoefficients  []float64 `json:"productCoefficients"`

	ReactantExponents []float64 `json:"reactantExponents,omitempty"`
	ProductExponents  []float64 `json:"productExponents,omitempty"`

	ReactantInitialAmounts []float64 `json:"reactantInitialAmounts"`
	ProductInitialAmounts  []float64 `json:"productInitialAmounts"`
	InertInitialAmounts    []float64 `json:"inertInitialAmounts"`
}

// NewReaction returns a reaction with the given species counts and
// default arrays: coefficients of 1, reactant exponents of 1, product
// exponents of 0, reactant initial amounts of 1 and product and inert
// initial amounts of 0. Negative counts are treated as zero.
func NewReaction(reactants, products, inerts int) *Reaction {
	reactants, products, inerts = nonNeg(reactants), nonNeg(products), nonNeg(inerts)
	return &Reaction{
		Reactants:              reactants,
		Products:               products,
		Inerts:                 inerts,
		ReactantCoefficients:   filled(reactants, 1),
		ProductCoefficients:    filled(products, 1),
		ReactantExponents:      filled(reactants, 1),
		ProductExponents:       filled(products, 0),
		ReactantInitialAmounts: filled(reactants, 1),
		ProductInitialAmounts:  filled(products, 0),
		InertInitialAmounts:    filled(inerts, 0),
	}
}

func nonNeg(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func filled(n int, v float64) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = v
	}
	return o
}

// Clone returns a deep copy of r.
func (r *Reaction) Clone() *Reaction {
	cp := func(s []float64) []float64 {
		if s == nil {
			return nil
		}
		return append([]float64(nil), s...)
	}
	return &Reaction{
		Reactants:              r.Reactants,
		Products:               r.Products,
		Inerts:                 r.Inerts,
		ReactantCoefficients:   cp(r.ReactantCoefficients),
		ProductCoefficients:    cp(r.ProductCoefficients),
		ReactantExponents:      cp(r.ReactantExponents),
		ProductExponents:       cp(r.ProductExponents),
		ReactantInitialAmounts: cp(r.ReactantInitialAmounts),
		ProductInitialAmounts:  cp(r.ProductInitialAmounts),
		InertInitialAmounts:    cp(r.InertInitialAmounts),
	}
}

// Validate checks that every array matches its species count.
func (r *Reaction) Validate() error {
	checks := []struct {
		field    string
		s        []float64
		count    int
		nilValid bool
	}{
		{"ReactantCoefficients", r.ReactantCoefficients, r.Reactants, false},
		{"ProductCoefficients", r.ProductCoefficients, r.Products, false},
		{"ReactantExponents", r.ReactantExponents, r.Reactants, true},
		{"ProductExponents", r.ProductExponents, r.Products, true},
		{"ReactantInitialAmounts", r.ReactantInitialAmounts, r.Reactants, false},
		{"ProductInitialAmounts", r.ProductInitialAmounts, r.Products, false},
		{"InertInitialAmounts", r.InertInitialAmounts, r.Inerts, false},
	}
	for _, c := range checks {
		if c.s == nil && c.nilValid {
			continue
		}
		if len(c.s) != c.count {
			return &DimensionMismatchError{Field: c.field, Length: len(c.s), Count: c.count}
		}
	}
	for i, c := range r.ReactantCoefficients {
		if c < 0 {
			return fmt.Errorf("%w: reactant coefficient %d is negative (%g)", ErrInvalidReaction, i+1, c)
		}
	}
	for i, c := range r.ProductCoefficients {
		if c < 0 {
			return fmt.Errorf("%w: product coefficient %d is negative (%g)", ErrInvalidReaction, i+1, c)
		}
	}
	return nil
}

// limiting returns the coefficient and initial amount of the limiting
// (first) reactant.
func (r *Reaction) limiting() (coeff, amount float64, err error) {
	if err := r.Validate(); err != nil {
		return 0, 0, err
	}
	if r.Reactants < 1 {
		return 0, 0, fmt.Errorf("%w: at least one reactant is required", ErrInvalidReaction)
	}
	if !(r.ReactantCoefficients[0] > 0) {
		return 0, 0, fmt.Errorf("%w: the limiting reactant coefficient must be positive, not %g",
			ErrInvalidReaction, r.ReactantCoefficients[0])
	}
	return r.ReactantCoefficients[0], r.ReactantInitialAmounts[0], nil
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// Species lists the reactants, products and inerts of r, in that order.
func (r *Reaction) Species() []Species {
	o := make([]Species, 0, r.Reactants+r.Products+r.Inerts)
	for i := 0; i < r.Reactants; i++ {
		o = append(o, Species{
			Class:         Reactant,
			Index:         i + 1,
			Coefficient:   at(r.ReactantCoefficients, i),
			Exponent:      at(r.ReactantExponents, i),
			InitialAmount: at(r.ReactantInitialAmounts, i),
		})
	}
	for i := 0; i < r.Products; i++ {
		o = append(o, Species{
			Class:         Product,
			Index:         i + 1,
			Coefficient:   at(r.ProductCoefficients, i),
			Exponent:      at(r.ProductExponents, i),
			InitialAmount: at(r.ProductInitialAmounts, i),
		})
	}
	for i := 0; i < r.Inerts; i++ {
		o = append(o, Species{
			Class:         Inert,
			Index:         i + 1,
			InitialAmount: at(r.InertInitialAmounts, i),
		})
	}
	return o
}

// String renders r as an equation, for example "2A₁ + A₂ → B₁".
func (r *Reaction) String() string {
	side := func(coeffs []float64, c Class, n int) string {
		parts := make([]string, n)
		for i := range parts {
			s := Species{Class: c, Index: i + 1}.Label()
			if v := at(coeffs, i); v != 1 {
				s = formatNumber(v) + s
			}
			parts[i] = s
		}
		return strings.Join(parts, " + ")
	}
	return side(r.ReactantCoefficients, Reactant, r.Reactants) + " → " +
		side(r.ProductCoefficients, Product, r.Products)
}

// ResetExponents returns a copy of r whose reactant exponents equal the
// reactant coefficients and whose product exponents are zero.
func (r *Reaction) ResetExponents() *Reaction {
	o := r.Clone()
	o.ReactantExponents = append([]float64(nil), r.ReactantCoefficients...)
	o.ProductExponents = filled(len(r.ProductCoefficients), 0)
	return o
}

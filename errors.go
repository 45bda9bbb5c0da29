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
	"errors"
	"fmt"
)

// Failures reported by the engine. The typed errors below unwrap to
// these values, so callers can test for them with errors.Is.
var (
	// ErrInvalidInterval indicates a conversion interval that is not
	// 0 ≤ initial < final < 1.
	ErrInvalidInterval = errors.New("rxcalc: invalid conversion interval")

	// ErrNonNumericRateConstant indicates a symbolic rate constant where
	// a number is required.
	ErrNonNumericRateConstant = errors.New("rxcalc: rate constant is not numeric")

	// ErrSingularRate indicates a rate that is zero, negative or not
	// finite somewhere in the conversion interval, or a rate-law
	// species whose concentration reaches zero.
	ErrSingularRate = errors.New("rxcalc: singular reaction rate")

	// ErrDimensionMismatch indicates a per-species array whose length
	// differs from its species count.
	ErrDimensionMismatch = errors.New("rxcalc: dimension mismatch")

	// ErrInvalidReaction indicates a reaction that cannot define a
	// limiting reactant.
	ErrInvalidReaction = errors.New("rxcalc: invalid reaction")

	// ErrInvalidFlow indicates a volumetric flow rate that is not
	// positive where a continuous reactor needs one.
	ErrInvalidFlow = errors.New("rxcalc: invalid volumetric flow rate")

	// ErrSingularFlow indicates a total molar flow of zero in the
	// volumetric-flow correction.
	ErrSingularFlow = errors.New("rxcalc: total molar flow is zero")

	// ErrNonNumericCondition indicates a symbolic process condition in a
	// numeric calculation.
	ErrNonNumericCondition = errors.New("rxcalc: process condition is not numeric")

	// ErrUnboundSymbol indicates a symbol without a value in Evaluate.
	ErrUnboundSymbol = errors.New("rxcalc: unbound symbol")
)

// InvalidIntervalError describes a rejected conversion interval.
type InvalidIntervalError struct {
	Initial, Final float64
}

func (e *InvalidIntervalError) Error() string {
	if e.Final <= e.Initial {
		return fmt.Sprintf("rxcalc: final conversion (%g) must exceed initial conversion (%g)", e.Final, e.Initial)
	}
	return fmt.Sprintf("rxcalc: conversions must satisfy 0 ≤ X₀ < X < 1; got X₀=%g, X=%g", e.Initial, e.Final)
}

// Unwrap returns ErrInvalidInterval.
func (e *InvalidIntervalError) Unwrap() error { return ErrInvalidInterval }

// NonNumericRateConstantError reports the rate constant that could not
// be evaluated.
type NonNumericRateConstantError struct {
	Constant string
}

func (e *NonNumericRateConstantError) Error() string {
	return fmt.Sprintf("rxcalc: rate constant %q is not numeric; give k a number to size reactors", e.Constant)
}

// Unwrap returns ErrNonNumericRateConstant.
func (e *NonNumericRateConstantError) Unwrap() error { return ErrNonNumericRateConstant }

// SingularRateError records where the rate stopped being usable as a
// divisor. Species is set when a rate-law species was used up.
type SingularRateError struct {
	Conversion float64
	Rate       float64
	Species    string
}

func (e *SingularRateError) Error() string {
	if e.Species != "" {
		return fmt.Sprintf("rxcalc: %s is used up at conversion %g (rate %g)", e.Species, e.Conversion, e.Rate)
	}
	return fmt.Sprintf("rxcalc: reaction rate is %g at conversion %g; 1/rate is not finite", e.Rate, e.Conversion)
}

// Unwrap returns ErrSingularRate.
func (e *SingularRateError) Unwrap() error { return ErrSingularRate }

// DimensionMismatchError names the array that disagrees with its count.
type DimensionMismatchError struct {
	Field  string
	Length int
	Count  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("rxcalc: %s has %d entries but the species count is %d", e.Field, e.Length, e.Count)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// SingularFlowError reports a numeric volumetric-flow correction whose
// total final molar flow is zero.
type SingularFlowError struct {
	Extent float64
}

func (e *SingularFlowError) Error() string {
	return fmt.Sprintf("rxcalc: total molar flow is zero at extent ξ=%g", e.Extent)
}

// Unwrap returns ErrSingularFlow.
func (e *SingularFlowError) Unwrap() error { return ErrSingularFlow }

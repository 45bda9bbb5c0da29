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
	"math"
	"testing"
)

// firstOrder returns the rate law of A₁ → B₁ with rate = k[A₁] and
// [A₁]₀ = 2.
func firstOrder(k float64) *RateLaw {
	r := NewReaction(1, 1, 0)
	r.ReactantInitialAmounts[0] = 2
	return &RateLaw{Reaction: r, K: Num(k)}
}

func TestRate(t *testing.T) {
	rl := firstOrder(1)
	for _, test := range []struct {
		x, want float64
	}{
		{0, 2},
		{0.5, 1},
		{0.9, 0.2},
	} {
		have, err := rl.Rate(test.x)
		if err != nil {
			t.Fatal(err)
		}
		if absDifferent(have, test.want, 1e-12) {
			t.Errorf("X=%g: have %g, want %g", test.x, have, test.want)
		}
	}
}

// For positive exponents on reactants the rate must fall as conversion rises.
func TestRateMonotonic(t *testing.T) {
	for _, exps := range [][]float64{{1, 1}, {0.5, 2}, {1.5, 0}} {
		r := NewReaction(2, 1, 1)
		r.ReactantCoefficients = []float64{1, 0.5}
		r.ReactantExponents = exps
		r.ReactantInitialAmounts = []float64{1, 3}
		rl := &RateLaw{Reaction: r, K: Num(0.7)}
		prev := math.Inf(1)
		for x := 0.0; x < 0.95; x += 0.05 {
			rate, err := rl.Rate(x)
			if err != nil {
				t.Fatal(err)
			}
			if !(rate < prev) {
				t.Errorf("exponents %v: rate at X=%g (%g) is not below %g", exps, x, rate, prev)
			}
			prev = rate
		}
	}
}

func TestRateFractionalExponent(t *testing.T) {
	rl := firstOrder(1)
	rl.Reaction.ReactantExponents[0] = 0.5
	have, err := rl.Rate(0.75)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Sqrt(0.5); absDifferent(have, want, 1e-12) {
		t.Errorf("have %g, want %g", have, want)
	}
}

func TestRateProductExponent(t *testing.T) {
	rl := firstOrder(1)
	rl.Reaction.ProductExponents[0] = 1
	rl.Reaction.ProductInitialAmounts[0] = 0.5
	// [A₁] = 2(1-0.5) = 1, [B₁] = 0.5 + 2×0.5 = 1.5
	have, err := rl.Rate(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(have, 1.5, 1e-12) {
		t.Errorf("have %g, want 1.5", have)
	}
}

func TestRateZeroExponentsSkipped(t *testing.T) {
	r := NewReaction(1, 0, 0)
	r.ReactantExponents = nil
	rl := &RateLaw{Reaction: r, K: Num(3)}
	have, err := rl.Rate(0.99)
	if err != nil {
		t.Fatal(err)
	}
	if have != 3 {
		t.Errorf("zero-order rate: have %g, want 3", have)
	}
}

func TestRateConstantPolicy(t *testing.T) {
	rl := firstOrder(1)
	rl.K = Parse("k")
	_, err := rl.Rate(0)
	if !errors.Is(err, ErrNonNumericRateConstant) {
		t.Errorf("strict: have %v, want ErrNonNumericRateConstant", err)
	}
	var e *NonNumericRateConstantError
	if !errors.As(err, &e) || e.Constant != "k" {
		t.Errorf("strict: have %#v", err)
	}

	rl.CoerceSymbolicK = true
	have, err := rl.Rate(0)
	if err != nil {
		t.Fatal(err)
	}
	if have != 2 {
		t.Errorf("coerced: have %g, want 2", have)
	}
}

func TestRateInvalidReaction(t *testing.T) {
	rl := &RateLaw{Reaction: NewReaction(0, 1, 0), K: Num(1)}
	if _, err := rl.Rate(0); !errors.Is(err, ErrInvalidReaction) {
		t.Errorf("no reactants: have %v", err)
	}
	rl = firstOrder(1)
	rl.Reaction.ReactantCoefficients[0] = 0
	if _, err := rl.Rate(0); !errors.Is(err, ErrInvalidReaction) {
		t.Errorf("zero limiting coefficient: have %v", err)
	}
	rl = firstOrder(1)
	rl.Reaction.ReactantInitialAmounts = []float64{1, 2}
	var e *DimensionMismatchError
	if _, err := rl.Rate(0); !errors.As(err, &e) || e.Field != "ReactantInitialAmounts" {
		t.Errorf("dimension mismatch: have %v", err)
	}
}

func TestRateLawString(t *testing.T) {
	r := NewReaction(2, 2, 0)
	r.ProductExponents[1] = 0.5
	rl := &RateLaw{Reaction: r, K: DefaultRateConstant}
	want := "Rate = k × [A₁]^1 × [A₂]^1 × [B₂]^0.5"
	if have := rl.String(); have != want {
		t.Errorf("have %q, want %q", have, want)
	}
}

func TestCalculate(t *testing.T) {
	rl := firstOrder(1)
	rl.K = Parse("k")
	c, err := rl.Calculate()
	if err != nil {
		t.Fatal(err)
	}
	if c.InletRate.Computed() {
		t.Error("inlet rate should not be computed for a symbolic k")
	}
	if c.Display != "Rate = k × [A₁]^1" {
		t.Errorf("display %q", c.Display)
	}

	rl.K = Num(0.5)
	c, err = rl.Calculate()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := c.InletRate.Get(); !ok || v != 1 {
		t.Errorf("inlet rate: have %v, want 1", c.InletRate)
	}
}

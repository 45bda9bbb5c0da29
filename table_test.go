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
	"testing"

	"github.com/kr/pretty"
)

// 2A₁ → B₁ with one inert.
func tableReaction() *Reaction {
	r := NewReaction(1, 1, 1)
	r.ReactantCoefficients[0] = 2
	r.InertInitialAmounts[0] = 0.5
	return r
}

func TestTableSymbolic(t *testing.T) {
	tbl, err := NewTable(tableReaction(), SymbolicConditions(), Symbolic)
	if err != nil {
		t.Fatal(err)
	}
	type row struct{ Label, Initial, Change, Final string }
	var have []row
	for _, r := range tbl.Rows {
		have = append(have, row{r.Label, r.Initial.String(), r.Change.String(), r.Final.String()})
	}
	want := []row{
		{"A₁", "1", "-2×ξ", "1-2×ξ"},
		{"B₁", "0", "ξ", "ξ"},
		{"I₁", "0.5", "0", "0.5"},
	}
	if diff := pretty.Diff(have, want); len(diff) > 0 {
		t.Errorf("rows: %v", diff)
	}
	if tbl.TotalInitial.String() != "1.5" {
		t.Errorf("F_T0 = %v", tbl.TotalInitial)
	}
	if tbl.ExtentCoefficient != -1 {
		t.Errorf("δ = %g", tbl.ExtentCoefficient)
	}
	if tbl.TotalFinal.String() != "1.5-ξ" {
		t.Errorf("F_T = %v", tbl.TotalFinal)
	}
	wantV := "P₀/P×T/T₀×1.5/(1.5-ξ)"
	if tbl.VolumetricFlow.String() != wantV {
		t.Errorf("V = %v, want %v", tbl.VolumetricFlow, wantV)
	}
	if f := tbl.TotalFinalFormula(); f != "F_T = 1.5 + (-1)×ξ = 1.5-ξ" {
		t.Errorf("formula %q", f)
	}

	// Binding the placeholders must give the numeric table.
	bindings := map[string]float64{"P₀": 2, "P": 1, "T₀": 300, "T": 450, "ξ": 0.25}
	v, err := Evaluate(tbl.VolumetricFlow, bindings)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0 * 1.5 * 1.5 / 1.25; absDifferent(v, want, 1e-12) {
		t.Errorf("evaluated V = %g, want %g", v, want)
	}
}

// The sum of the final column must equal F_T0 + δξ in both modes.
func TestTableConservation(t *testing.T) {
	r := NewReaction(2, 3, 2)
	r.ReactantCoefficients = []float64{1, 3}
	r.ProductCoefficients = []float64{2, 0.5, 1}
	r.ReactantInitialAmounts = []float64{2, 5}
	r.ProductInitialAmounts = []float64{0, 0.1, 0}
	r.InertInitialAmounts = []float64{1, 0.3}

	for _, xi := range []float64{0, 0.1, 0.4} {
		pc := NumericConditions()
		pc.VolumetricFlow = 2
		pc.Extent = Num(xi)
		num, err := NewTable(r, pc, Numeric)
		if err != nil {
			t.Fatal(err)
		}
		sym, err := NewTable(r, SymbolicConditions(), Symbolic)
		if err != nil {
			t.Fatal(err)
		}
		bindings := map[string]float64{"ξ": xi}

		var numSum, symSum float64
		for i := range num.Rows {
			f, ok := num.Rows[i].Final.Float64()
			if !ok {
				t.Fatalf("row %d is not numeric: %v", i, num.Rows[i].Final)
			}
			numSum += f
			s, err := Evaluate(sym.Rows[i].Final, bindings)
			if err != nil {
				t.Fatal(err)
			}
			symSum += s
		}
		ft, _ := num.TotalFinal.Float64()
		if absDifferent(numSum, ft, 1e-12) {
			t.Errorf("numeric ξ=%g: Σ final = %g, F_T = %g", xi, numSum, ft)
		}
		symFT, err := Evaluate(sym.TotalFinal, bindings)
		if err != nil {
			t.Fatal(err)
		}
		if absDifferent(symSum, symFT, 1e-12) {
			t.Errorf("symbolic ξ=%g: Σ final = %g, F_T = %g", xi, symSum, symFT)
		}
		// The symbolic table uses v₀ = 1, the numeric one v₀ = 2.
		if want := 2*8.4 - 0.5*xi; absDifferent(ft, want, 1e-12) {
			t.Errorf("ξ=%g: F_T = %g, want %g", xi, ft, want)
		}
	}
}

func TestTableNumeric(t *testing.T) {
	pc := NumericConditions()
	pc.Extent = Num(0.2)
	pc.FinalTemperature = Num(600)
	tbl, err := NewTable(tableReaction(), pc, Numeric)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := tbl.VolumetricFlow.Float64()
	if !ok {
		t.Fatalf("V is not numeric: %v", tbl.VolumetricFlow)
	}
	if want := 2 * 1.5 / 1.3; absDifferent(v, want, 1e-12) {
		t.Errorf("V = %g, want %g", v, want)
	}
}

func TestTableConcentrationBasis(t *testing.T) {
	pc := NumericConditions()
	pc.VolumetricFlow = 4
	pc.Basis = ConcentrationBasis
	tbl, err := NewTable(tableReaction(), pc, Numeric)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := tbl.Rows[0].Initial.Float64(); f != 1 {
		t.Errorf("concentration basis initial = %g, want 1", f)
	}
	pc.Basis = FlowBasis
	tbl, err = NewTable(tableReaction(), pc, Numeric)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := tbl.Rows[0].Initial.Float64(); f != 4 {
		t.Errorf("flow basis initial = %g, want 4", f)
	}
}

func TestTableErrors(t *testing.T) {
	t.Run("singular flow", func(t *testing.T) {
		r := NewReaction(1, 0, 0)
		pc := NumericConditions()
		pc.Extent = Num(1)
		_, err := NewTable(r, pc, Numeric)
		var e *SingularFlowError
		if !errors.As(err, &e) || e.Extent != 1 {
			t.Errorf("have %v, want SingularFlowError", err)
		}
	})
	t.Run("symbolic condition", func(t *testing.T) {
		pc := NumericConditions()
		pc.FinalPressure = Parse("P")
		if _, err := NewTable(tableReaction(), pc, Numeric); !errors.Is(err, ErrNonNumericCondition) {
			t.Errorf("have %v", err)
		}
	})
	t.Run("negative flow", func(t *testing.T) {
		pc := SymbolicConditions()
		pc.VolumetricFlow = -1
		if _, err := NewTable(tableReaction(), pc, Symbolic); !errors.Is(err, ErrInvalidFlow) {
			t.Errorf("have %v", err)
		}
	})
	t.Run("dimension mismatch", func(t *testing.T) {
		r := tableReaction()
		r.InertInitialAmounts = nil
		if _, err := NewTable(r, SymbolicConditions(), Symbolic); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("have %v", err)
		}
	})
	t.Run("symbolic divide by zero", func(t *testing.T) {
		r := NewReaction(1, 0, 0)
		pc := SymbolicConditions()
		pc.Extent = Num(1)
		tbl, err := NewTable(r, pc, Symbolic)
		if err != nil {
			t.Fatal(err)
		}
		if tbl.TotalFinal.String() != "0" {
			t.Errorf("F_T = %v", tbl.TotalFinal)
		}
		if _, err := Evaluate(tbl.VolumetricFlow, map[string]float64{"P₀": 1, "P": 1, "T₀": 1, "T": 1}); err == nil {
			t.Errorf("V = %v should not evaluate", tbl.VolumetricFlow)
		}
	})
}

func TestBasisText(t *testing.T) {
	var b Basis
	if err := b.UnmarshalText([]byte("concentration")); err != nil {
		t.Fatal(err)
	}
	if b != ConcentrationBasis {
		t.Errorf("have %v", b)
	}
	if text, _ := b.MarshalText(); string(text) != "concentration" {
		t.Errorf("have %s", text)
	}
	if err := b.UnmarshalText([]byte("mass")); err == nil {
		t.Error("expected an error")
	}
	if text, _ := Numeric.MarshalText(); string(text) != "numeric" {
		t.Errorf("mode %s", text)
	}
}

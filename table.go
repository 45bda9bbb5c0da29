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
	"math"
)

// Mode selects how a stoichiometric table is evaluated.
type Mode int

const (
	// Symbolic keeps non-numeric process conditions as placeholders.
	Symbolic Mode = iota
	// Numeric requires every process condition to be a number.
	Numeric
)

func (m Mode) String() string {
	if m == Numeric {
		return "numeric"
	}
	return "symbolic"
}

// MarshalText makes Modes serialize by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Basis selects what the initial amounts of a reaction represent.
type Basis int

const (
	// FlowBasis treats initial amounts as concentrations that are
	// multiplied by the volumetric flow rate to give molar flow rates.
	FlowBasis Basis = iota
	// ConcentrationBasis uses the initial amounts as they are.
	ConcentrationBasis
)

// ParseBasis returns the basis with the given name.
func ParseBasis(name string) (Basis, error) {
	switch name {
	case "flow", "":
		return FlowBasis, nil
	case "concentration":
		return ConcentrationBasis, nil
	}
	return FlowBasis, fmt.Errorf("rxcalc: invalid basis %q; valid options are flow and concentration", name)
}

func (b Basis) String() string {
	if b == ConcentrationBasis {
		return "concentration"
	}
	return "flow"
}

// MarshalText makes Bases serialize by name.
func (b Basis) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText parses a Basis name.
func (b *Basis) UnmarshalText(text []byte) error {
	v, err := ParseBasis(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ProcessConditions are the operating conditions used by a
// stoichiometric table.
type ProcessConditions struct {
	VolumetricFlow float64 `json:"volumetricFlow"` // v₀

	InitialPressure    Value `json:"initialPressure"`
	FinalPressure      Value `json:"finalPressure"`
	InitialTemperature Value `json:"initialTemperature"`
	FinalTemperature   Value `json:"finalTemperature"`

	// Extent is the extent of reaction ξ.
	Extent Value `json:"extent"`

	Basis Basis `json:"basis"`
}

// SymbolicConditions returns the default conditions with placeholder
// pressures, temperatures and extent.
func SymbolicConditions() ProcessConditions {
	return ProcessConditions{
		VolumetricFlow:     1,
		InitialPressure:    Parse("P₀"),
		FinalPressure:      Parse("P"),
		InitialTemperature: Parse("T₀"),
		FinalTemperature:   Parse("T"),
		Extent:             Parse("ξ"),
	}
}

// NumericConditions returns the default numeric conditions: isobaric
// and isothermal at 1 atm and 300 K with no reaction.
func NumericConditions() ProcessConditions {
	return ProcessConditions{
		VolumetricFlow:     1,
		InitialPressure:    Num(1),
		FinalPressure:      Num(1),
		InitialTemperature: Num(300),
		FinalTemperature:   Num(300),
		Extent:             Num(0),
	}
}

// checkNumeric returns an error naming the first symbolic condition.
func (pc ProcessConditions) checkNumeric() error {
	for _, c := range []struct {
		name string
		v    Value
	}{
		{"initial pressure", pc.InitialPressure},
		{"final pressure", pc.FinalPressure},
		{"initial temperature", pc.InitialTemperature},
		{"final temperature", pc.FinalTemperature},
		{"extent of reaction", pc.Extent},
	} {
		if !c.v.IsNumeric() {
			return fmt.Errorf("%w: %s is %q", ErrNonNumericCondition, c.name, c.v)
		}
	}
	return nil
}

// TableRow is one species of a stoichiometric table.
type TableRow struct {
	Species Species `json:"-"`
	Label   string  `json:"species"`
	Initial Value   `json:"initial"`
	Change  Value   `json:"change"`
	Final   Value   `json:"final"`
}

// Table is a stoichiometric table: per-species flows (or concentrations)
// as a function of the extent of reaction, plus the totals and the
// gas-phase volumetric flow correction.
type Table struct {
	Mode       Mode              `json:"mode"`
	Conditions ProcessConditions `json:"conditions"`
	Rows       []TableRow        `json:"rows"`

	// TotalInitial is F_T0, the sum of the initial column.
	TotalInitial Value `json:"totalInitial"`
	// ExtentCoefficient is δ = Σ product coefficients − Σ reactant coefficients.
	ExtentCoefficient float64 `json:"extentCoefficient"`
	// TotalFinal is F_T = F_T0 + δξ.
	TotalFinal Value `json:"totalFinal"`

	// VolumetricFlow is V = V₀ (P₀/P) (T/T₀) (F_T0/F_T).
	VolumetricFlow Value `json:"volumetricFlow"`
}

// NewTable builds the stoichiometric table of r under pc. In Numeric
// mode every condition must be numeric and V is evaluated to a number.
func NewTable(r *Reaction, pc ProcessConditions, mode Mode) (*Table, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(pc.VolumetricFlow) || pc.VolumetricFlow < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidFlow, pc.VolumetricFlow)
	}
	if mode == Numeric {
		if err := pc.checkNumeric(); err != nil {
			return nil, err
		}
	}
	v0 := Num(pc.VolumetricFlow)
	xi := pc.Extent

	t := &Table{Mode: mode, Conditions: pc}
	totalInitial := Num(0)
	var sumProducts, sumReactants float64
	for _, s := range r.Species() {
		initial := Num(s.InitialAmount)
		if pc.Basis == FlowBasis {
			initial = Multiply(initial, v0)
		}
		var change Value
		switch s.Class {
		case Reactant:
			change = Negate(Multiply(Num(s.Coefficient), xi))
			sumReactants += s.Coefficient
		case Product:
			change = Multiply(Num(s.Coefficient), xi)
			sumProducts += s.Coefficient
		}
		t.Rows = append(t.Rows, TableRow{
			Species: s,
			Label:   s.Label(),
			Initial: initial,
			Change:  change,
			Final:   Add(initial, change),
		})
		totalInitial = Add(totalInitial, initial)
	}
	t.TotalInitial = totalInitial
	t.ExtentCoefficient = sumProducts - sumReactants
	growth := Multiply(Num(math.Abs(t.ExtentCoefficient)), xi)
	if t.ExtentCoefficient < 0 {
		growth = Negate(growth)
	}
	t.TotalFinal = Add(totalInitial, growth)

	pressureRatio := Divide(pc.InitialPressure, pc.FinalPressure)
	temperatureRatio := Divide(pc.FinalTemperature, pc.InitialTemperature)
	moleRatio := Divide(t.TotalInitial, t.TotalFinal)
	t.VolumetricFlow = Multiply(Multiply(Multiply(v0, pressureRatio), temperatureRatio), moleRatio)

	if mode == Numeric {
		if ft, _ := t.TotalFinal.Float64(); ft == 0 {
			xiv, _ := xi.Float64()
			return nil, &SingularFlowError{Extent: xiv}
		}
		if !t.VolumetricFlow.IsNumeric() {
			return nil, fmt.Errorf("%w: volumetric flow correction is %s", ErrNonNumericCondition, t.VolumetricFlow)
		}
	}
	return t, nil
}

// TotalFinalFormula renders F_T = F_T0 + (δ)ξ with the table's values.
func (t *Table) TotalFinalFormula() string {
	return fmt.Sprintf("F_T = %s + (%s)×%s = %s",
		t.TotalInitial, formatNumber(t.ExtentCoefficient), t.Conditions.Extent, t.TotalFinal)
}

// VolumetricFlowFormula renders the volumetric flow correction with the
// table's values substituted.
func (t *Table) VolumetricFlowFormula() string {
	pc := t.Conditions
	return fmt.Sprintf("V = %s × (%s/%s) × (%s/%s) × %s/(%s + (%s)×%s) = %s",
		formatNumber(pc.VolumetricFlow), pc.InitialPressure, pc.FinalPressure,
		pc.FinalTemperature, pc.InitialTemperature,
		t.TotalInitial, t.TotalInitial, formatNumber(t.ExtentCoefficient), pc.Extent,
		t.VolumetricFlow)
}

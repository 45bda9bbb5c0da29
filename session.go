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

import "fmt"

// ReactorType identifies one of the ideal reactors.
type ReactorType int

// Reactor types.
const (
	PFR ReactorType = iota
	CSTR
	Batch
)

func (t ReactorType) String() string {
	switch t {
	case PFR:
		return "PFR"
	case CSTR:
		return "CSTR"
	case Batch:
		return "Batch"
	}
	return fmt.Sprintf("ReactorType(%d)", int(t))
}

// ReactorState holds the inputs of one reactor. Reactors is only used
// by the CSTR.
type ReactorState struct {
	Interval ConversionInterval `json:"interval"`
	Reactors int                `json:"reactors,omitempty"`
}

// Session holds the inputs and latest results of one user's
// calculations. The engine functions it calls receive copies of its
// reaction and never hold on to them. A Session must not be used from
// more than one goroutine at a time.
type Session struct {
	Reaction *Reaction

	// K is the rate constant and CoerceSymbolicK the policy applied to a
	// symbolic K when rates are evaluated.
	K               Value
	CoerceSymbolicK bool

	// RateLaw is the last calculated rate law; it is only refreshed by
	// CalculateRateLaw and ResetRateLaw.
	RateLaw RateCalculation

	SymbolicConditions ProcessConditions
	NumericConditions  ProcessConditions
	// UseNumerical selects which set of conditions Table uses.
	UseNumerical bool

	Rule  Rule
	Steps int

	PFR, CSTR, Batch ReactorState

	PFRResult   PFRResult
	CSTRResult  CSTRResult
	BatchResult BatchResult
}

// NewSession returns a session with two reactants, two products, no
// inerts, a symbolic rate constant and default conditions.
func NewSession() *Session {
	s := &Session{
		K:                  DefaultRateConstant,
		SymbolicConditions: SymbolicConditions(),
		NumericConditions:  NumericConditions(),
		Rule:               Simpson,
		Steps:              DefaultSteps,
		PFR:                ReactorState{Interval: DefaultInterval},
		CSTR:               ReactorState{Interval: DefaultInterval, Reactors: 1},
		Batch:              ReactorState{Interval: DefaultInterval},
	}
	s.Generate(2, 2, 0)
	return s
}

// Generate replaces the reaction with one of the given species counts
// and default arrays. Results that depended on the old reaction are
// cleared.
func (s *Session) Generate(reactants, products, inerts int) {
	s.Reaction = NewReaction(reactants, products, inerts)
	s.RateLaw = RateCalculation{}
	s.PFRResult = PFRResult{Interval: s.PFR.Interval}
	s.CSTRResult = CSTRResult{Interval: s.CSTR.Interval, Reactors: ClampReactors(s.CSTR.Reactors)}
	s.BatchResult = BatchResult{Interval: s.Batch.Interval}
}

func (s *Session) slot(c Class, field string, index int) (*float64, error) {
	var arr []float64
	switch {
	case c == Reactant && field == "coefficient":
		arr = s.Reaction.ReactantCoefficients
	case c == Product && field == "coefficient":
		arr = s.Reaction.ProductCoefficients
	case c == Reactant && field == "exponent":
		arr = s.Reaction.ReactantExponents
	case c == Product && field == "exponent":
		arr = s.Reaction.ProductExponents
	case c == Reactant && field == "initial amount":
		arr = s.Reaction.ReactantInitialAmounts
	case c == Product && field == "initial amount":
		arr = s.Reaction.ProductInitialAmounts
	case c == Inert && field == "initial amount":
		arr = s.Reaction.InertInitialAmounts
	default:
		return nil, fmt.Errorf("%w: %s species have no %s", ErrInvalidReaction, c, field)
	}
	if index < 1 || index > len(arr) {
		return nil, fmt.Errorf("%w: no %s with index %d", ErrInvalidReaction, Species{Class: c, Index: index}.Label(), index)
	}
	return &arr[index-1], nil
}

// SetCoefficient sets the stoichiometric coefficient of species
// (c, index). Setting a reactant coefficient also sets that reactant's
// rate-law exponent, so that a new reaction starts out elementary.
func (s *Session) SetCoefficient(c Class, index int, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: coefficient of %s is negative (%g)", ErrInvalidReaction, Species{Class: c, Index: index}.Label(), v)
	}
	p, err := s.slot(c, "coefficient", index)
	if err != nil {
		return err
	}
	*p = v
	if c == Reactant {
		if s.Reaction.ReactantExponents == nil {
			s.Reaction.ReactantExponents = make([]float64, s.Reaction.Reactants)
		}
		s.Reaction.ReactantExponents[index-1] = v
	}
	return nil
}

// SetExponent sets the rate-law exponent of species (c, index).
func (s *Session) SetExponent(c Class, index int, v float64) error {
	switch c {
	case Reactant:
		if s.Reaction.ReactantExponents == nil {
			s.Reaction.ReactantExponents = make([]float64, s.Reaction.Reactants)
		}
	case Product:
		if s.Reaction.ProductExponents == nil {
			s.Reaction.ProductExponents = make([]float64, s.Reaction.Products)
		}
	}
	p, err := s.slot(c, "exponent", index)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// SetInitialAmount sets the initial amount of species (c, index).
func (s *Session) SetInitialAmount(c Class, index int, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: initial amount of %s is negative (%g)", ErrInvalidReaction, Species{Class: c, Index: index}.Label(), v)
	}
	p, err := s.slot(c, "initial amount", index)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// SetRateConstant sets the rate constant from its text, which may be a
// number or a symbol.
func (s *Session) SetRateConstant(k string) {
	s.K = Parse(k)
}

func (s *Session) rateLaw() *RateLaw {
	return &RateLaw{Reaction: s.Reaction.Clone(), K: s.K, CoerceSymbolicK: s.CoerceSymbolicK}
}

// CalculateRateLaw refreshes the displayed rate law.
func (s *Session) CalculateRateLaw() (RateCalculation, error) {
	c, err := s.rateLaw().Calculate()
	if err != nil {
		return c, err
	}
	s.RateLaw = c
	return c, nil
}

// ResetRateLaw sets the reactant exponents to the reactant
// coefficients, the product exponents to zero and the rate constant back
// to its symbolic default, then refreshes the displayed rate law.
func (s *Session) ResetRateLaw() (RateCalculation, error) {
	s.Reaction = s.Reaction.ResetExponents()
	s.K = DefaultRateConstant
	return s.CalculateRateLaw()
}

// Conditions returns the process conditions currently in use.
func (s *Session) Conditions() ProcessConditions {
	if s.UseNumerical {
		return s.NumericConditions
	}
	return s.SymbolicConditions
}

// Table builds the stoichiometric table for the conditions in use.
func (s *Session) Table() (*Table, error) {
	mode := Symbolic
	if s.UseNumerical {
		mode = Numeric
	}
	return NewTable(s.Reaction.Clone(), s.Conditions(), mode)
}

func (s *Session) sizer() *Sizer {
	return &Sizer{
		Rate:           s.rateLaw(),
		VolumetricFlow: s.Conditions().VolumetricFlow,
		Rule:           s.Rule,
		Steps:          s.Steps,
	}
}

// SizePFR sizes the plug-flow reactor and stores the result.
func (s *Session) SizePFR() (PFRResult, error) {
	res, err := s.sizer().PFR(s.PFR.Interval)
	if err != nil {
		return res, err
	}
	s.PFRResult = res
	return res, nil
}

// SizeCSTR sizes the CSTR series and stores the result.
func (s *Session) SizeCSTR() (CSTRResult, error) {
	s.CSTR.Reactors = ClampReactors(s.CSTR.Reactors)
	res, err := s.sizer().CSTR(s.CSTR.Interval, s.CSTR.Reactors)
	if err != nil {
		return res, err
	}
	s.CSTRResult = res
	return res, nil
}

// SizeBatch sizes the batch reactor and stores the result.
func (s *Session) SizeBatch() (BatchResult, error) {
	res, err := s.sizer().Batch(s.Batch.Interval)
	if err != nil {
		return res, err
	}
	s.BatchResult = res
	return res, nil
}

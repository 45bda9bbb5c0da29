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
	"encoding/json"
	"fmt"
	"math"
)

// MaxReactors is the largest number of CSTRs that can be placed in series.
const MaxReactors = 10

// Measure is a calculated quantity that may not have been computed yet.
// The zero Measure is not computed.
type Measure struct {
	v  float64
	ok bool
}

// Known returns a computed Measure.
func Known(v float64) Measure { return Measure{v: v, ok: true} }

// Get returns the value and whether it has been computed.
func (m Measure) Get() (float64, bool) {
	if !m.ok {
		return math.NaN(), false
	}
	return m.v, true
}

// Computed reports whether m holds a value.
func (m Measure) Computed() bool { return m.ok }

// Float64 returns the value, or NaN when it has not been computed.
func (m Measure) Float64() float64 {
	v, _ := m.Get()
	return v
}

func (m Measure) String() string {
	if !m.ok {
		return "not computed"
	}
	return fmt.Sprintf("%.4f", m.v)
}

// MarshalJSON writes null for a Measure that has not been computed.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}
	return json.Marshal(m.v)
}

// UnmarshalJSON reads a number or null.
func (m *Measure) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Measure{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Known(v)
	return nil
}

// ConversionInterval is the range of limiting-reactant conversion a
// reactor is sized for.
type ConversionInterval struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
}

// DefaultInterval is the conversion interval of a new reactor.
var DefaultInterval = ConversionInterval{Initial: 0, Final: 0.9}

// Validate checks that 0 ≤ Initial < Final < 1.
func (c ConversionInterval) Validate() error {
	if !(c.Final > c.Initial) || !(c.Initial >= 0) || !(c.Final < 1) {
		return &InvalidIntervalError{Initial: c.Initial, Final: c.Final}
	}
	return nil
}

// ClampReactors limits a CSTR series length to [1, MaxReactors].
func ClampReactors(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxReactors:
		return MaxReactors
	}
	return n
}

// Sizer sizes ideal reactors for a rate law.
type Sizer struct {
	Rate *RateLaw

	// VolumetricFlow is the inlet volumetric flow rate v₀. It must be
	// positive for continuous reactors and is ignored for batch reactors.
	VolumetricFlow float64

	Rule  Rule
	Steps int // quadrature subintervals; DefaultSteps if < 1
}

// PFRResult holds plug-flow reactor sizing results.
type PFRResult struct {
	Interval      ConversionInterval `json:"interval"`
	ResidenceTime Measure            `json:"residenceTime"`
	Volume        Measure            `json:"volume"`
}

// CSTRStage is one tank of a CSTR series.
type CSTRStage struct {
	ExitConversion float64 `json:"exitConversion"`
	Rate           float64 `json:"rate"`
	Volume         float64 `json:"volume"`
	ResidenceTime  float64 `json:"residenceTime"`
}

// CSTRResult holds continuous-stirred-tank sizing results.
type CSTRResult struct {
	Interval      ConversionInterval `json:"interval"`
	Reactors      int                `json:"reactors"`
	Stages        []CSTRStage        `json:"stages,omitempty"`
	ResidenceTime Measure            `json:"residenceTime"`
	Volume        Measure            `json:"volume"`
}

// BatchResult holds batch reactor sizing results.
type BatchResult struct {
	Interval     ConversionInterval `json:"interval"`
	ReactionTime Measure            `json:"reactionTime"`
}

// limitingAmount returns the initial amount of the limiting reactant,
// C_A0, after checking that v₀ can be divided by.
func (s *Sizer) limitingAmount() (float64, error) {
	if !(s.VolumetricFlow > 0) || math.IsInf(s.VolumetricFlow, 0) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidFlow, s.VolumetricFlow)
	}
	_, amount, err := s.Rate.Reaction.limiting()
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// usable reports whether 1/rate is finite and positive.
func usable(rate float64) bool {
	inv := 1 / rate
	return rate > 0 && !math.IsInf(inv, 0) && !math.IsNaN(inv)
}

// checkedRate returns the rate law as a function that fails with a
// SingularRateError wherever the rate cannot be divided by or a rate-law
// species has run out.
func (s *Sizer) checkedRate() (func(x float64) (float64, *SingularRateError), error) {
	rate, err := s.Rate.rateFunc()
	if err != nil {
		return nil, err
	}
	return func(x float64) (float64, *SingularRateError) {
		r, depleted := rate(x)
		if depleted != "" || !usable(r) {
			return r, &SingularRateError{Conversion: x, Rate: r, Species: depleted}
		}
		return r, nil
	}, nil
}

// inverseRateIntegral returns ∫ dX / rate(X) over c. Every sample the
// quadrature rule takes is checked, and the first unusable one is
// reported as a SingularRateError.
func (s *Sizer) inverseRateIntegral(c ConversionInterval) (float64, error) {
	rate, err := s.checkedRate()
	if err != nil {
		return math.NaN(), err
	}
	var singular *SingularRateError
	integrand := func(x float64) float64 {
		r, e := rate(x)
		if e != nil {
			if singular == nil {
				singular = e
			}
			return 0
		}
		return 1 / r
	}
	v := Integrate(integrand, c.Initial, c.Final, s.Steps, s.Rule)
	if singular != nil {
		return math.NaN(), singular
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		r, _ := rate(c.Final)
		return math.NaN(), &SingularRateError{Conversion: c.Final, Rate: r}
	}
	return v, nil
}

// PFR sizes a plug-flow reactor: V = C_A0 ∫ dX / rate, where C_A0 is
// the initial amount of the limiting reactant, and τ = V / v₀.
func (s *Sizer) PFR(c ConversionInterval) (PFRResult, error) {
	res := PFRResult{Interval: c}
	if err := c.Validate(); err != nil {
		return res, err
	}
	ca0, err := s.limitingAmount()
	if err != nil {
		return res, err
	}
	integral, err := s.inverseRateIntegral(c)
	if err != nil {
		return res, err
	}
	volume := ca0 * integral
	res.Volume = Known(volume)
	res.ResidenceTime = Known(volume / s.VolumetricFlow)
	return res, nil
}

// CSTR sizes n continuous stirred tanks in series. The conversion
// interval is split into n equal increments and every tank is sized
// at its own exit conversion, V = C_A0 ΔX / rate(X_exit), with
// τ = V / v₀. The reported volume and residence time are totals over
// the series. n is clamped to [1, MaxReactors].
func (s *Sizer) CSTR(c ConversionInterval, n int) (CSTRResult, error) {
	n = ClampReactors(n)
	res := CSTRResult{Interval: c, Reactors: n}
	if err := c.Validate(); err != nil {
		return res, err
	}
	ca0, err := s.limitingAmount()
	if err != nil {
		return res, err
	}
	rate, err := s.checkedRate()
	if err != nil {
		return res, err
	}
	dx := (c.Final - c.Initial) / float64(n)
	stages := make([]CSTRStage, n)
	var total float64
	for i := range stages {
		x := c.Initial + float64(i+1)*dx
		if i == n-1 {
			x = c.Final
		}
		r, singular := rate(x)
		if singular != nil {
			return res, singular
		}
		v := ca0 * dx / r
		stages[i] = CSTRStage{
			ExitConversion: x,
			Rate:           r,
			Volume:         v,
			ResidenceTime:  v / s.VolumetricFlow,
		}
		total += v
	}
	res.Stages = stages
	res.Volume = Known(total)
	res.ResidenceTime = Known(total / s.VolumetricFlow)
	return res, nil
}

// Batch returns the reaction time of a batch reactor, t = ∫ dX / rate.
// The volumetric flow rate is not used.
func (s *Sizer) Batch(c ConversionInterval) (BatchResult, error) {
	res := BatchResult{Interval: c}
	if err := c.Validate(); err != nil {
		return res, err
	}
	t, err := s.inverseRateIntegral(c)
	if err != nil {
		return res, err
	}
	res.ReactionTime = Known(t)
	return res, nil
}

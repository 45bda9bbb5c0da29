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

package rxcalcutil

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ctessum/unit"
	"github.com/rxcalc/rxcalc"
	"github.com/sirupsen/logrus"
)

// sizing holds the results of one size command.
type sizing struct {
	types []rxcalc.ReactorType
	pfr   rxcalc.PFRResult
	cstr  rxcalc.CSTRResult
	batch rxcalc.BatchResult
}

// size sizes the reactors of the given types, logging each result.
func size(s *rxcalc.Session, log logrus.FieldLogger, types ...rxcalc.ReactorType) (*sizing, error) {
	res := &sizing{types: types}
	for _, t := range types {
		var err error
		fields := logrus.Fields{"reactor": t}
		switch t {
		case rxcalc.PFR:
			res.pfr, err = s.SizePFR()
			fields["x0"], fields["x"] = s.PFR.Interval.Initial, s.PFR.Interval.Final
			fields["volume"] = res.pfr.Volume.Float64()
		case rxcalc.CSTR:
			res.cstr, err = s.SizeCSTR()
			fields["x0"], fields["x"] = s.CSTR.Interval.Initial, s.CSTR.Interval.Final
			fields["reactors"] = s.CSTR.Reactors
			fields["volume"] = res.cstr.Volume.Float64()
		case rxcalc.Batch:
			res.batch, err = s.SizeBatch()
			fields["x0"], fields["x"] = s.Batch.Interval.Initial, s.Batch.Interval.Final
			fields["time"] = res.batch.ReactionTime.Float64()
		default:
			err = fmt.Errorf("invalid reactor type %v", t)
		}
		if err != nil {
			return nil, fmt.Errorf("rxcalc: sizing %v: %w", t, err)
		}
		log.WithFields(fields).Info("sized reactor")
	}
	return res, nil
}

// dimensioned formats a computed measure with its SI units.
func dimensioned(m rxcalc.Measure, d unit.Dimensions) string {
	v, ok := m.Get()
	if !ok {
		return m.String()
	}
	return fmt.Sprintf("%.4f", unit.New(v, d))
}

func (r *sizing) write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, t := range r.types {
		switch t {
		case rxcalc.PFR:
			fmt.Fprintf(tw, "Plug-flow reactor, X: %g → %g\n", r.pfr.Interval.Initial, r.pfr.Interval.Final)
			fmt.Fprintf(tw, "  Volume\t%s\n", dimensioned(r.pfr.Volume, unit.Meter3))
			fmt.Fprintf(tw, "  Residence time\t%s\n", dimensioned(r.pfr.ResidenceTime, unit.Second))
		case rxcalc.CSTR:
			fmt.Fprintf(tw, "%d CSTR(s) in series, X: %g → %g\n", r.cstr.Reactors, r.cstr.Interval.Initial, r.cstr.Interval.Final)
			if len(r.cstr.Stages) > 1 {
				fmt.Fprintln(tw, "  Stage\tExit X\tRate\tVolume\tResidence time")
				for i, st := range r.cstr.Stages {
					fmt.Fprintf(tw, "  %d\t%.4f\t%.4g\t%.4f\t%.4f\n",
						i+1, st.ExitConversion, st.Rate,
						unit.New(st.Volume, unit.Meter3), unit.New(st.ResidenceTime, unit.Second))
				}
			}
			fmt.Fprintf(tw, "  Total volume\t%s\n", dimensioned(r.cstr.Volume, unit.Meter3))
			fmt.Fprintf(tw, "  Total residence time\t%s\n", dimensioned(r.cstr.ResidenceTime, unit.Second))
		case rxcalc.Batch:
			fmt.Fprintf(tw, "Batch reactor, X: %g → %g\n", r.batch.Interval.Initial, r.batch.Interval.Final)
			fmt.Fprintf(tw, "  Reaction time\t%s\n", dimensioned(r.batch.ReactionTime, unit.Second))
		}
	}
	return tw.Flush()
}

// writeRate writes the reaction and its rate law.
func writeRate(w io.Writer, r *rxcalc.Reaction, c rxcalc.RateCalculation) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Reaction\t%s\n", r)
	fmt.Fprintf(tw, "Rate law\t%s\n", c.Display)
	fmt.Fprintf(tw, "Inlet rate\t%s\n", c.InletRate)
	return tw.Flush()
}

// writeTable writes a stoichiometric table.
func writeTable(w io.Writer, t *rxcalc.Table) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	initial, final := "F_i0", "F_i"
	if t.Conditions.Basis == rxcalc.ConcentrationBasis {
		initial, final = "C_i0", "C_i"
	}
	fmt.Fprintf(tw, "Species\t%s\tChange\t%s\n", initial, final)
	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Label, r.Initial, r.Change, r.Final)
	}
	fmt.Fprintf(tw, "Total\t%s\t\t%s\n", t.TotalInitial, t.TotalFinal)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.TotalFinalFormula())
	fmt.Fprintln(w, t.VolumetricFlowFormula())
	return nil
}

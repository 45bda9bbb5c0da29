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

	"github.com/rxcalc/rxcalc"
	"github.com/tealeg/xlsx"
)

// workbook writes calculation results to a Microsoft Excel file.
type workbook struct {
	f *xlsx.File
}

// saveWorkbook creates a workbook, fills it using fill, and saves it
// to path.
func saveWorkbook(path string, fill func(*workbook) error) error {
	w := &workbook{f: xlsx.NewFile()}
	if err := fill(w); err != nil {
		return err
	}
	if err := w.f.Save(path); err != nil {
		return fmt.Errorf("rxcalc: saving xlsx file: %v", err)
	}
	Log.WithField("file", path).Info("wrote workbook")
	return nil
}

func (w *workbook) sheet(name string) (*xlsx.Sheet, error) {
	s, err := w.f.AddSheet(name)
	if err != nil {
		return nil, fmt.Errorf("rxcalc: adding %s sheet to xlsx file: %v", name, err)
	}
	return s, nil
}

// addRow appends a row of strings, numbers, Values and Measures.
func addRow(s *xlsx.Sheet, cells ...interface{}) {
	row := s.AddRow()
	for _, c := range cells {
		cell := row.AddCell()
		switch v := c.(type) {
		case float64:
			cell.SetFloat(v)
		case int:
			cell.SetInt(v)
		case rxcalc.Value:
			if f, ok := v.Float64(); ok {
				cell.SetFloat(f)
			} else {
				cell.SetString(v.String())
			}
		case rxcalc.Measure:
			if f, ok := v.Get(); ok {
				cell.SetFloat(f)
			}
		default:
			cell.SetString(fmt.Sprint(v))
		}
	}
}

// table adds a stoichiometric table sheet.
func (w *workbook) table(t *rxcalc.Table) error {
	s, err := w.sheet("Stoichiometry")
	if err != nil {
		return err
	}
	addRow(s, "Species", "Initial", "Change", "Final")
	for _, r := range t.Rows {
		addRow(s, r.Label, r.Initial, r.Change, r.Final)
	}
	addRow(s, "Total", t.TotalInitial, "", t.TotalFinal)
	addRow(s)
	addRow(s, "δ", t.ExtentCoefficient)
	addRow(s, "Volumetric flow rate", t.VolumetricFlow)
	addRow(s, "Formula", t.VolumetricFlowFormula())
	return nil
}

// sheets adds one sheet per sized reactor.
func (r *sizing) sheets(w *workbook) error {
	for _, t := range r.types {
		s, err := w.sheet(t.String())
		if err != nil {
			return err
		}
		switch t {
		case rxcalc.PFR:
			addRow(s, "X0", r.pfr.Interval.Initial)
			addRow(s, "X", r.pfr.Interval.Final)
			addRow(s, "Volume [m³]", r.pfr.Volume)
			addRow(s, "Residence time [s]", r.pfr.ResidenceTime)
		case rxcalc.CSTR:
			addRow(s, "X0", r.cstr.Interval.Initial)
			addRow(s, "X", r.cstr.Interval.Final)
			addRow(s, "Reactors", r.cstr.Reactors)
			addRow(s, "Volume [m³]", r.cstr.Volume)
			addRow(s, "Residence time [s]", r.cstr.ResidenceTime)
			addRow(s)
			addRow(s, "Stage", "Exit X", "Rate", "Volume [m³]", "Residence time [s]")
			for i, st := range r.cstr.Stages {
				addRow(s, i+1, st.ExitConversion, st.Rate, st.Volume, st.ResidenceTime)
			}
		case rxcalc.Batch:
			addRow(s, "X0", r.batch.Interval.Initial)
			addRow(s, "X", r.batch.Interval.Final)
			addRow(s, "Reaction time [s]", r.batch.ReactionTime)
		}
	}
	return nil
}

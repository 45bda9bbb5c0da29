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
	"bytes"
	"errors"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/rxcalc/rxcalc"
	"github.com/tealeg/xlsx"
)

const configExample = "../cmd/rxcalc/configExample.toml"

// execute runs the command given by args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Cfg.Set("config", configExample)
	Root.SetArgs(args)
	err := Root.Execute()
	return b.String(), err
}

func contains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output does not contain %q:\n%s", w, output)
		}
	}
}

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "rxcalc")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	contains(t, out, "RxCalc v"+rxcalc.Version)
}

func TestRateCmd(t *testing.T) {
	out, err := execute(t, "rate")
	if err != nil {
		t.Fatal(err)
	}
	contains(t, out, "A₁ → B₁", "Rate = 1 × [A₁]^1", "2.0000")
}

func TestTableCmd(t *testing.T) {
	t.Run("symbolic", func(t *testing.T) {
		out, err := execute(t, "table")
		if err != nil {
			t.Fatal(err)
		}
		contains(t, out, "F_i0", "A₁", "B₁", "2-ξ", "F_T")
	})
	t.Run("numeric", func(t *testing.T) {
		dir := tempDir(t)
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "table.xlsx")
		Cfg.Set("Numeric", true)
		Cfg.Set("xlsx", path)
		defer Cfg.Set("Numeric", false)
		defer Cfg.Set("xlsx", "")

		if _, err := execute(t, "table"); err != nil {
			t.Fatal(err)
		}
		f, err := xlsx.OpenFile(path)
		if err != nil {
			t.Fatal(err)
		}
		s, ok := f.Sheet["Stoichiometry"]
		if !ok {
			t.Fatal("missing Stoichiometry sheet")
		}
		if v := s.Cell(1, 0).Value; v != "A₁" {
			t.Errorf("species = %q", v)
		}
		// ξ is 0 in numeric mode, so A₁ stays at 2 mol/s.
		if v, err := s.Cell(1, 3).Float(); err != nil || v != 2 {
			t.Errorf("final A₁ = %g (%v)", v, err)
		}
	})
}

func TestSizeCmd(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "size.xlsx")
	Cfg.Set("xlsx", path)
	defer Cfg.Set("xlsx", "")

	out, err := execute(t, "size", "all")
	if err != nil {
		t.Fatal(err)
	}
	// PFR: V = −ln(1−X) = ln 2; batch: t = ½ ln 2; CSTR: V = C_A0 X / rate(X) = 1.
	contains(t, out, "Plug-flow reactor", "0.6931", "Batch reactor", "0.3466", "1 CSTR(s)", "1.0000")

	f, err := xlsx.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"PFR", "CSTR", "Batch"} {
		if _, ok := f.Sheet[name]; !ok {
			t.Errorf("missing %s sheet", name)
		}
	}
	if v, err := f.Sheet["PFR"].Cell(2, 1).Float(); err != nil || math.Abs(v-math.Ln2) > 1e-9 {
		t.Errorf("PFR volume = %g (%v)", v, err)
	}
}

func TestSizeCmdEnv(t *testing.T) {
	os.Setenv("RXCALC_X", "0.25")
	defer os.Unsetenv("RXCALC_X")
	out, err := execute(t, "size", "pfr")
	if err != nil {
		t.Fatal(err)
	}
	// V = −ln(0.75)
	contains(t, out, "0 → 0.25", "0.2877")
}

func TestSizeCmdSymbolicK(t *testing.T) {
	Cfg.Set("RateLaw.K", "k")
	defer Cfg.Set("RateLaw.K", "1")
	_, err := execute(t, "size", "batch")
	if !errors.Is(err, rxcalc.ErrNonNumericRateConstant) {
		t.Errorf("have %v", err)
	}
}

func TestConfigCmd(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	var cfg struct {
		X        float64
		Reaction struct {
			Reactants              int
			ReactantInitialAmounts []float64
		}
	}
	if _, err := toml.Decode(out, &cfg); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if cfg.X != 0.5 || cfg.Reaction.Reactants != 1 || len(cfg.Reaction.ReactantInitialAmounts) != 1 || cfg.Reaction.ReactantInitialAmounts[0] != 2 {
		t.Errorf("configuration: %+v", cfg)
	}
}

// TestCSTRFlags is last because flags stay set for later commands.
func TestCSTRFlags(t *testing.T) {
	out, err := execute(t, "size", "cstr", "-n", "2")
	if err != nil {
		t.Fatal(err)
	}
	// Stages at X = 0.25 and 0.5 need 1/3 and 1/2 m³.
	contains(t, out, "2 CSTR(s)", "Stage", "0.3333", "0.5000", "0.8333")
}

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
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/rxcalc/rxcalc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Log is the logger used by the commands and the JSON API.
var Log *logrus.Logger

func init() {
	Log = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

func setLogLevel(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("rxcalc: invalid LogLevel: %v", err)
	}
	Log.SetLevel(l)
	return nil
}

// SessionFromConfig creates a calculation session from a viper
// configuration. Species arrays that are not set keep their defaults;
// reactant exponents default to the reactant coefficients.
func SessionFromConfig(cfg *viper.Viper) (*rxcalc.Session, error) {
	s := rxcalc.NewSession()
	nR, nP, nI := cfg.GetInt("Reaction.Reactants"), cfg.GetInt("Reaction.Products"), cfg.GetInt("Reaction.Inerts")
	if nR < 0 || nP < 0 || nI < 0 {
		return nil, fmt.Errorf("rxcalc: species counts must not be negative; got %d reactants, %d products and %d inerts", nR, nP, nI)
	}
	s.Generate(nR, nP, nI)
	r := s.Reaction

	arrays := []struct {
		name string
		dst  *[]float64
	}{
		{"Reaction.ReactantCoefficients", &r.ReactantCoefficients},
		{"Reaction.ProductCoefficients", &r.ProductCoefficients},
		{"Reaction.ReactantExponents", &r.ReactantExponents},
		{"Reaction.ProductExponents", &r.ProductExponents},
		{"Reaction.ReactantInitialAmounts", &r.ReactantInitialAmounts},
		{"Reaction.ProductInitialAmounts", &r.ProductInitialAmounts},
		{"Reaction.InertInitialAmounts", &r.InertInitialAmounts},
	}
	set := make(map[string]bool)
	for _, a := range arrays {
		v, err := toFloatSliceE(cfg.Get(a.name))
		if err != nil {
			return nil, fmt.Errorf("rxcalc: reading %s: %v", a.name, err)
		}
		if len(v) > 0 {
			*a.dst = v
			set[a.name] = true
		}
	}
	if set["Reaction.ReactantCoefficients"] && !set["Reaction.ReactantExponents"] {
		r.ReactantExponents = append([]float64(nil), r.ReactantCoefficients...)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rxcalc: parsing reaction configuration: %w", err)
	}

	s.SetRateConstant(cfg.GetString("RateLaw.K"))
	s.CoerceSymbolicK = cfg.GetBool("RateLaw.CoerceSymbolicK")
	if s.CoerceSymbolicK && !s.K.IsNumeric() {
		Log.WithField("k", s.K.String()).Warn("rate constant is not numeric; a value of 1 will be used to size reactors")
	}

	s.UseNumerical = cfg.GetBool("Numeric")
	pc, err := conditionsFromConfig(cfg, s.Conditions())
	if err != nil {
		return nil, err
	}
	if s.UseNumerical {
		s.NumericConditions = pc
	} else {
		s.SymbolicConditions = pc
	}

	if s.Rule, err = rxcalc.ParseRule(cfg.GetString("Sizing.Rule")); err != nil {
		return nil, err
	}
	s.Steps = cfg.GetInt("Sizing.Steps")

	interval := rxcalc.ConversionInterval{
		Initial: cfg.GetFloat64("X0"),
		Final:   cfg.GetFloat64("X"),
	}
	s.PFR.Interval = interval
	s.CSTR.Interval = interval
	s.Batch.Interval = interval
	s.CSTR.Reactors = cfg.GetInt("Reactors")
	if n := rxcalc.ClampReactors(s.CSTR.Reactors); n != s.CSTR.Reactors {
		Log.WithFields(logrus.Fields{
			"requested": s.CSTR.Reactors,
			"used":      n,
		}).Warn("number of reactors out of range")
		s.CSTR.Reactors = n
	}
	return s, nil
}

// conditionsFromConfig overrides the fields of pc that are set in cfg.
func conditionsFromConfig(cfg *viper.Viper, pc rxcalc.ProcessConditions) (rxcalc.ProcessConditions, error) {
	pc.VolumetricFlow = cfg.GetFloat64("Conditions.VolumetricFlow")
	for _, c := range []struct {
		name string
		dst  *rxcalc.Value
	}{
		{"Conditions.InitialPressure", &pc.InitialPressure},
		{"Conditions.FinalPressure", &pc.FinalPressure},
		{"Conditions.InitialTemperature", &pc.InitialTemperature},
		{"Conditions.FinalTemperature", &pc.FinalTemperature},
		{"Conditions.Extent", &pc.Extent},
	} {
		i := cfg.Get(c.name)
		if s, ok := i.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		v, err := rxcalc.ParseAny(i)
		if err != nil {
			return pc, fmt.Errorf("rxcalc: reading %s: %v", c.name, err)
		}
		*c.dst = v
	}
	var err error
	if pc.Basis, err = rxcalc.ParseBasis(cfg.GetString("Conditions.Basis")); err != nil {
		return pc, err
	}
	return pc, nil
}

// toFloatSliceE converts a configuration value into a slice of numbers.
// Values from configuration files are lists, values from command-line
// arguments are lists of strings, and values from environment variables
// are strings holding either a JSON array or comma or space separated
// numbers.
func toFloatSliceE(i interface{}) ([]float64, error) {
	switch v := i.(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for j, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[j] = f
		}
		return o, nil
	case []string:
		var o []float64
		for _, s := range v {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			f, err := cast.ToFloat64E(s)
			if err != nil {
				return nil, err
			}
			o = append(o, f)
		}
		return o, nil
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "[") {
			var o []float64
			if err := json.Unmarshal([]byte(s), &o); err != nil {
				return nil, err
			}
			return o, nil
		}
		return toFloatSliceE(strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }))
	}
	return nil, fmt.Errorf("invalid list of numbers %#v", i)
}

// writeConfig writes the configuration in cfg to w in TOML format,
// grouping dotted option names into tables.
func writeConfig(w io.Writer, cfg *viper.Viper) error {
	out := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		var v interface{}
		switch option.defaultVal.(type) {
		case []string:
			f, err := toFloatSliceE(cfg.Get(option.name))
			if err != nil {
				return fmt.Errorf("rxcalc: reading %s: %v", option.name, err)
			}
			if f == nil {
				f = []float64{}
			}
			v = f
		case float64:
			v = cfg.GetFloat64(option.name)
		case int:
			v = cfg.GetInt(option.name)
		case bool:
			v = cfg.GetBool(option.name)
		default:
			v = cfg.GetString(option.name)
		}
		parts := strings.SplitN(option.name, ".", 2)
		if len(parts) == 1 {
			out[option.name] = v
			continue
		}
		table, ok := out[parts[0]].(map[string]interface{})
		if !ok {
			table = make(map[string]interface{})
			out[parts[0]] = table
		}
		table[parts[1]] = v
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("rxcalc: writing configuration: %v", err)
	}
	return nil
}

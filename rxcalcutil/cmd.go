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

// Package rxcalcutil contains the command-line, configuration, report,
// spreadsheet and web interfaces to the rxcalc engine.
package rxcalcutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/ctessum/gobra"
	"github.com/lnashier/viper"
	"github.com/rxcalc/rxcalc"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	reaction := []*pflag.FlagSet{rateCmd.Flags(), tableCmd.Flags(), sizeCmd.PersistentFlags(), configCmd.Flags()}
	conditions := []*pflag.FlagSet{tableCmd.Flags(), sizeCmd.PersistentFlags(), configCmd.Flags()}
	sizing := []*pflag.FlagSet{sizeCmd.PersistentFlags(), configCmd.Flags()}

	// Options are the configuration options available to RxCalc.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging threshold: one of debug, info,
              warning, error, fatal or panic.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Reaction.Reactants",
			usage: `
              Reaction.Reactants is the number of reactant species, A₁, A₂, ....
              The first reactant is the limiting reactant.`,
			defaultVal: 2,
			flagsets:   reaction,
		},
		{
			name: "Reaction.Products",
			usage: `
              Reaction.Products is the number of product species, B₁, B₂, ....`,
			defaultVal: 2,
			flagsets:   reaction,
		},
		{
			name: "Reaction.Inerts",
			usage: `
              Reaction.Inerts is the number of inert species, I₁, I₂, ....`,
			defaultVal: 0,
			flagsets:   reaction,
		},
		{
			name: "Reaction.ReactantCoefficients",
			usage: `
              Reaction.ReactantCoefficients are the stoichiometric coefficients
              of the reactants. The default is 1 for every reactant.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "Reaction.ProductCoefficients",
			usage: `
              Reaction.ProductCoefficients are the stoichiometric coefficients
              of the products. The default is 1 for every product.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "Reaction.ReactantExponents",
			usage: `
              Reaction.ReactantExponents are the rate-law exponents of the
              reactants. The default is the reactant coefficients.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "Reaction.ProductExponents",
			usage: `
              Reaction.ProductExponents are the rate-law exponents of the
              products. The default is 0 for every product.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "Reaction.ReactantInitialAmounts",
			usage: `
              Reaction.ReactantInitialAmounts are the initial concentrations
              of the reactants. The default is 1 for every reactant.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "Reaction.ProductInitialAmounts",
			usage: `
              Reaction.ProductInitialAmounts are the initial concentrations
              of the products. The default is 0 for every product.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "Reaction.InertInitialAmounts",
			usage: `
              Reaction.InertInitialAmounts are the initial concentrations
              of the inerts. The default is 0 for every inert.`,
			defaultVal: []string{},
			flagsets:   reaction,
		},
		{
			name: "RateLaw.K",
			shorthand: "k",
			usage: `
              RateLaw.K is the rate constant. It may be a number or a symbol;
              reactors can only be sized with a number.`,
			defaultVal: "k",
			flagsets:   reaction,
		},
		{
			name: "RateLaw.CoerceSymbolicK",
			usage: `
              RateLaw.CoerceSymbolicK specifies whether a symbolic rate constant
              should be treated as 1 when sizing reactors instead of
              causing an error.`,
			defaultVal: false,
			flagsets:   reaction,
		},
		{
			name: "Numeric",
			usage: `
              Numeric specifies whether the stoichiometric table should be
              evaluated numerically. If false, pressures, temperatures and the
              extent of reaction are kept as symbols unless they are set.`,
			defaultVal: false,
			flagsets:   conditions,
		},
		{
			name: "Conditions.VolumetricFlow",
			usage: `
              Conditions.VolumetricFlow is the inlet volumetric flow rate v₀ [m³/s].`,
			defaultVal: 1.0,
			flagsets:   conditions,
		},
		{
			name: "Conditions.InitialPressure",
			usage: `
              Conditions.InitialPressure is the inlet pressure P₀. If empty, it
              is the symbol P₀, or 1 when Numeric is true.`,
			defaultVal: "",
			flagsets:   conditions,
		},
		{
			name: "Conditions.FinalPressure",
			usage: `
              Conditions.FinalPressure is the outlet pressure P. If empty, it
              is the symbol P, or 1 when Numeric is true.`,
			defaultVal: "",
			flagsets:   conditions,
		},
		{
			name: "Conditions.InitialTemperature",
			usage: `
              Conditions.InitialTemperature is the inlet temperature T₀ [K]. If
              empty, it is the symbol T₀, or 300 when Numeric is true.`,
			defaultVal: "",
			flagsets:   conditions,
		},
		{
			name: "Conditions.FinalTemperature",
			usage: `
              Conditions.FinalTemperature is the outlet temperature T [K]. If
              empty, it is the symbol T, or 300 when Numeric is true.`,
			defaultVal: "",
			flagsets:   conditions,
		},
		{
			name: "Conditions.Extent",
			usage: `
              Conditions.Extent is the extent of reaction ξ. If empty, it is
              the symbol ξ, or 0 when Numeric is true.`,
			defaultVal: "",
			flagsets:   conditions,
		},
		{
			name: "Conditions.Basis",
			usage: `
              Conditions.Basis specifies whether the initial amounts are
              multiplied by the volumetric flow rate ("flow") or used as they
              are ("concentration") in the stoichiometric table.`,
			defaultVal: "flow",
			flagsets:   conditions,
		},
		{
			name: "Sizing.Rule",
			usage: `
              Sizing.Rule is the quadrature rule used to integrate the design
              equations: simpson, midpoint or trapezoid.`,
			defaultVal: "simpson",
			flagsets:   sizing,
		},
		{
			name: "Sizing.Steps",
			usage: `
              Sizing.Steps is the number of quadrature subintervals.`,
			defaultVal: rxcalc.DefaultSteps,
			flagsets:   sizing,
		},
		{
			name: "X0",
			usage: `
              X0 is the conversion of the limiting reactant at the reactor inlet.`,
			defaultVal: rxcalc.DefaultInterval.Initial,
			flagsets:   sizing,
		},
		{
			name: "X",
			usage: `
              X is the conversion of the limiting reactant at the reactor outlet.`,
			shorthand:  "x",
			defaultVal: rxcalc.DefaultInterval.Final,
			flagsets:   sizing,
		},
		{
			name: "Reactors",
			usage: `
              Reactors is the number of equal-conversion CSTRs in series, from 1
              to 10.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   sizing,
		},
		{
			name: "xlsx",
			usage: `
              xlsx is the path of a Microsoft Excel workbook to write the
              results to. If empty, no workbook is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{tableCmd.Flags(), sizeCmd.PersistentFlags()},
		},
		{
			name: "HTTPAddress",
			usage: `
              HTTPAddress is the address the JSON API listens on.`,
			defaultVal: "localhost:8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize is the number of JSON API results kept in memory.`,
			defaultVal: 1000,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("RXCALC")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(rateCmd)
	Root.AddCommand(tableCmd)
	Root.AddCommand(sizeCmd)
	sizeCmd.AddCommand(pfrCmd)
	sizeCmd.AddCommand(cstrCmd)
	sizeCmd.AddCommand(batchCmd)
	sizeCmd.AddCommand(allCmd)
	Root.AddCommand(configCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("rxcalc: problem reading configuration file: %v", err)
		}
	}
	return setLogLevel(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "rxcalc",
	Short: "A reaction stoichiometry and ideal-reactor sizing calculator.",
	Long: `RxCalc builds power-law rate expressions and stoichiometric tables for a
single overall reaction and sizes plug-flow, continuous-stirred-tank and batch
reactors for a conversion interval. Use the subcommands specified below to
access the calculator functionality. Running rxcalc without a subcommand
starts a graphical interface in the web browser.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RXCALC_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores
(for example RXCALC_REACTION_REACTANTS).
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of RxCalc.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "RxCalc v%s\n", rxcalc.Version)
	},
	DisableAutoGenTag: true,
}

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Show the rate law",
	Long: `rate prints the power-law rate expression of the configured reaction
and, if the rate constant is a number, the rate at the reactor inlet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := SessionFromConfig(Cfg)
		if err != nil {
			return err
		}
		c, err := s.CalculateRateLaw()
		if err != nil {
			return fmt.Errorf("rxcalc: calculating rate law: %w", err)
		}
		return writeRate(cmd.OutOrStdout(), s.Reaction, c)
	},
	DisableAutoGenTag: true,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build the stoichiometric table",
	Long: `table prints the stoichiometric table of the configured reaction: the
initial amount, change and final amount of every species as a function of the
extent of reaction ξ, the total molar flows and the corrected volumetric flow rate.
Conditions that are not set are kept as symbols unless --Numeric is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := SessionFromConfig(Cfg)
		if err != nil {
			return err
		}
		t, err := s.Table()
		if err != nil {
			return fmt.Errorf("rxcalc: building stoichiometric table: %w", err)
		}
		Log.WithFields(logrus.Fields{
			"mode":     t.Mode,
			"species":  len(t.Rows),
			"flowRate": t.VolumetricFlow.String(),
		}).Debug("built stoichiometric table")
		if err := writeTable(cmd.OutOrStdout(), t); err != nil {
			return err
		}
		if path := Cfg.GetString("xlsx"); path != "" {
			return saveWorkbook(path, func(w *workbook) error { return w.table(t) })
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Size ideal reactors",
	Long: `size calculates the volume and residence time of ideal reactors that
take the limiting reactant from conversion X0 to conversion X. Use the
subcommands specified below to choose a reactor type.`,
	DisableAutoGenTag: true,
}

// sizeRun returns a function that sizes the reactors of the given types.
func sizeRun(types ...rxcalc.ReactorType) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := SessionFromConfig(Cfg)
		if err != nil {
			return err
		}
		res, err := size(s, Log, types...)
		if err != nil {
			return err
		}
		if err := res.write(cmd.OutOrStdout()); err != nil {
			return err
		}
		if path := Cfg.GetString("xlsx"); path != "" {
			return saveWorkbook(path, res.sheets)
		}
		return nil
	}
}

var pfrCmd = &cobra.Command{
	Use:   "pfr",
	Short: "Size a plug-flow reactor",
	Long: `pfr calculates the volume of a plug-flow reactor,
V = C_A0 ∫ dX / rate, where C_A0 is the initial amount of the limiting
reactant, and its residence time τ = V / v₀.`,
	RunE:              sizeRun(rxcalc.PFR),
	DisableAutoGenTag: true,
}

var cstrCmd = &cobra.Command{
	Use:   "cstr",
	Short: "Size continuous stirred tank reactors",
	Long: `cstr calculates the volume of a series of --Reactors continuous
stirred tank reactors, each taking an equal share of the conversion and
each sized at its own outlet conversion, V = C_A0 ΔX / rate(X).`,
	RunE:              sizeRun(rxcalc.CSTR),
	DisableAutoGenTag: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Size a batch reactor",
	Long: `batch calculates the reaction time of a batch reactor, t = ∫ dX / rate.
The volumetric flow rate is not used.`,
	RunE:              sizeRun(rxcalc.Batch),
	DisableAutoGenTag: true,
}

var allCmd = &cobra.Command{
	Use:               "all",
	Short:             "Size every reactor type",
	Long:              `all sizes a plug-flow reactor, a CSTR series and a batch reactor.`,
	RunE:              sizeRun(rxcalc.PFR, rxcalc.CSTR, rxcalc.Batch),
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `config prints the configuration that results from combining the
configuration file, environment variables and command-line arguments,
in TOML format. The output can be used as a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout(), Cfg)
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API",
	Long: `serve starts an HTTP server that accepts calculation requests as JSON
at the /rate, /table, /size/pfr, /size/cstr and /size/batch endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := ServerConfig{
			Address:   Cfg.GetString("HTTPAddress"),
			CacheSize: Cfg.GetInt("CacheSize"),
		}
		s := NewServer(c.CacheSize)
		s.Log = Log
		Log.WithField("address", c.Address).Info("rxcalc JSON API listening")
		return c.HTTPServer(s).ListenAndServe()
	},
	DisableAutoGenTag: true,
}

// guiAddress is the address of the graphical interface.
const guiAddress = "localhost:7171"

// StartWebServer starts the graphical interface in the web browser.
func StartWebServer() {
	if err := setConfig(); err != nil {
		Log.WithError(err).Warn("reading configuration")
	}

	http.HandleFunc("/setConfig", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		configFile := r.Form.Get("config")
		Root.PersistentFlags().Set("config", configFile)
		if err := setConfig(); err != nil {
			http.Error(w, err.Error(), http.StatusNoContent)
			return
		}
		config := make(map[string]interface{})
		for _, option := range options {
			config[option.name] = Cfg.Get(option.name)
		}
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write(b.Bytes())
	})

	Log.Info("Loading front-end...")

	for _, cmd := range []*cobra.Command{Root, versionCmd, rateCmd, tableCmd,
		sizeCmd, pfrCmd, cstrCmd, batchCmd, allCmd, configCmd, serveCmd} {
		cmd.SilenceUsage = true // We don't want the usage messages in the GUI.
	}

	output := template.Must(template.New("").Parse(guiTemplate))
	server := gobra.Server{Root: Root, ServerAddress: guiAddress, AllowCORS: false, HTML: output}
	Log.Info("Server starting... ")
	if err := open.Run("http://" + guiAddress); err != nil {
		Log.WithError(err).Debug("opening browser")
	}
	fmt.Println("If not opened automatically, please visit http://" + guiAddress)
	server.Start()
}

const guiTemplate = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>RxCalc</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] code { font-weight: bold; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; outline:none; }
		.red-border{ border: 1px solid #c35; }
		.green-border{ border: 1px solid #3c5; }
		.blue-border{ border: 1px solid #35c; }
	</style>
</head>
<body>
<div class="container">
	<h1>RxCalc</h1>
	<p>Define the reaction and conditions below, then choose a calculation.</p>
	<p>
		Color key: black=default;
		<font color="red">red</font>=error;
		<font color="green">green</font>=value from config file;
		<font color="blue">blue</font>=user entered
	</p>
	<div>
		{{.}}
	</div>
</div>

<script>
// When the configuration file changes, load it on the server and
// refresh the fields it sets.
let allFlags = [...document.querySelectorAll('[data-name]')];
allFlags.forEach(x => {
	let inputField = x.children[0];
	inputField.addEventListener("input", e => {
		inputField.classList.remove("green-border");
		inputField.classList.add("blue-border");
	})
})

let configInput = allFlags.filter(x => x.dataset.name == "config")[0].children[0];
configInput.addEventListener("input", e => {
	fetch("http://` + guiAddress + `/setConfig?config="+configInput.value)
		.then(res => {
			if (res.status == 204) {
				configInput.classList.remove("blue-border");
				configInput.classList.remove("green-border");
				configInput.classList.add("red-border");
				return;
			}
			res.json().then(data => {
				configInput.classList.remove("red-border");
				for (let key in data)
					for (let f of allFlags)
						if (f.dataset.name == key) {
							let input = f.children[0];
							let newValue = JSON.stringify(data[key]).replace(/^"+|"+$/g,'');
							if (input.value != newValue) {
								input.value = newValue;
								input.classList.remove("blue-border");
								input.classList.add("green-border");
							}
						}
			})
		})
		.catch(err => console.log("Error fetching /setConfig", err))
})
</script>
</body>
</html>`

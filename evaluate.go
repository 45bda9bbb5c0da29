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
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
)

// Evaluate computes the numeric value of v after substituting the
// symbols in bindings. It returns an error wrapping ErrUnboundSymbol if
// v contains a symbol that is not in bindings, and an error if v is
// Infinity or evaluates to a non-finite number.
func Evaluate(v Value, bindings map[string]float64) (float64, error) {
	if f, ok := v.Float64(); ok {
		return f, nil
	}
	if v.sym == Infinity.sym {
		return math.NaN(), fmt.Errorf("rxcalc: cannot evaluate %s", Infinity.sym)
	}
	expression, params, err := toEvaluable(v.sym, bindings)
	if err != nil {
		return math.NaN(), err
	}
	e, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return math.NaN(), fmt.Errorf("rxcalc: evaluating %q: %v", v.sym, err)
	}
	result, err := e.Evaluate(params)
	if err != nil {
		return math.NaN(), fmt.Errorf("rxcalc: evaluating %q: %v", v.sym, err)
	}
	f, ok := result.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("rxcalc: evaluating %q: result %v is not a number", v.sym, result)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f, fmt.Errorf("rxcalc: %q evaluates to %g", v.sym, f)
	}
	return f, nil
}

// Substitute replaces the bound symbols of v with numbers, evaluating
// v completely if no symbols remain.
func Substitute(v Value, bindings map[string]float64) (Value, error) {
	if v.IsNumeric() {
		return v, nil
	}
	var unbound []string
	for _, tok := range tokenize(v.sym) {
		if tok.atom && !Parse(tok.text).IsNumeric() {
			if _, ok := bindings[tok.text]; !ok {
				unbound = append(unbound, tok.text)
			}
		}
	}
	if len(unbound) == 0 {
		f, err := Evaluate(v, bindings)
		if err != nil {
			return v, err
		}
		return Num(f), nil
	}
	var b strings.Builder
	for _, tok := range tokenize(v.sym) {
		if val, ok := bindings[tok.text]; ok && tok.atom {
			if val < 0 {
				b.WriteString("(" + formatNumber(val) + ")")
			} else {
				b.WriteString(formatNumber(val))
			}
			continue
		}
		b.WriteString(tok.text)
	}
	return expr(b.String(), v.op), nil
}

type token struct {
	text string
	atom bool
}

// tokenize splits a symbolic expression into atoms and operators.
func tokenize(s string) []token {
	var toks []token
	var atom strings.Builder
	flush := func() {
		if atom.Len() > 0 {
			toks = append(toks, token{text: atom.String(), atom: true})
			atom.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '×', '+', '-', '/', '(', ')':
			flush()
			toks = append(toks, token{text: string(r)})
		default:
			atom.WriteRune(r)
		}
	}
	flush()
	return toks
}

// toEvaluable rewrites a symbolic expression in govaluate syntax,
// escaping every symbol as a bracketed parameter.
func toEvaluable(s string, bindings map[string]float64) (string, map[string]interface{}, error) {
	params := make(map[string]interface{})
	var unbound []string
	var b strings.Builder
	for _, tok := range tokenize(s) {
		switch {
		case !tok.atom && tok.text == "×":
			b.WriteString(" * ")
		case !tok.atom:
			b.WriteString(" " + tok.text + " ")
		case Parse(tok.text).IsNumeric():
			b.WriteString(tok.text)
		default:
			val, ok := bindings[tok.text]
			if !ok {
				unbound = append(unbound, tok.text)
				continue
			}
			params[tok.text] = val
			b.WriteString("[" + tok.text + "]")
		}
	}
	if len(unbound) > 0 {
		sort.Strings(unbound)
		return "", nil, fmt.Errorf("%w: %s", ErrUnboundSymbol, strings.Join(unbound, ", "))
	}
	return b.String(), params, nil
}

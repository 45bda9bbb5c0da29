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

// Package rxcalc is an engine for reaction stoichiometry and ideal-reactor
// sizing. It evaluates power-law reaction rates, sizes plug-flow,
// continuous-stirred-tank and batch reactors, and builds stoichiometric
// tables whose entries may stay symbolic (for example "P₀" or "ξ") when
// their inputs are not numbers.
package rxcalc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Version is the version of this software.
const Version = "1.0.0"

// Infinity is the symbolic result of dividing a number by zero.
var Infinity = Value{sym: "∞", op: opAtom, symbolic: true}

// Operator precedence classes of a symbolic expression, used to decide
// where parentheses are needed when expressions are combined.
const (
	opAtom = iota
	opSum
	opProduct
	opQuotient
)

// Value holds either a finite number or a symbolic expression. The
// zero Value is the number 0.
type Value struct {
	num      float64
	sym      string
	op       int
	symbolic bool
}

// Num returns a numeric Value. Non-finite numbers are kept as
// symbols so that they can never take part in numeric arithmetic.
func Num(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		if math.IsInf(f, 1) {
			return Infinity
		}
		return Value{sym: strconv.FormatFloat(f, 'f', -1, 64), symbolic: true}
	}
	return Value{num: f}
}

// Parse classifies s by whether it parses as a finite number:
// "2.5" is numeric, "P₀" is a symbol.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Value{num: f}
	}
	if s == Infinity.sym {
		return Infinity
	}
	return Value{sym: s, symbolic: true}
}

// ParseAny converts a configuration or JSON value (a number or a
// string) into a Value.
func ParseAny(i interface{}) (Value, error) {
	switch v := i.(type) {
	case Value:
		return v, nil
	case string:
		return Parse(v), nil
	case nil:
		return Value{}, nil
	}
	f, err := cast.ToFloat64E(i)
	if err != nil {
		return Value{}, err
	}
	return Num(f), nil
}

// IsNumeric reports whether v is a number.
func (v Value) IsNumeric() bool { return !v.symbolic }

// Float64 returns the numeric value of v and whether v is numeric.
func (v Value) Float64() (float64, bool) {
	if v.symbolic {
		return math.NaN(), false
	}
	return v.num, true
}

func (v Value) isZero() bool { return !v.symbolic && v.num == 0 }
func (v Value) isOne() bool  { return !v.symbolic && v.num == 1 }

// String returns the display form of v.
func (v Value) String() string {
	if v.symbolic {
		return v.sym
	}
	return formatNumber(v.num)
}

// MarshalText makes Values serialize as their display form.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses the display form of a Value.
func (v *Value) UnmarshalText(b []byte) error {
	*v = Parse(string(b))
	return nil
}

// MarshalJSON writes numbers as JSON numbers and symbols as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.symbolic {
		return json.Marshal(v.sym)
	}
	return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	*v = Parse(s)
	return nil
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0" // avoids "-0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// operand returns the text of v for use inside an expression whose
// operator binds at least as tightly as op.
func (v Value) operand(op int) string {
	s := v.String()
	if v.symbolic && v.op != opAtom && v.op < op {
		return "(" + s + ")"
	}
	return s
}

func expr(s string, op int) Value {
	return Value{sym: s, op: op, symbolic: true}
}

// Multiply returns a×b, keeping the ×0, ×1 identities for symbolic
// operands and otherwise falling back to the text "a×b". A factor of -1
// is kept as "-1×b"; use Negate for a bare sign.
func Multiply(a, b Value) Value {
	switch {
	case !a.symbolic && !b.symbolic:
		return Num(a.num * b.num)
	case a.isZero() || b.isZero():
		return Value{}
	case a.isOne():
		return b
	case b.isOne():
		return a
	}
	return expr(a.operand(opProduct)+"×"+b.operand(opProduct), opProduct)
}

// Add returns a+b, keeping the +0 identity for symbolic operands and
// otherwise falling back to the text "a+b".
func Add(a, b Value) Value {
	switch {
	case !a.symbolic && !b.symbolic:
		return Num(a.num + b.num)
	case a.isZero():
		return b
	case b.isZero():
		return a
	}
	rhs := b.operand(opSum)
	if strings.HasPrefix(rhs, "-") {
		return expr(a.operand(opSum)+rhs, opSum)
	}
	return expr(a.operand(opSum)+"+"+rhs, opSum)
}

// Divide returns a/b. A numeric division by exactly zero returns
// Infinity rather than a numeric infinity.
func Divide(a, b Value) Value {
	switch {
	case !a.symbolic && !b.symbolic:
		if b.num == 0 {
			return Infinity
		}
		return Num(a.num / b.num)
	case a.isZero():
		return Value{}
	case b.isOne():
		return a
	}
	den := b.String()
	if b.op != opAtom || (!b.symbolic && b.num < 0) {
		den = "(" + den + ")"
	}
	return expr(a.operand(opProduct)+"/"+den, opQuotient)
}

// Negate returns -v.
func Negate(v Value) Value {
	if !v.symbolic {
		return Num(-v.num)
	}
	s := v.sym
	switch {
	case v.op == opSum:
		return expr("-("+s+")", opProduct)
	case strings.HasPrefix(s, "-"):
		return expr(strings.TrimPrefix(s, "-"), v.op)
	}
	return expr("-"+s, v.op)
}

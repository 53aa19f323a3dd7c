package minecode

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags a runtime Value. The zero Kind is KindVoid, the result of calls
// that never return a value.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBoolean
	KindArray // reserved, no runtime support
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInteger:
		return "redstone"
	case KindFloat:
		return "emerald"
	case KindText:
		return "obsidian"
	case KindBoolean:
		return "nether"
	case KindArray:
		return "ender"
	}

	return "unknown"
}

// Value is a tagged MineCode runtime value. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Bool  bool
}

func Integer(v int64) Value  { return Value{Kind: KindInteger, Int: v} }
func Float(v float64) Value  { return Value{Kind: KindFloat, Float: v} }
func Text(v string) Value    { return Value{Kind: KindText, Text: v} }
func Boolean(v bool) Value   { return Value{Kind: KindBoolean, Bool: v} }
func Void() Value            { return Value{} }
func (v Value) IsVoid() bool { return v.Kind == KindVoid }

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindText:
		return v.Text
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	}

	return "void"
}

// formatFloat keeps a trailing ".0" on whole numbers so 3.0 never prints
// like the integer 3.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// AsFloat coerces any value to a float. Text is parsed when it looks like a
// number and is 0 otherwise; booleans are 1 and 0.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0
		}
		return f
	case KindBoolean:
		if v.Bool {
			return 1
		}
	}

	return 0
}

// AsInt coerces any value to an integer, truncating floats.
func (v Value) AsInt() int64 {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindText:
		if i, err := strconv.ParseInt(strings.TrimSpace(v.Text), 10, 64); err == nil {
			return i
		}
	}

	return int64(v.AsFloat())
}

// Truthy: booleans are themselves, numbers are true when nonzero and text
// when non-empty. Void is false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindInteger:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindText:
		return v.Text != ""
	}

	return false
}

// Equals compares tag and payload. Values of different kinds are never
// equal, so 1 == 1.0 is false.
func (v Value) Equals(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindInteger:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindText:
		return v.Text == o.Text
	case KindBoolean:
		return v.Bool == o.Bool
	}

	return true
}

package minecode

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// NativeFunc is a host callable invocable by name from MineCode source.
type NativeFunc func(args []Value) (Value, error)

// Natives maps a callable name to its implementation.
type Natives map[string]NativeFunc

// Register adds or replaces a native function.
func (n Natives) Register(name string, fn NativeFunc) {
	n[name] = fn
}

func (n Natives) Lookup(name string) (NativeFunc, bool) {
	fn, ok := n[name]
	return fn, ok
}

var weathers = []string{"sunny", "rainy", "thunderstorm"}

// DefaultNatives returns a fresh registry with the math, string and world
// helpers.
func DefaultNatives() Natives {
	n := Natives{}
	defineBuiltins(n)

	return n
}

func defineBuiltins(n Natives) {
	n.Register("math_pow", arity(2, builtinPow))
	n.Register("math_sqrt", arity(1, builtinSqrt))
	n.Register("math_random", arity(0, builtinRandom))
	n.Register("string_length", arity(1, builtinLength))
	n.Register("string_upper", arity(1, builtinUpper))
	n.Register("string_lower", arity(1, builtinLower))
	n.Register("world_time", arity(0, builtinWorldTime))
	n.Register("world_weather", arity(0, builtinWorldWeather))
}

func arity(want int, fn NativeFunc) NativeFunc {
	return func(args []Value) (Value, error) {
		if len(args) != want {
			return Void(), fmt.Errorf("wrong number of arguments: got %d, want %d", len(args), want)
		}

		return fn(args)
	}
}

func builtinPow(args []Value) (Value, error) {
	return Float(math.Pow(args[0].AsFloat(), args[1].AsFloat())), nil
}

func builtinSqrt(args []Value) (Value, error) {
	return Float(math.Sqrt(args[0].AsFloat())), nil
}

func builtinRandom(_ []Value) (Value, error) {
	return Float(rand.Float64()), nil
}

func builtinLength(args []Value) (Value, error) {
	return Integer(int64(len([]rune(args[0].String())))), nil
}

func builtinUpper(args []Value) (Value, error) {
	return Text(strings.ToUpper(args[0].String())), nil
}

func builtinLower(args []Value) (Value, error) {
	return Text(strings.ToLower(args[0].String())), nil
}

// builtinWorldTime reports the in-game tick of a 24000 tick day.
func builtinWorldTime(_ []Value) (Value, error) {
	return Integer(time.Now().UnixMilli() % 24000), nil
}

func builtinWorldWeather(_ []Value) (Value, error) {
	return Text(weathers[rand.Intn(len(weathers))]), nil
}

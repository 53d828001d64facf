package dynvalue

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// The builtin library mirrors the support functions shipped alongside
// generated programs. Each builtin validates its operands and returns a
// wrapped sentinel error on misuse so callers can classify failures.

// Print writes the display form of each argument separated by single
// spaces, followed by a newline. With no arguments it writes a bare
// newline. Strings print without quotes at the top level.
func Print(w io.Writer, args ...Value) error {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.ToString())
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

// Len returns the element count of a list, set or dict, or the byte
// length of a string.
func Len(v Value) (Value, error) {
	n, err := v.Len()
	if err != nil {
		return None(), err
	}
	return Int(int64(n)), nil
}

// Range builds a list of ints. One argument gives [0, stop), two give
// [start, stop), three add a step which may be negative. A zero step is
// an error.
func Range(args ...Value) (Value, error) {
	var start, stop, step int64 = 0, 0, 1
	ints := make([]int64, len(args))
	for i, a := range args {
		if a.tag != TagInt {
			return None(), fmt.Errorf("%w: range expects integers, got %s", ErrType, a.tag.TypeName())
		}
		ints[i] = a.n
	}
	switch len(args) {
	case 1:
		stop = ints[0]
	case 2:
		start, stop = ints[0], ints[1]
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
		if step == 0 {
			return None(), fmt.Errorf("%w: range step cannot be zero", ErrValue)
		}
	default:
		return None(), fmt.Errorf("%w: range takes 1 to 3 arguments, got %d", ErrValue, len(args))
	}
	var out []Value
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, Int(i))
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, Int(i))
		}
	}
	if out == nil {
		out = []Value{}
	}
	return Value{tag: TagList, list: &out}, nil
}

// ToStr converts any value to its display string.
func ToStr(v Value) Value {
	return Str(v.ToString())
}

// ToIntValue converts to an int value: floats truncate toward zero, bools
// map to 0/1, and strings must parse as a decimal integer.
func ToIntValue(v Value) (Value, error) {
	n, err := v.ToInt()
	if err != nil {
		return None(), err
	}
	return Int(n), nil
}

// ToFloatValue converts to a float value.
func ToFloatValue(v Value) (Value, error) {
	f, err := v.ToFloat()
	if err != nil {
		return None(), err
	}
	return Float(f), nil
}

// ToBoolValue converts to a bool value by truthiness.
func ToBoolValue(v Value) Value {
	return Bool(v.ToBool())
}

// Abs returns the magnitude of a numeric value, preserving its tag.
func Abs(v Value) (Value, error) {
	switch v.tag {
	case TagInt:
		if v.n < 0 {
			return Int(-v.n), nil
		}
		return v, nil
	case TagFloat:
		return Float(math.Abs(v.f)), nil
	case TagBool:
		n, _ := v.ToInt()
		return Int(n), nil
	}
	return None(), fmt.Errorf("%w: abs of %s", ErrType, v.tag.TypeName())
}

// Min returns the smallest argument. A single list argument is unpacked
// and its smallest element returned; an empty list is an error.
func Min(args ...Value) (Value, error) {
	return extremum("min", -1, args)
}

// Max returns the largest argument, with the same single-list form as
// Min.
func Max(args ...Value) (Value, error) {
	return extremum("max", 1, args)
}

func extremum(name string, sign int, args []Value) (Value, error) {
	if len(args) == 0 {
		return None(), fmt.Errorf("%w: %s of no arguments", ErrValue, name)
	}
	elems := args
	if len(args) == 1 {
		if args[0].tag != TagList && args[0].tag != TagSet {
			return None(), fmt.Errorf("%w: %s of a single %s", ErrType, name, args[0].tag.TypeName())
		}
		var err error
		elems, err = args[0].Iterate()
		if err != nil {
			return None(), err
		}
		if len(elems) == 0 {
			return None(), fmt.Errorf("%w: %s of empty sequence", ErrValue, name)
		}
	}
	best := elems[0]
	for _, e := range elems[1:] {
		if Compare(e, best) == sign {
			best = e
		}
	}
	return best, nil
}

// Sum adds the elements of a list or set left to right starting from 0,
// using the runtime's + semantics.
func Sum(v Value) (Value, error) {
	elems, err := v.Iterate()
	if err != nil {
		return None(), err
	}
	if v.tag == TagStr {
		return None(), fmt.Errorf("%w: sum of str", ErrType)
	}
	acc := Int(0)
	for _, e := range elems {
		// A string element would concatenate with the accumulator under
		// the runtime's +, which is not addition. Reject it up front.
		if e.tag == TagStr {
			return None(), fmt.Errorf("%w: sum of str elements", ErrType)
		}
		acc, err = Add(acc, e)
		if err != nil {
			return None(), err
		}
	}
	return acc, nil
}

// TypeName returns the value's type name as a string value.
func TypeName(v Value) Value {
	return Str(v.tag.TypeName())
}

// Input writes the prompt (if any), reads one line from r without its
// trailing newline, and returns it as a string value. Callers that read
// more than once should pass a persistent *bufio.Reader, which is used
// as is; wrapping a plain reader fresh each call would discard whatever
// it buffered past the newline.
func Input(r io.Reader, w io.Writer, prompt *Value) (Value, error) {
	if prompt != nil {
		if _, err := fmt.Fprint(w, prompt.ToString()); err != nil {
			return None(), err
		}
	}
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return None(), err
	}
	line = strings.TrimRight(line, "\r\n")
	return Str(line), nil
}

/// NewSet builds a set: no arguments give an empty set, one iterable
// argument is deduplicated into a set.
func NewSet(args ...Value) (Value, error) {
	switch len(args) {
	case 0:
		return Set(), nil
	case 1:
		elems, err := args[0].Iterate()
		if err != nil {
			return None(), err
		}
		return Set(elems...), nil
	}
	return None(), fmt.Errorf("%w: set takes at most 1 argument, got %d", ErrValue, len(args))
}

package dynvalue

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Tag identifies the active variant of a Value. Exactly one variant is
// active at a time; every operation checks the tag before touching the
// payload. The declaration order is also the rank used when ordering
// values of different tags (see Compare).
type Tag uint8

const (
	TagNone Tag = iota
	TagBool
	TagInt
	TagFloat
	TagStr
	TagList
	TagSet
	TagDict
)

// TypeName returns the source-language name of a tag, as reported by the
// type() builtin.
func (t Tag) TypeName() string {
	switch t {
	case TagNone:
		return "NoneType"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagStr:
		return "str"
	case TagList:
		return "list"
	case TagSet:
		return "set"
	case TagDict:
		return "dict"
	}
	return "unknown"
}

// Value is the tagged-union runtime representation of any source-language
// value. Scalars are held inline; collection payloads are held behind
// pointers so that copies of a Value alias the same collection and
// mutating methods behave like the source language's reference semantics.
type Value struct {
	tag  Tag
	n    int64
	f    float64
	s    string
	b    bool
	list *[]Value
	dict *map[string]Value
	set  *map[string]Value // hash key -> member
}

// --- Constructors ---

func None() Value               { return Value{tag: TagNone} }
func Int(n int64) Value         { return Value{tag: TagInt, n: n} }
func Float(f float64) Value     { return Value{tag: TagFloat, f: f} }
func Str(s string) Value        { return Value{tag: TagStr, s: s} }
func Bool(b bool) Value         { return Value{tag: TagBool, b: b} }

// List builds a list value owning the given elements.
func List(elems ...Value) Value {
	payload := make([]Value, len(elems))
	copy(payload, elems)
	return Value{tag: TagList, list: &payload}
}

// Dict builds a dict value. Iteration and rendering order is by sorted
// key, matching the ordered associative container the C++ runtime uses.
func Dict(pairs map[string]Value) Value {
	payload := make(map[string]Value, len(pairs))
	for k, v := range pairs {
		payload[k] = v
	}
	return Value{tag: TagDict, dict: &payload}
}

// Set builds a set value, deduplicating by hash key.
func Set(elems ...Value) Value {
	payload := make(map[string]Value, len(elems))
	for _, e := range elems {
		payload[hashKey(e)] = e
	}
	return Value{tag: TagSet, set: &payload}
}

// --- Tag queries ---

func (v Value) Tag() Tag        { return v.tag }
func (v Value) IsNone() bool    { return v.tag == TagNone }
func (v Value) IsInt() bool     { return v.tag == TagInt }
func (v Value) IsFloat() bool   { return v.tag == TagFloat }
func (v Value) IsStr() bool     { return v.tag == TagStr }
func (v Value) IsBool() bool    { return v.tag == TagBool }
func (v Value) IsList() bool    { return v.tag == TagList }
func (v Value) IsDict() bool    { return v.tag == TagDict }
func (v Value) IsSet() bool     { return v.tag == TagSet }
func (v Value) IsNumeric() bool { return v.tag == TagInt || v.tag == TagFloat }

// --- Conversions ---

// ToInt converts the value to an integer. Bool maps to 0/1, float
// truncates toward zero, strings are parsed.
func (v Value) ToInt() (int64, error) {
	switch v.tag {
	case TagInt:
		return v.n, nil
	case TagFloat:
		return int64(v.f), nil
	case TagBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case TagStr:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot parse %q as int", ErrConversion, v.s)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s to int", ErrUnsupportedConversion, v.tag.TypeName())
}

// ToFloat converts the value to floating point.
func (v Value) ToFloat() (float64, error) {
	switch v.tag {
	case TagFloat:
		return v.f, nil
	case TagInt:
		return float64(v.n), nil
	case TagBool:
		if v.b {
			return 1.0, nil
		}
		return 0.0, nil
	case TagStr:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot parse %q as float", ErrConversion, v.s)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s to float", ErrUnsupportedConversion, v.tag.TypeName())
}

// ToBool is the source language's truthiness: None and zero are false,
// empty string/collection is false, everything else is true. Defined for
// every tag; it never fails.
func (v Value) ToBool() bool {
	switch v.tag {
	case TagNone:
		return false
	case TagBool:
		return v.b
	case TagInt:
		return v.n != 0
	case TagFloat:
		return v.f != 0.0
	case TagStr:
		return v.s != ""
	case TagList:
		return len(*v.list) > 0
	case TagDict:
		return len(*v.dict) > 0
	case TagSet:
		return len(*v.set) > 0
	}
	return false
}

// ToString renders the value the way print() shows it: bare text for
// strings, source-language spellings for the rest.
func (v Value) ToString() string {
	if v.tag == TagStr {
		return v.s
	}
	return v.repr()
}

// repr renders like the source language's repr: strings quoted, floats
// with a trailing .0 when integral, collections recursively.
func (v Value) repr() string {
	switch v.tag {
	case TagNone:
		return "None"
	case TagBool:
		if v.b {
			return "True"
		}
		return "False"
	case TagInt:
		return strconv.FormatInt(v.n, 10)
	case TagFloat:
		return formatFloat(v.f)
	case TagStr:
		return "'" + strings.ReplaceAll(v.s, "'", "\\'") + "'"
	case TagList:
		parts := make([]string, len(*v.list))
		for i, e := range *v.list {
			parts[i] = e.repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagDict:
		keys := v.sortedDictKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = "'" + k + "': " + (*v.dict)[k].repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TagSet:
		elems := v.sortedSetElems()
		if len(elems) == 0 {
			return "set()"
		}
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<unknown>"
}

func (v Value) String() string { return v.ToString() }

// formatFloat renders a float the way the source language prints it:
// shortest round-trip form, with a forced ".0" for integral values.
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// hashKey computes a canonical key for storing a value in a hashed
// container. Numeric values that compare equal share a key (1 and 1.0
// dedupe); collection-typed values fall back to their rendered form.
func hashKey(v Value) string {
	switch v.tag {
	case TagNone:
		return "n"
	case TagBool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	case TagInt:
		return "num:" + strconv.FormatFloat(float64(v.n), 'g', -1, 64)
	case TagFloat:
		return "num:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case TagStr:
		return "s:" + v.s
	default:
		return "r:" + v.repr()
	}
}

// sortedDictKeys returns the dict's keys in ascending order. The dict's
// observable iteration order is always this one.
func (v Value) sortedDictKeys() []string {
	keys := make([]string, 0, len(*v.dict))
	for k := range *v.dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedSetElems returns the set's members in Compare order. Mixed-tag
// members stay totally ordered thanks to the tag-rank fallback.
func (v Value) sortedSetElems() []Value {
	elems := make([]Value, 0, len(*v.set))
	for _, e := range *v.set {
		elems = append(elems, e)
	}
	sort.Slice(elems, func(i, j int) bool {
		return Compare(elems[i], elems[j]) < 0
	})
	return elems
}

// Len returns the element count of a collection or the byte length of a
// string, matching std::string::size in the generated code.
func (v Value) Len() (int, error) {
	switch v.tag {
	case TagStr:
		return len(v.s), nil
	case TagList:
		return len(*v.list), nil
	case TagDict:
		return len(*v.dict), nil
	case TagSet:
		return len(*v.set), nil
	}
	return 0, fmt.Errorf("%w: object of type %s has no len()", ErrType, v.tag.TypeName())
}

// Iterate returns the value's list representation for for-loops: a list
// as-is, a set in its sorted order, a dict as its sorted keys, a string
// as one-byte strings so its element count agrees with Len.
func (v Value) Iterate() ([]Value, error) {
	switch v.tag {
	case TagList:
		out := make([]Value, len(*v.list))
		copy(out, *v.list)
		return out, nil
	case TagSet:
		return v.sortedSetElems(), nil
	case TagDict:
		keys := v.sortedDictKeys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = Str(k)
		}
		return out, nil
	case TagStr:
		out := make([]Value, 0, len(v.s))
		for i := 0; i < len(v.s); i++ {
			out = append(out, Str(v.s[i:i+1]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s object is not iterable", ErrType, v.tag.TypeName())
}

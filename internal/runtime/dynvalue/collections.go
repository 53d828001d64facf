package dynvalue

import (
	"fmt"
	"strings"
)

// Index reads container[key]: lists take an integer index (negative counts
// from the end), dicts take a string key, strings yield one-character
// strings.
func Index(container, key Value) (Value, error) {
	switch container.tag {
	case TagList:
		i, err := listIndex(len(*container.list), key)
		if err != nil {
			return None(), err
		}
		return (*container.list)[i], nil
	case TagDict:
		if key.tag != TagStr {
			return None(), fmt.Errorf("%w: dict keys are strings, got %s", ErrType, key.tag.TypeName())
		}
		v, ok := (*container.dict)[key.s]
		if !ok {
			return None(), fmt.Errorf("%w: %q", ErrKeyNotFound, key.s)
		}
		return v, nil
	case TagStr:
		// Strings index by byte, the unit the generated std::string code
		// uses as well.
		i, err := listIndex(len(container.s), key)
		if err != nil {
			return None(), err
		}
		return Str(container.s[i : i+1]), nil
	}
	return None(), fmt.Errorf("%w: %s is not subscriptable", ErrType, container.tag.TypeName())
}

// SetIndex writes container[key] = v in place.
func SetIndex(container, key, v Value) error {
	switch container.tag {
	case TagList:
		i, err := listIndex(len(*container.list), key)
		if err != nil {
			return err
		}
		(*container.list)[i] = v
		return nil
	case TagDict:
		if key.tag != TagStr {
			return fmt.Errorf("%w: dict keys are strings, got %s", ErrType, key.tag.TypeName())
		}
		(*container.dict)[key.s] = v
		return nil
	}
	return fmt.Errorf("%w: %s does not support item assignment", ErrType, container.tag.TypeName())
}

func listIndex(n int, key Value) (int, error) {
	if key.tag != TagInt && key.tag != TagBool {
		return 0, fmt.Errorf("%w: indices must be integers, got %s", ErrType, key.tag.TypeName())
	}
	i, _ := key.ToInt()
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, fmt.Errorf("%w: %d out of range for length %d", ErrIndex, i, n)
	}
	return int(i), nil
}

// Sublist slices a list or string. Nil bounds take the full extent,
// negative bounds count from the end, and the step may be negative for a
// reversed walk. A zero step is an error.
func Sublist(container Value, low, high, step *Value) (Value, error) {
	var elems []Value
	isStr := false
	switch container.tag {
	case TagList:
		elems = *container.list
	case TagStr:
		isStr = true
		for i := 0; i < len(container.s); i++ {
			elems = append(elems, Str(container.s[i:i+1]))
		}
	default:
		return None(), fmt.Errorf("%w: %s is not sliceable", ErrType, container.tag.TypeName())
	}

	st := int64(1)
	if step != nil {
		v, err := step.ToInt()
		if err != nil {
			return None(), err
		}
		if v == 0 {
			return None(), fmt.Errorf("%w: slice step cannot be zero", ErrValue)
		}
		st = v
	}

	n := int64(len(elems))
	lo, hi := sliceDefaults(n, st)
	if low != nil {
		v, err := low.ToInt()
		if err != nil {
			return None(), err
		}
		lo = clampSliceBound(v, n, st)
	}
	if high != nil {
		v, err := high.ToInt()
		if err != nil {
			return None(), err
		}
		hi = clampSliceBound(v, n, st)
	}

	var out []Value
	if st > 0 {
		for i := lo; i < hi; i += st {
			out = append(out, elems[i])
		}
	} else {
		for i := lo; i > hi; i += st {
			out = append(out, elems[i])
		}
	}
	if isStr {
		var sb strings.Builder
		for _, v := range out {
			sb.WriteString(v.s)
		}
		return Str(sb.String()), nil
	}
	if out == nil {
		out = []Value{}
	}
	return Value{tag: TagList, list: &out}, nil
}

func sliceDefaults(n, step int64) (lo, hi int64) {
	if step > 0 {
		return 0, n
	}
	return n - 1, -1
}

func clampSliceBound(v, n, step int64) int64 {
	if v < 0 {
		v += n
	}
	if step > 0 {
		if v < 0 {
			return 0
		}
		if v > n {
			return n
		}
		return v
	}
	if v < -1 {
		return -1
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Append pushes v onto a list in place.
func (v Value) Append(elem Value) error {
	if v.tag != TagList {
		return fmt.Errorf("%w: append on %s", ErrType, v.tag.TypeName())
	}
	*v.list = append(*v.list, elem)
	return nil
}

// Insert places elem at position i of a list, shifting the tail right.
// Out-of-range positions clamp to the ends.
func (v Value) Insert(i int64, elem Value) error {
	if v.tag != TagList {
		return fmt.Errorf("%w: insert on %s", ErrType, v.tag.TypeName())
	}
	n := int64(len(*v.list))
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	l := *v.list
	l = append(l, None())
	copy(l[i+1:], l[i:])
	l[i] = elem
	*v.list = l
	return nil
}

// Extend appends every element of other (any iterable) to a list.
func (v Value) Extend(other Value) error {
	if v.tag != TagList {
		return fmt.Errorf("%w: extend on %s", ErrType, v.tag.TypeName())
	}
	elems, err := other.Iterate()
	if err != nil {
		return err
	}
	*v.list = append(*v.list, elems...)
	return nil
}

// Pop removes and returns the element at index i of a list. A negative i
// counts from the end; the default, signalled by i == -1 with wantLast,
// is handled by the caller passing the length minus one.
func (v Value) Pop(i int64) (Value, error) {
	if v.tag != TagList {
		return None(), fmt.Errorf("%w: pop on %s", ErrType, v.tag.TypeName())
	}
	n := int64(len(*v.list))
	if n == 0 {
		return None(), fmt.Errorf("%w: pop from empty list", ErrIndex)
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return None(), fmt.Errorf("%w: pop index %d out of range", ErrIndex, i)
	}
	l := *v.list
	out := l[i]
	*v.list = append(l[:i], l[i+1:]...)
	return out, nil
}

// Remove dispatches on the receiver tag: a list removes by position, a
// dict removes by key, a set removes by value.
func (v Value) Remove(arg Value) error {
	switch v.tag {
	case TagList:
		i, err := listIndex(len(*v.list), arg)
		if err != nil {
			return err
		}
		l := *v.list
		*v.list = append(l[:i], l[i+1:]...)
		return nil
	case TagDict:
		if arg.tag != TagStr {
			return fmt.Errorf("%w: dict keys are strings, got %s", ErrType, arg.tag.TypeName())
		}
		if _, ok := (*v.dict)[arg.s]; !ok {
			return fmt.Errorf("%w: %q", ErrKeyNotFound, arg.s)
		}
		delete(*v.dict, arg.s)
		return nil
	case TagSet:
		k := hashKey(arg)
		if _, ok := (*v.set)[k]; !ok {
			return fmt.Errorf("%w: %s not in set", ErrKeyNotFound, arg.repr())
		}
		delete(*v.set, k)
		return nil
	}
	return fmt.Errorf("%w: remove on %s", ErrType, v.tag.TypeName())
}

// AddElem inserts elem into a set in place.
func (v Value) AddElem(elem Value) error {
	if v.tag != TagSet {
		return fmt.Errorf("%w: add on %s", ErrType, v.tag.TypeName())
	}
	(*v.set)[hashKey(elem)] = elem
	return nil
}

// Contains reports membership: element of a list or set, key of a dict,
// substring of a string.
func (v Value) Contains(elem Value) (bool, error) {
	switch v.tag {
	case TagList:
		for _, e := range *v.list {
			if Equal(e, elem) {
				return true, nil
			}
		}
		return false, nil
	case TagSet:
		_, ok := (*v.set)[hashKey(elem)]
		return ok, nil
	case TagDict:
		if elem.tag != TagStr {
			return false, nil
		}
		_, ok := (*v.dict)[elem.s]
		return ok, nil
	case TagStr:
		if elem.tag != TagStr {
			return false, fmt.Errorf("%w: 'in <string>' requires string, got %s", ErrType, elem.tag.TypeName())
		}
		return strings.Contains(v.s, elem.s), nil
	}
	return false, fmt.Errorf("%w: %s is not a container", ErrType, v.tag.TypeName())
}

// Keys returns a dict's keys as a list of strings in sorted order,
// matching the ordered map of the generated code.
func (v Value) Keys() (Value, error) {
	if v.tag != TagDict {
		return None(), fmt.Errorf("%w: keys on %s", ErrType, v.tag.TypeName())
	}
	keys := v.sortedDictKeys()
	out := make([]Value, 0, len(keys))
	for _, k := range keys {
		out = append(out, Str(k))
	}
	return Value{tag: TagList, list: &out}, nil
}

// Values returns a dict's values in sorted-key order.
func (v Value) Values() (Value, error) {
	if v.tag != TagDict {
		return None(), fmt.Errorf("%w: values on %s", ErrType, v.tag.TypeName())
	}
	keys := v.sortedDictKeys()
	out := make([]Value, 0, len(keys))
	for _, k := range keys {
		out = append(out, (*v.dict)[k])
	}
	return Value{tag: TagList, list: &out}, nil
}

// Items returns a dict's entries as [key, value] pairs in sorted-key
// order.
func (v Value) Items() (Value, error) {
	if v.tag != TagDict {
		return None(), fmt.Errorf("%w: items on %s", ErrType, v.tag.TypeName())
	}
	keys := v.sortedDictKeys()
	out := make([]Value, 0, len(keys))
	for _, k := range keys {
		out = append(out, List(Str(k), (*v.dict)[k]))
	}
	return Value{tag: TagList, list: &out}, nil
}

// Get returns dict[key] or None when the key is absent.
func (v Value) Get(key Value) (Value, error) {
	if v.tag != TagDict {
		return None(), fmt.Errorf("%w: get on %s", ErrType, v.tag.TypeName())
	}
	if key.tag != TagStr {
		return None(), fmt.Errorf("%w: dict keys are strings, got %s", ErrType, key.tag.TypeName())
	}
	if out, ok := (*v.dict)[key.s]; ok {
		return out, nil
	}
	return None(), nil
}

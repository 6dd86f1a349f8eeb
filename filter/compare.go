package filter

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Compare orders two values naturally: strings lexicographically (lowered
// unless caseSensitive), numbers by magnitude regardless of their concrete
// numeric type, times chronologically, booleans false before true. Null
// values order before everything else. Values with no natural common ordering
// yield an ErrTypeMismatch.
func Compare(a, b any, caseSensitive bool) (int, error) {
	aNull, bNull := isNull(a), isNull(b)

	switch {
	case aNull && bNull:
		return 0, nil
	case aNull:
		return -1, nil
	case bNull:
		return 1, nil
	}

	if aTime, ok := a.(time.Time); ok {
		bTime, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrTypeMismatch, a, b)
		}

		return aTime.Compare(bTime), nil
	}

	if aStr, ok := asString(a); ok {
		bStr, ok := asString(b)
		if !ok {
			return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrTypeMismatch, a, b)
		}

		if !caseSensitive {
			aStr, bStr = strings.ToLower(aStr), strings.ToLower(bStr)
		}

		return strings.Compare(aStr, bStr), nil
	}

	if aNum, ok := asFloat(a); ok {
		bNum, ok := asFloat(b)
		if !ok {
			return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrTypeMismatch, a, b)
		}

		switch {
		case aNum < bNum:
			return -1, nil
		case aNum > bNum:
			return 1, nil
		}

		return 0, nil
	}

	if aBool, ok := a.(bool); ok {
		bBool, ok := b.(bool)
		if !ok {
			return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrTypeMismatch, a, b)
		}

		switch {
		case aBool == bBool:
			return 0, nil
		case bBool:
			return -1, nil
		}

		return 1, nil
	}

	return 0, fmt.Errorf("%w: no natural ordering for %T", ErrTypeMismatch, a)
}

// isNull treats untyped nil and nil-valued pointers, maps, and slices as null.
func isNull(v any) bool {
	if v == nil {
		return true
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return value.IsNil()
	}

	return false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	}

	return "", false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}

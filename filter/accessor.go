package filter

import (
	"fmt"
	"reflect"
	"strings"
)

// Accessor maps field names to readers of those fields on an instance of T.
// It is the only contract the compiler and sorter require; callers can supply
// a function table, a map lookup, or the reflection-derived accessor below.
type Accessor[T any] interface {
	Read(obj T, field string) (any, error)
}

// FuncAccessor is an accessor backed by an explicit field→reader table.
type FuncAccessor[T any] map[string]func(T) any

func (a FuncAccessor[T]) Read(obj T, field string) (any, error) {
	reader, ok := a[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return reader(obj), nil
}

// MapAccessor reads fields from map-shaped elements. Missing keys read as
// null rather than failing, matching document-store semantics.
type MapAccessor struct{}

func (MapAccessor) Read(obj map[string]any, field string) (any, error) {
	return obj[field], nil
}

// ReflectAccessor reads exported struct fields by name. Lookup is
// case-insensitive so that filter field names like "isActive" resolve the
// IsActive struct field.
type ReflectAccessor[T any] struct {
	fields map[string]int
}

// NewReflectAccessor builds an accessor over the exported fields of the
// struct type T (or pointer to struct).
func NewReflectAccessor[T any]() (*ReflectAccessor[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("reflect accessor requires a struct type, got %s", typ.Kind())
	}

	fields := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}

		fields[strings.ToLower(structField.Name)] = i
	}

	return &ReflectAccessor[T]{fields: fields}, nil
}

func (a *ReflectAccessor[T]) Read(obj T, field string) (any, error) {
	index, ok := a.fields[strings.ToLower(field)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil
		}

		value = value.Elem()
	}

	return value.Field(index).Interface(), nil
}

package validator

import (
	"reflect"
	"strings"
)

// Attribute lookup is deliberately generic: fixtures produce plain structs,
// pointers to structs, and map[string]any test doubles interchangeably, and
// validators address attributes by the loosely-cased names users write in
// specs. Lookup order is struct field / map key first, then method.

// lookupAttr resolves a named attribute on the candidate. Pointers and
// interfaces are dereferenced. Matching is exact first, then case-insensitive,
// so a spec naming "title" reaches the exported field Title.
func lookupAttr(candidate any, name string) (any, bool) {
	v := reflect.ValueOf(candidate)
	if !v.IsValid() {
		return nil, false
	}

	deref := v
	for deref.Kind() == reflect.Pointer || deref.Kind() == reflect.Interface {
		if deref.IsNil() {
			return nil, false
		}

		deref = deref.Elem()
	}

	switch deref.Kind() { //nolint:exhaustive
	case reflect.Struct:
		if field, ok := structField(deref, name); ok {
			return field, true
		}
	case reflect.Map:
		if val, ok := mapKey(deref, name); ok {
			return val, true
		}
	}

	if m := methodByName(v, name); m.IsValid() {
		return m.Interface(), true
	}

	if deref != v {
		if m := methodByName(deref, name); m.IsValid() {
			return m.Interface(), true
		}
	}

	return nil, false
}

// hasAttr reports whether the named attribute is reachable on the candidate.
func hasAttr(candidate any, name string) bool {
	_, ok := lookupAttr(candidate, name)

	return ok
}

func structField(v reflect.Value, name string) (any, bool) {
	field := v.FieldByName(name)
	if !field.IsValid() {
		field = v.FieldByNameFunc(func(n string) bool {
			return strings.EqualFold(n, name)
		})
	}

	if field.IsValid() && field.CanInterface() {
		return field.Interface(), true
	}

	return nil, false
}

func mapKey(v reflect.Value, name string) (any, bool) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	key := reflect.ValueOf(name).Convert(v.Type().Key())

	val := v.MapIndex(key)
	if !val.IsValid() {
		for _, k := range v.MapKeys() {
			if strings.EqualFold(k.String(), name) {
				val = v.MapIndex(k)

				break
			}
		}
	}

	if !val.IsValid() {
		return nil, false
	}

	return val.Interface(), true
}

func methodByName(v reflect.Value, name string) reflect.Value {
	if m := v.MethodByName(name); m.IsValid() {
		return m
	}

	t := v.Type()
	for i := range t.NumMethod() {
		if strings.EqualFold(t.Method(i).Name, name) {
			return v.Method(i)
		}
	}

	return reflect.Value{}
}

// typeName renders the candidate's type for error messages, dereferencing
// pointers so messages name the underlying type.
func typeName(candidate any) string {
	if candidate == nil {
		return "<nil>"
	}

	t := reflect.TypeOf(candidate)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

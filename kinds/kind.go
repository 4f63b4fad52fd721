// Package kinds is a small algebra over ordered, closed collections of Go
// types. Machine declarations are built from it: the states a machine can be
// in, the events it understands, and every table derived from the two.
package kinds

import (
	"reflect"
)

// Namer lets a type choose the name it is rendered under. It is called on
// the zero value, so implement it with a value receiver.
type Namer interface {
	KindName() string
}

// Kind identifies a Go type taking part in a declaration. Two kinds are
// equal exactly when they describe the same type, so Kind can be used as a
// map key or a Set element.
type Kind struct {
	typ reflect.Type
}

// Of returns the kind of T.
func Of[T any]() Kind {
	return Kind{typ: reflect.TypeFor[T]()}
}

// OfValue returns the kind of the dynamic type of v. Pointers resolve to the
// type they point at, so a *LockedState and a LockedState share one kind.
// A nil value yields the zero Kind.
func OfValue(v any) Kind {
	if v == nil {
		return Kind{}
	}

	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return Kind{typ: typ}
}

// Type returns the underlying reflect.Type.
func (k Kind) Type() reflect.Type {
	return k.typ
}

// IsZero reports whether k was never assigned a type.
func (k Kind) IsZero() bool {
	return k.typ == nil
}

// Name is the printable name of the kind. Types implementing Namer decide
// their own name; all others use the bare Go type name. Pointer kinds are
// named after their element, prefixed with "*".
func (k Kind) Name() string {
	if k.typ == nil {
		return ""
	}

	if k.typ.Kind() == reflect.Pointer {
		return "*" + Kind{typ: k.typ.Elem()}.Name()
	}

	if namer, ok := reflect.Zero(k.typ).Interface().(Namer); ok {
		return namer.KindName()
	}

	if name := k.typ.Name(); name != "" {
		return name
	}

	return k.typ.String()
}

func (k Kind) String() string {
	return k.Name()
}

// New allocates a zero value of the kind and returns a pointer to it.
func (k Kind) New() any {
	return reflect.New(k.typ).Interface()
}

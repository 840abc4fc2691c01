package navigator

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Method is how a destination is presented.
type Method int

const (
	// MethodPush appends the destination to the stack's path.
	MethodPush Method = iota
	// MethodSend broadcasts the destination to receivers instead of
	// presenting it.
	MethodSend
	// MethodSheet presents the destination as a sheet.
	MethodSheet
	// MethodCover presents the destination as a full-screen cover, or as a
	// sheet where covers are not supported.
	MethodCover
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodPush:
		return "push"
	case MethodSend:
		return "send"
	case MethodSheet:
		return "sheet"
	case MethodCover:
		return "cover"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// MethodProvider is implemented by destinations that are not pushed by
// default.
type MethodProvider interface {
	NavigationMethod() Method
}

// Identifier is implemented by destinations that supply their own identity
// key instead of having their contents hashed.
type Identifier interface {
	Identity() string
}

// StackTargeter is implemented by values that belong to a named stack,
// such as a tab. Inside an action list they move the target to that stack.
type StackTargeter interface {
	TargetStackID() string
}

// AnyDestination boxes a destination value with its identity and
// presentation method.
type AnyDestination struct {
	value  any
	id     uint64
	method Method
}

// Wrap boxes v. Wrapping an AnyDestination returns it unchanged, and a nil
// pointer boxes to the zero destination.
func Wrap(v any) AnyDestination {
	if d, ok := v.(AnyDestination); ok {
		return d
	}
	if isNilPointer(v) {
		return AnyDestination{}
	}
	d := AnyDestination{value: v, id: identityOf(v)}
	if mp, ok := v.(MethodProvider); ok {
		d.method = mp.NavigationMethod()
	}
	return d
}

// identityOf hashes the dynamic type name together with either the value's
// Identity key or its Go-syntax contents. %#v skips String and Error methods,
// so two values that print alike but hold different fields stay distinct.
func identityOf(v any) uint64 {
	if v == nil {
		return 0
	}
	if idv, ok := v.(Identifier); ok {
		return xxhash.Sum64String(fmt.Sprintf("%T#%s", v, idv.Identity()))
	}
	return xxhash.Sum64String(fmt.Sprintf("%T|%#v", v, v))
}

func isNilPointer(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Value returns the boxed value.
func (d AnyDestination) Value() any { return d.value }

// ID returns the identity hash.
func (d AnyDestination) ID() uint64 { return d.id }

// Method returns the destination's default presentation method.
func (d AnyDestination) Method() Method { return d.method }

// IsZero reports whether d boxes nothing.
func (d AnyDestination) IsZero() bool { return d.value == nil }

// Equal reports whether both destinations have the same identity.
func (d AnyDestination) Equal(other AnyDestination) bool {
	return d.id == other.id && d.IsZero() == other.IsZero()
}

// TypeName returns the dynamic type name of the boxed value.
func (d AnyDestination) TypeName() string {
	return typeName(d.value)
}

// String implements fmt.Stringer.
func (d AnyDestination) String() string {
	if d.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%+v", d.value)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

// As unboxes d as a T.
func As[T any](d AnyDestination) (T, bool) {
	v, ok := d.value.(T)
	return v, ok
}

// Renderer turns a destination of type D into a view.
type Renderer[D, V any] func(D) V

// Render unboxes d and renders it. It reports false when d does not hold
// a D; the view is never inspected.
func Render[D, V any](d AnyDestination, r Renderer[D, V]) (V, bool) {
	dest, ok := As[D](d)
	if !ok || r == nil {
		var zero V
		return zero, false
	}
	return r(dest), true
}

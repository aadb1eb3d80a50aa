// Package owl is a closed, immutable model of OWL 2 structural objects:
// entities, expressions, literals, annotations and axioms.
//
// Every object renders to a canonical functional-syntax string. Two objects are
// structurally equal exactly when their canonical strings are equal, and set
// valued arguments (operands, annotations) render in sorted order so argument
// order never affects identity.
package owl

import (
	"reflect"
	"sort"
	"strings"
)

// Kind names a concrete variant. Kind values double as graph node labels.
type Kind string

// Object is implemented by every variant in the model.
type Object interface {
	Kind() Kind
	String() string
}

// -- Category interfaces --
// The unexported marker methods keep the variant set closed to this package.

// Entity is a named, IRI-identified object.
type Entity interface {
	Object
	EntityIRI() IRI
	isEntity()
}

// ClassExpression is a named class or an anonymous class constructor.
type ClassExpression interface {
	Object
	isClassExpression()
}

// ObjectPropertyExpression is a named object property or its inverse.
type ObjectPropertyExpression interface {
	Object
	isObjectPropertyExpression()
}

// DataRange is a datatype or a data range constructor.
type DataRange interface {
	Object
	isDataRange()
}

// Individual is a named or anonymous individual.
type Individual interface {
	Object
	isIndividual()
}

// AnnotationSubject is what an annotation assertion is about.
type AnnotationSubject interface {
	Object
	isAnnotationSubject()
}

// AnnotationValue is the value side of an annotation.
type AnnotationValue interface {
	Object
	isAnnotationValue()
}

// Axiom is a logical or non-logical statement in an ontology.
type Axiom interface {
	Object
	AxiomAnnotations() []Annotation
	isAxiom()
}

// -- Canonical rendering helpers --

func render(name string, args ...string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(strings.Join(args, " "))
	b.WriteByte(')')
	return b.String()
}

// setStrings renders xs sorted and without duplicates.
func setStrings[T Object](xs []T) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		s := x.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SortedSet returns xs ordered by canonical string with duplicates removed.
func SortedSet[T Object](xs []T) []T {
	if len(xs) == 0 {
		return nil
	}
	byKey := make(map[string]T, len(xs))
	for _, x := range xs {
		byKey[x.String()] = x
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func withAnnotations(name string, annotations []Annotation, args ...string) string {
	all := append(setStrings(annotations), args...)
	return render(name, all...)
}

// Equal reports structural equality.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.String() == b.String()
}

// Acyclic reports whether obj can be rendered without reaching itself again.
// Values only share memory through slices, so a cycle is a slice element
// reachable from its own contents.
func Acyclic(obj Object) bool {
	if obj == nil {
		return true
	}
	return acyclic(reflect.ValueOf(obj), make(map[uintptr]struct{}))
}

func acyclic(v reflect.Value, path map[uintptr]struct{}) bool {
	switch v.Kind() {
	case reflect.Interface:
		return v.IsNil() || acyclic(v.Elem(), path)
	case reflect.Pointer:
		return v.IsNil() || enter(v.Pointer(), v.Elem(), path)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !acyclic(v.Field(i), path) {
				return false
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			e := v.Index(i)
			if e.CanAddr() {
				if !enter(e.UnsafeAddr(), e, path) {
					return false
				}
			} else if !acyclic(e, path) {
				return false
			}
		}
	}
	return true
}

func enter(addr uintptr, v reflect.Value, path map[uintptr]struct{}) bool {
	if _, ok := path[addr]; ok {
		return false
	}
	path[addr] = struct{}{}
	defer delete(path, addr)
	return acyclic(v, path)
}

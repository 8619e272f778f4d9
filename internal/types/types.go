// Package types is the algebraic type model: a tagged union of type
// variants plus the structural predicates, equality, and substitution the
// rest of the checker builds on. It mirrors the shape of the teacher's
// internal/typesystem package (Type interface, Apply(Subst),
// FreeTypeVariables) but is generics-as-interface-bound rather than
// Hindley-Milner: unrestricted polymorphism inference is explicitly out of
// scope, so there is no unifier here beyond the generic mapper in
// internal/generics.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every type variant implements.
type Type interface {
	String() string
	// Equal reports structural equality for anonymous composites and
	// nominal equality (by name) for named structs/sums.
	Equal(Type) bool
	// Apply substitutes every Generic(name) appearing in t per s.
	Apply(s Subst) Type
	// FreeGenerics lists the generic parameter names appearing in t,
	// deduplicated and sorted for deterministic mangled names.
	FreeGenerics() []string
}

// PrimKind enumerates the primitive type variants.
type PrimKind int

const (
	Int PrimKind = iota
	UInt
	Float
	Bool
	Char
	String
	Void
	Nil
	Unknown
)

var primNames = map[PrimKind]string{
	Int: "Int", UInt: "UInt", Float: "Float", Bool: "Bool", Char: "Char",
	String: "String", Void: "Void", Nil: "Nil", Unknown: "Unknown",
}

// Primitive is one of Int, UInt, Float, Bool, Char, String, Void, Nil,
// Unknown.
type Primitive struct{ Kind PrimKind }

func (p Primitive) String() string                { return primNames[p.Kind] }
func (p Primitive) Apply(Subst) Type               { return p }
func (p Primitive) FreeGenerics() []string          { return nil }
func (p Primitive) Equal(o Type) bool {
	op, ok := o.(Primitive)
	return ok && op.Kind == p.Kind
}

// Convenience singletons for the primitive kinds.
var (
	TInt     = Primitive{Int}
	TUInt    = Primitive{UInt}
	TFloat   = Primitive{Float}
	TBool    = Primitive{Bool}
	TChar    = Primitive{Char}
	TString  = Primitive{String}
	TVoid    = Primitive{Void}
	TNil     = Primitive{Nil}
	TUnknown = Primitive{Unknown}
)

// Pointer is `*T`.
type Pointer struct{ Elem Type }

func (p Pointer) String() string { return "*" + p.Elem.String() }
func (p Pointer) Apply(s Subst) Type {
	return Pointer{Elem: p.Elem.Apply(s)}
}
func (p Pointer) FreeGenerics() []string { return p.Elem.FreeGenerics() }
func (p Pointer) Equal(o Type) bool {
	op, ok := o.(Pointer)
	return ok && p.Elem.Equal(op.Elem)
}

// Array is a fixed-length `[T; N]`.
type Array struct {
	Elem   Type
	Length int
}

func (a Array) String() string { return fmt.Sprintf("Array(%s,%d)", a.Elem.String(), a.Length) }
func (a Array) Apply(s Subst) Type {
	return Array{Elem: a.Elem.Apply(s), Length: a.Length}
}
func (a Array) FreeGenerics() []string { return a.Elem.FreeGenerics() }
func (a Array) Equal(o Type) bool {
	oa, ok := o.(Array)
	return ok && a.Length == oa.Length && a.Elem.Equal(oa.Elem)
}

// Slice is `[]T`.
type Slice struct{ Elem Type }

func (s Slice) String() string { return "Slice(" + s.Elem.String() + ")" }
func (s Slice) Apply(sub Subst) Type {
	return Slice{Elem: s.Elem.Apply(sub)}
}
func (s Slice) FreeGenerics() []string { return s.Elem.FreeGenerics() }
func (s Slice) Equal(o Type) bool {
	os, ok := o.(Slice)
	return ok && s.Elem.Equal(os.Elem)
}

// Optional is `T?`. Optional(Nil) is illegal;
// constructors are expected to enforce this, not the type itself.
type Optional struct{ Elem Type }

func (o Optional) String() string { return "Optional(" + o.Elem.String() + ")" }
func (o Optional) Apply(s Subst) Type {
	return Optional{Elem: o.Elem.Apply(s)}
}
func (o Optional) FreeGenerics() []string { return o.Elem.FreeGenerics() }
func (o Optional) Equal(other Type) bool {
	oo, ok := other.(Optional)
	return ok && o.Elem.Equal(oo.Elem)
}

// Member is one struct field.
type Member struct {
	Name string
	Type Type
}

// Struct is an anonymous (Name == "") or named struct type.
type Struct struct {
	Name    string
	Members []Member
}

func (s Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	parts := make([]string, len(s.Members))
	for i, m := range s.Members {
		parts[i] = m.Name + ":" + m.Type.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (s Struct) Apply(sub Subst) Type {
	out := Struct{Name: s.Name, Members: make([]Member, len(s.Members))}
	for i, m := range s.Members {
		out.Members[i] = Member{Name: m.Name, Type: m.Type.Apply(sub)}
	}
	return out
}

func (s Struct) FreeGenerics() []string {
	var out []string
	for _, m := range s.Members {
		out = append(out, m.Type.FreeGenerics()...)
	}
	return dedup(out)
}

func (s Struct) Equal(o Type) bool {
	os, ok := o.(Struct)
	if !ok {
		return false
	}
	// Named structs compare nominally.
	if s.Name != "" || os.Name != "" {
		return s.Name == os.Name
	}
	if len(s.Members) != len(os.Members) {
		return false
	}
	for i, m := range s.Members {
		om := os.Members[i]
		if m.Name != om.Name || !m.Type.Equal(om.Type) {
			return false
		}
	}
	return true
}

// MemberIndex returns the index of a named member, or -1.
func (s Struct) MemberIndex(name string) int {
	for i, m := range s.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// SumCase is one variant of a Sum type. Payload is TInt (payload-less) or a
// Struct (payload-carrying).
type SumCase struct {
	Name    string
	Payload Type
}

// IsPayloadless reports whether this case carries no data.
func (c SumCase) IsPayloadless() bool {
	p, ok := c.Payload.(Primitive)
	return ok && p.Kind == Int
}

// Sum is a tagged union, e.g. `Shape = Circle{r:Int} | Square{s:Int}`.
type Sum struct {
	Name  string
	Cases []SumCase
}

func (s Sum) String() string { return s.Name }

func (s Sum) Apply(sub Subst) Type {
	out := Sum{Name: s.Name, Cases: make([]SumCase, len(s.Cases))}
	for i, c := range s.Cases {
		out.Cases[i] = SumCase{Name: c.Name, Payload: c.Payload.Apply(sub)}
	}
	return out
}

func (s Sum) FreeGenerics() []string {
	var out []string
	for _, c := range s.Cases {
		out = append(out, c.Payload.FreeGenerics()...)
	}
	return dedup(out)
}

func (s Sum) Equal(o Type) bool {
	os, ok := o.(Sum)
	return ok && s.Name == os.Name
}

// CaseByName finds a case by name, or (zero, false).
func (s Sum) CaseByName(name string) (SumCase, bool) {
	for _, c := range s.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return SumCase{}, false
}

// Enum is a plain closed set of named constants (no payloads at all).
type Enum struct {
	Name  string
	Cases []string
}

func (e Enum) String() string            { return e.Name }
func (e Enum) Apply(Subst) Type          { return e }
func (e Enum) FreeGenerics() []string    { return nil }
func (e Enum) Equal(o Type) bool {
	oe, ok := o.(Enum)
	return ok && e.Name == oe.Name
}
func (e Enum) HasCase(name string) bool {
	for _, c := range e.Cases {
		if c == name {
			return true
		}
	}
	return false
}

// Func is a function type `(Args...) -> Return`. If any sub-term is a
// Generic, the Func is abstract.
type Func struct {
	Args   []Type
	Return Type
}

func (f Func) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ",") + ")->" + f.Return.String()
}

func (f Func) Apply(s Subst) Type {
	out := Func{Args: make([]Type, len(f.Args)), Return: f.Return.Apply(s)}
	for i, a := range f.Args {
		out.Args[i] = a.Apply(s)
	}
	return out
}

func (f Func) FreeGenerics() []string {
	var out []string
	for _, a := range f.Args {
		out = append(out, a.FreeGenerics()...)
	}
	out = append(out, f.Return.FreeGenerics()...)
	return dedup(out)
}

func (f Func) Equal(o Type) bool {
	of, ok := o.(Func)
	if !ok || len(f.Args) != len(of.Args) || !f.Return.Equal(of.Return) {
		return false
	}
	for i, a := range f.Args {
		if !a.Equal(of.Args[i]) {
			return false
		}
	}
	return true
}

// FunctionSignature is one method of an Interface.
type FunctionSignature struct {
	Name   string
	Args   []Type
	Return Type
}

// Interface is a named capability list.
type Interface struct {
	Name      string
	Functions []FunctionSignature
}

func (i *Interface) String() string         { return i.Name }
func (i *Interface) Apply(Subst) Type       { return i }
func (i *Interface) FreeGenerics() []string { return nil }
func (i *Interface) Equal(o Type) bool {
	oi, ok := o.(*Interface)
	return ok && oi.Name == i.Name
}

// MethodSignature looks up a method by name.
func (i *Interface) MethodSignature(name string) (FunctionSignature, bool) {
	for _, f := range i.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return FunctionSignature{}, false
}

// GenericKind distinguishes the two forms of generic bound: a single
// interface or an intersection of several.
type GenericKind interface {
	genericKind()
	String() string
}

// Any is `$T: SomeInterface` — any type implementing one named interface.
type Any struct {
	Name      string // the generic parameter's own name
	Interface string // the bounding interface name, "" if unconstrained
}

func (Any) genericKind()   {}
func (a Any) String() string {
	if a.Interface == "" {
		return a.Name
	}
	return a.Name + ":" + a.Interface
}

// Restricted is `$T: (A & B & C)` — intersection of several interfaces.
type Restricted struct {
	Name       string
	Interfaces []*Interface
}

func (Restricted) genericKind() {}
func (r Restricted) String() string {
	names := make([]string, len(r.Interfaces))
	for i, in := range r.Interfaces {
		names[i] = in.Name
	}
	return r.Name + ":(" + strings.Join(names, "&") + ")"
}

// Generic is an unresolved type parameter occurrence.
type Generic struct{ Kind GenericKind }

func (g Generic) String() string { return "$" + g.Kind.String() }

func (g Generic) Apply(s Subst) Type {
	if repl, ok := s[g.name()]; ok {
		return repl
	}
	return g
}

func (g Generic) FreeGenerics() []string { return []string{g.name()} }

func (g Generic) Equal(o Type) bool {
	og, ok := o.(Generic)
	return ok && g.name() == og.name()
}

func (g Generic) name() string {
	switch k := g.Kind.(type) {
	case Any:
		return k.Name
	case Restricted:
		return k.Name
	default:
		return ""
	}
}

// Interfaces returns the interface bound(s) of a generic, if any.
func (g Generic) Interfaces(lookup func(string) (*Interface, bool)) []*Interface {
	switch k := g.Kind.(type) {
	case Any:
		if k.Interface == "" {
			return nil
		}
		if iface, ok := lookup(k.Interface); ok {
			return []*Interface{iface}
		}
		return nil
	case Restricted:
		return k.Interfaces
	}
	return nil
}

func dedup(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out) // deterministic order for instantiation naming
	return out
}

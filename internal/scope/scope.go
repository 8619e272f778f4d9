// Package scope is the lexically-scoped name → (fully-qualified-name, type,
// mutability) map. It is the Cobra/Nomad analogue of the teacher's
// internal/symbols package (symbol_table_core.go,
// symbol_table_operations.go): a chain of frames, with a separate globals
// layer that survives across function boundaries.
package scope

import (
	"fmt"
	"strings"

	"github.com/cobra-lang/cobrac/internal/types"
)

// Entry is what resolve() returns for a name.
type Entry struct {
	FullName string
	Type     types.Type
	Mutable  bool
}

type binding struct {
	entry Entry
}

// Frame is one lexical scope. IsFunctionBoundary frames opaque outer
// non-global names: a lambda's body sees its own parameters and globals, and
// none of the enclosing function's arguments or locals.
type Frame struct {
	bindings           map[string]binding
	isFunctionBoundary bool
}

func newFrame(isFunctionBoundary bool) *Frame {
	return &Frame{bindings: make(map[string]binding), isFunctionBoundary: isFunctionBoundary}
}

// Stack is the scope stack the checker threads through every recursive
// call.
type Stack struct {
	frames    []*Frame
	globals   map[string]binding
	modulePfx string // current module name, for resolving `module::symbol` shortcuts
}

// New creates a stack with no frames and an empty globals layer.
func New(modulePrefix string) *Stack {
	return &Stack{
		frames:    nil,
		globals:   make(map[string]binding),
		modulePfx: modulePrefix,
	}
}

// ErrRedefinition is returned by Add when name already exists in the top
// frame.
type ErrRedefinition struct{ Name string }

func (e *ErrRedefinition) Error() string { return fmt.Sprintf("redefinition: %s", e.Name) }

// PushStack pushes a new frame. A function-boundary frame cuts off lookups
// into enclosing non-global frames.
func (s *Stack) PushStack(isFunctionBoundary bool) {
	s.frames = append(s.frames, newFrame(isFunctionBoundary))
}

// PopStack pops the top frame.
func (s *Stack) PopStack() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Add declares a new name in the current (top) frame.
func (s *Stack) Add(name string, t types.Type, mutable bool) error {
	if len(s.frames) == 0 {
		s.PushStack(false)
	}
	top := s.frames[len(s.frames)-1]
	if _, exists := top.bindings[name]; exists {
		return &ErrRedefinition{Name: name}
	}
	top.bindings[name] = binding{Entry{FullName: name, Type: t, Mutable: mutable}}
	return nil
}

// Update overwrites an existing binding's type in place, used when the
// checker revisits a binding with a type hint.
func (s *Stack) Update(name string, t types.Type, mutable bool) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if b, ok := f.bindings[name]; ok {
			b.entry.Type = t
			b.entry.Mutable = mutable
			f.bindings[name] = b
			return true
		}
		if f.isFunctionBoundary {
			break
		}
	}
	if b, ok := s.globals[name]; ok {
		b.entry.Type = t
		s.globals[name] = b
		return true
	}
	return false
}

// AddGlobal declares a name in the separate globals layer, which survives
// across function boundaries.
func (s *Stack) AddGlobal(name string, t types.Type, mutable bool) error {
	if _, exists := s.globals[name]; exists {
		return &ErrRedefinition{Name: name}
	}
	fq := name
	if s.modulePfx != "" && !strings.Contains(name, "::") {
		fq = s.modulePfx + "::" + name
	}
	s.globals[name] = binding{Entry{FullName: fq, Type: t, Mutable: mutable}}
	return nil
}

// Resolve searches top-to-bottom, stopping at (but including) the first
// function-boundary frame, then falls back to globals. A fully-qualified
// `module::symbol` name shortcuts straight to globals.
func (s *Stack) Resolve(name string) (Entry, bool) {
	if strings.Contains(name, "::") {
		if e, ok := s.globals[name]; ok {
			return e.entry, true
		}
		// Allow `CurrentModule::x` to resolve against the unqualified global.
		if s.modulePfx != "" && strings.HasPrefix(name, s.modulePfx+"::") {
			short := strings.TrimPrefix(name, s.modulePfx+"::")
			if e, ok := s.globals[short]; ok {
				return e.entry, true
			}
		}
		return Entry{}, false
	}

	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if b, ok := f.bindings[name]; ok {
			return b.entry, true
		}
		if f.isFunctionBoundary {
			break
		}
	}
	if e, ok := s.globals[name]; ok {
		return e.entry, true
	}
	return Entry{}, false
}

// IsDefinedLocally reports whether name is bound in the current top frame
// only (used for the redefinition check before Add).
func (s *Stack) IsDefinedLocally(name string) bool {
	if len(s.frames) == 0 {
		return false
	}
	_, ok := s.frames[len(s.frames)-1].bindings[name]
	return ok
}

// Depth reports the number of open frames, mostly useful for tests that
// assert push/pop is balanced.
func (s *Stack) Depth() int { return len(s.frames) }

package clite

import "sort"

// Env is one node of the lexical scope chain. The parent link is only used
// for lookup; a child never outlives the closures that captured it because
// every Function keeps its defining Env reachable.
type Env struct {
	parent *Env
	values map[string]Value
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

func (e *Env) Parent() *Env {
	return e.parent
}

// Get resolves name by walking outward to the root.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Assign updates the nearest scope that already binds name. When no scope
// does, name is defined in e itself and Assign reports false.
func (e *Env) Assign(name string, val Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return true
		}
	}
	e.values[name] = val
	return false
}

// Has reports whether name is bound directly in this scope.
func (e *Env) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names lists the names bound directly in this scope, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package variable

import "sync"

// Store is the engine's flat, process-wide variable namespace. It is
// exclusively owned by one executor; nothing else reads or writes it
// concurrently (spec §5), but the mutex below keeps Get safe to call from
// an observer callback invoked on the executor's own goroutine without
// requiring callers to reason about reentrancy rules.
type Store struct {
	mu   sync.Mutex
	vars map[string]entry
}

type entry struct {
	typ   Type
	value Value
}

// NewStore returns an empty variable store.
func NewStore() *Store {
	return &Store{vars: make(map[string]entry)}
}

// Define declares name with type t and its zero value. It fails if name
// does not start with "%" or its second character is not a recognised
// type prefix.
func (s *Store) Define(name string, t Type) error {
	return s.define(name, t, zeroValue(t))
}

// DefineWithLiteral declares name with type t, parsing initial from the
// type's literal grammar (spec §4.1).
func (s *Store) DefineWithLiteral(name string, t Type, initial string) error {
	v, err := ParseLiteral(t, initial)
	if err != nil {
		return err
	}
	return s.define(name, t, v)
}

func (s *Store) define(name string, t Type, v Value) error {
	if len(name) < 2 || name[0] != '%' {
		return &DefinitionError{Name: name, Reason: `must start with "%"`}
	}
	if !Type(name[1]).Valid() {
		return &DefinitionError{Name: name, Reason: "second character must be one of i,s,f,b,p,r"}
	}
	if !t.Valid() {
		return &DefinitionError{Name: name, Reason: "unknown variable type"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Redefinition is last-write-wins, kept for parity with the source
	// semantics (spec §4.1): a later definition of the same name replaces
	// the earlier binding and its value, counters included.
	s.vars[name] = entry{typ: t, value: v}
	return nil
}

// Get returns the current value of name, or ok=false if undefined.
func (s *Store) Get(name string) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.vars[name]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set assigns value to an already-defined name. It fails if name is
// undefined or if value's runtime type does not match the type name was
// defined with; no implicit widening happens here (that lives in the
// expression engine).
func (s *Store) Set(name string, value Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.vars[name]
	if !ok {
		return &UndefinedError{Name: name}
	}
	if value.Type() != e.typ {
		return &TypeMismatchError{Name: name, Expected: e.typ, Got: value.Type()}
	}
	e.value = value
	s.vars[name] = e
	return nil
}

// ParseDefinition parses a "%Xname" or "%Xname=literal" definition string
// and defines it in the store. Redefinition overwrites the existing
// binding (see Define).
func (s *Store) ParseDefinition(def string) error {
	name, literal, hasLiteral := SplitDefinition(def)
	t, ok := TypeFromName(name)
	if !ok {
		return &DefinitionError{Name: def, Reason: `malformed "%Xname" definition`}
	}
	if !nameRe.MatchString(name) {
		return &DefinitionError{Name: def, Reason: "identifier must match [A-Za-z_][A-Za-z0-9_]*"}
	}
	if hasLiteral {
		return s.DefineWithLiteral(name, t, literal)
	}
	return s.Define(name, t)
}

// ParseDefinitions applies ParseDefinition to each entry in defs in order,
// stopping at the first error.
func (s *Store) ParseDefinitions(defs []string) error {
	for _, d := range defs {
		if err := s.ParseDefinition(d); err != nil {
			return err
		}
	}
	return nil
}

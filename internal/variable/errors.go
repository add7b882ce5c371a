package variable

import "fmt"

// DefinitionError reports a malformed variable name or definition string.
type DefinitionError struct {
	Name   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("variable: invalid definition %q: %s", e.Name, e.Reason)
}

// UndefinedError reports an operation against a name that was never defined.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("variable: %q is not defined", e.Name)
}

// TypeMismatchError reports a set/reassignment whose value type does not
// match the type the name was defined with.
type TypeMismatchError struct {
	Name     string
	Expected Type
	Got      Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("variable: %q is %%%c, cannot assign %%%c value", e.Name, e.Expected, e.Got)
}

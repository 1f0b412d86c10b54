package typesystem

import "fmt"

// UnboundTypeVariableError is returned when a type parameter could not be
// inferred from the arguments of a call.
type UnboundTypeVariableError struct {
	Name string
}

func (e *UnboundTypeVariableError) Error() string {
	return fmt.Sprintf("cannot infer type parameter %s", e.Name)
}

// Resolve returns the bindings of vars in order, failing on the first one
// left unbound or only partially known.
func Resolve(vars []string, s Subst) ([]Type, error) {
	out := make([]Type, len(vars))
	for i, name := range vars {
		t, ok := s[name]
		if !ok || !IsComplete(t) {
			return nil, &UnboundTypeVariableError{Name: name}
		}
		out[i] = t
	}
	return out, nil
}

package typesystem

import "fmt"

// Match binds the type variables of pattern so that it accepts actual.
// Bindings already in s take precedence: the first occurrence of a type
// variable fixes it and later occurrences must agree. s is extended in place.
func Match(pattern, actual Type, s Subst) error {
	if IsNever(actual) {
		return nil
	}

	switch p := pattern.(type) {
	case TVar:
		if _, unknown := actual.(TUnknown); unknown {
			return nil
		}
		if bound, ok := s[p.Name]; ok {
			if Accepts(bound, actual) {
				return nil
			}
			if Accepts(actual, bound) {
				// `[]` bound first, `[1]` refines it.
				s[p.Name] = actual
				return nil
			}
			return &ConflictError{Var: p.Name, First: bound, Second: actual}
		}
		s[p.Name] = actual
		return nil

	case TCon:
		if Accepts(p, actual) {
			return nil
		}
		return errMismatch(pattern, actual)

	case TApp:
		if _, unknown := actual.(TUnknown); unknown {
			return nil
		}
		a, ok := actual.(TApp)
		if !ok || a.Constructor != p.Constructor || len(a.Args) != len(p.Args) {
			return errMismatch(pattern, actual)
		}
		for i := range p.Args {
			if err := Match(p.Args[i], a.Args[i], s); err != nil {
				return err
			}
		}
		return nil

	case TFunc:
		a, ok := actual.(TFunc)
		if !ok || len(a.Params) != len(p.Params) {
			return errMismatch(pattern, actual)
		}
		for i := range p.Params {
			if err := Match(p.Params[i], a.Params[i], s); err != nil {
				return err
			}
		}
		return Match(p.ReturnType, a.ReturnType, s)
	}

	if Accepts(pattern, actual) {
		return nil
	}
	return errMismatch(pattern, actual)
}

// MismatchError reports that a value of type Actual cannot be used as Expected.
type MismatchError struct {
	Expected Type
	Actual   Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Actual)
}

// ConflictError reports a type variable inferred as two different types.
type ConflictError struct {
	Var    string
	First  Type
	Second Type
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("type parameter %s inferred as both %s and %s", e.Var, e.First, e.Second)
}

func errMismatch(expected, actual Type) error {
	return &MismatchError{Expected: expected, Actual: actual}
}

package symbols

import (
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// InstanceKey identifies a monomorphized function: the generic declaration
// and the ordered concrete type arguments. Declarations are compared by
// identity, since two modules may share a name and a signature.
type InstanceKey struct {
	Generic *Function
	Args    string
}

func KeyFor(generic *Function, args []typesystem.Type) InstanceKey {
	return InstanceKey{Generic: generic, Args: typesystem.Key(args)}
}

// Instances is the append-only cache of monomorphized functions.
type Instances struct {
	entries map[InstanceKey]*Function
	order   []*Function
}

func NewInstances() *Instances {
	return &Instances{entries: make(map[InstanceKey]*Function)}
}

func (c *Instances) Lookup(generic *Function, args []typesystem.Type) (*Function, bool) {
	fn, ok := c.entries[KeyFor(generic, args)]
	return fn, ok
}

// Store registers an instance. An existing entry for the same key is kept
// and returned.
func (c *Instances) Store(instance *Function) *Function {
	key := KeyFor(instance.Origin, instance.TypeArgs)
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = instance
	c.order = append(c.order, instance)
	return instance
}

func (c *Instances) Len() int {
	return len(c.order)
}

// All returns the instances in creation order.
func (c *Instances) All() []*Function {
	return c.order
}

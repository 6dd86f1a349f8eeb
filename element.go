package filterkit

import "slices"

// ElementType identifies the element type a data source yields, as an
// explicit tag rather than a runtime type. Capabilities list further tags the
// element satisfies (its supertypes or implemented capability sets), so an
// adapter declaring a capability can serve every element carrying it. Family
// and Arg describe instantiations of a generic family, e.g. Family
// "sequence" with Arg "User".
type ElementType struct {
	Name         string
	Capabilities []string
	Family       string
	Arg          string
}

// Element builds a plain element type tag with optional capabilities.
func Element(name string, capabilities ...string) ElementType {
	return ElementType{Name: name, Capabilities: capabilities}
}

// Instance builds an element type instantiating a generic family.
func Instance(family, arg string, capabilities ...string) ElementType {
	return ElementType{Name: family + "[" + arg + "]", Family: family, Arg: arg, Capabilities: capabilities}
}

func (e ElementType) String() string {
	if e.Name != "" {
		return e.Name
	}

	if e.Family != "" {
		arg := e.Arg
		if arg == "" {
			arg = "*"
		}

		return e.Family + "[" + arg + "]"
	}

	return "<unspecified>"
}

// Matches reports whether a declared supported type e can serve elements of
// type elem: an exact name match, a capability-set membership (e names a
// capability elem carries), or a generic-family instantiation (e declares the
// family, possibly with a wildcard argument).
func (e ElementType) Matches(elem ElementType) bool {
	if e.Name != "" && e.Name == elem.Name {
		return true
	}

	if e.Name != "" && slices.Contains(elem.Capabilities, e.Name) {
		return true
	}

	if e.Family != "" && e.Family == elem.Family {
		return e.Arg == "" || e.Arg == "*" || e.Arg == elem.Arg
	}

	return false
}

// Supports is the declared supported-type set of an adapter. Embed it to get
// the capability probe for free.
type Supports struct {
	Types []ElementType
}

// CanHandle reports whether any declared type matches elem.
func (s Supports) CanHandle(elem ElementType) bool {
	for _, t := range s.Types {
		if t.Matches(elem) {
			return true
		}
	}

	return false
}

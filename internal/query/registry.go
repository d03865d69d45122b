package query

import "slices"

// Registry is the set of query names a query library exports, partitioned
// into synchronous and asynchronous families. It is built once and never
// mutated.
type Registry struct {
	all      []Name
	sync     []Name
	async    []Name
	byPrefix map[string]Name
}

// NewRegistry adopts every export that parses as a query name. Other exports
// (helpers, configure, etc.) are ignored, and no expected set is enforced.
func NewRegistry(exports []string) *Registry {
	reg := &Registry{byPrefix: make(map[string]Name, len(exports))}
	for _, export := range exports {
		name, err := Parse(export)
		if err != nil {
			continue
		}
		if _, dup := reg.byPrefix[name.SelectorPrefix()]; dup {
			continue
		}
		reg.byPrefix[name.SelectorPrefix()] = name
		reg.all = append(reg.all, name)
		if name.IsSynchronous() {
			reg.sync = append(reg.sync, name)
		} else {
			reg.async = append(reg.async, name)
		}
	}
	return reg
}

// Default returns the registry of the standard query set: every prefix
// combined with every strategy.
func Default() *Registry {
	return NewRegistry(StandardNames())
}

// StandardNames lists the standard query names as strings.
func StandardNames() []string {
	names := make([]string, 0, len(Prefixes)*len(Strategies))
	for _, strategy := range Strategies {
		for _, prefix := range []Prefix{PrefixGet, PrefixGetAll, PrefixQuery, PrefixQueryAll, PrefixFind, PrefixFindAll} {
			names = append(names, string(Compose(prefix, strategy)))
		}
	}
	return names
}

// All returns every registered name in export order.
func (r *Registry) All() []Name { return slices.Clone(r.all) }

// Synchronous returns the get, getAll, query and queryAll names.
func (r *Registry) Synchronous() []Name { return slices.Clone(r.sync) }

// Asynchronous returns the find and findAll names.
func (r *Registry) Asynchronous() []Name { return slices.Clone(r.async) }

// Has reports whether name is registered.
func (r *Registry) Has(name Name) bool {
	found, ok := r.byPrefix[name.SelectorPrefix()]
	return ok && found == name
}

// Lookup inverts [Name.SelectorPrefix] for registered names.
func (r *Registry) Lookup(selectorPrefix string) (Name, bool) {
	name, ok := r.byPrefix[selectorPrefix]
	return name, ok
}

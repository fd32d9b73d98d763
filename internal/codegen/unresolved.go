package codegen

import "sort"

// UnresolvedSet holds type names that have been referenced but not yet
// emitted. The type mapper adds to it and the resolver removes names as
// their definitions are emitted. Create one with NewUnresolvedSet.
type UnresolvedSet map[string]struct{}

// NewUnresolvedSet creates an empty set.
func NewUnresolvedSet() UnresolvedSet {
	return make(UnresolvedSet)
}

// Add records name as referenced.
func (s UnresolvedSet) Add(name string) {
	s[name] = struct{}{}
}

// Remove marks name as resolved.
func (s UnresolvedSet) Remove(name string) {
	delete(s, name)
}

// Contains reports whether name is still unresolved.
func (s UnresolvedSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of unresolved names.
func (s UnresolvedSet) Len() int {
	return len(s)
}

// Names returns the unresolved names in sorted order.
func (s UnresolvedSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

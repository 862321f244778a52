package refset

import "sort"

// Set is a de-duplicating collection of asset references
type Set struct {
	refs []string
	seen map[string]struct{}
}

// New creates an empty Set
func New() *Set {
	return &Set{
		refs: make([]string, 0),
		seen: make(map[string]struct{}),
	}
}

// Add adds a reference if it hasn't been seen, reporting whether it was new
func (s *Set) Add(ref string) bool {
	if ref == "" {
		return false
	}
	if _, ok := s.seen[ref]; ok {
		return false
	}

	s.seen[ref] = struct{}{}
	s.refs = append(s.refs, ref)
	return true
}

// Contains checks if a reference was added
func (s *Set) Contains(ref string) bool {
	_, ok := s.seen[ref]
	return ok
}

// Len returns the number of distinct references
func (s *Set) Len() int {
	return len(s.refs)
}

// Sorted returns the references in lexicographic order. This is the
// canonical iteration order for everything downstream.
func (s *Set) Sorted() []string {
	out := make([]string, len(s.refs))
	copy(out, s.refs)
	sort.Strings(out)
	return out
}

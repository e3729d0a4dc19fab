package dedup

import "sort"

// URLSet tracks unique job URLs across listing pages
type URLSet struct {
	seen map[string]struct{}
}

// NewURLSet creates an empty set, optionally seeded with urls
func NewURLSet(urls ...string) *URLSet {
	s := &URLSet{seen: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add inserts url and reports whether it was not already present
func (s *URLSet) Add(url string) bool {
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

func (s *URLSet) Has(url string) bool {
	_, ok := s.seen[url]
	return ok
}

func (s *URLSet) Len() int {
	return len(s.seen)
}

// Merge adds every url from other and returns how many were new
func (s *URLSet) Merge(other *URLSet) int {
	added := 0
	for u := range other.seen {
		if s.Add(u) {
			added++
		}
	}
	return added
}

// Sorted returns the members in lexicographic order
func (s *URLSet) Sorted() []string {
	urls := make([]string, 0, len(s.seen))
	for u := range s.seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

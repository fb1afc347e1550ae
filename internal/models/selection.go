package models

import (
	"sort"
	"strings"
)

// Set is a set of allowed values for one filter dimension.
type Set map[string]struct{}

func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[strings.TrimSpace(v)] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[strings.TrimSpace(v)]
	return ok
}

// Values returns the members in sorted order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// FilterSelection is the query predicate of one run. Platforms and Campaigns
// always apply: an empty set selects nothing. A nil optional set means that
// dimension is not filtered; it is also ignored when the source table lacks
// the column.
type FilterSelection struct {
	Platforms  Set
	Campaigns  Set
	Categories Set
	Brands     Set
	Products   Set
}

// Package depscan recovers "header includes header" edges from a parsed component
// diagram.
//
// Artifacts stereotyped <<header>> are recorded as headers; dependencies stereotyped
// <<include>> whose source is an already recorded header become include edges. The
// scan is a single top-down pass, so an edge is only kept when its source artifact
// was declared earlier in the diagram.
package depscan

import (
	"github.com/mvp-joe/restuml2code/internal/model"
	"github.com/mvp-joe/restuml2code/internal/uml"
)

const (
	stereotypeHeader  = "header"
	stereotypeInclude = "include"
)

// Scanner holds the state of one diagram scan.
type Scanner struct {
	known    map[string]bool
	headers  []string
	includes map[string][]string
	order    []string
}

// NewScanner creates an empty scanner.
func NewScanner() *Scanner {
	return &Scanner{
		known:    make(map[string]bool),
		includes: make(map[string][]string),
	}
}

// Scan visits the tree top-down.
func (s *Scanner) Scan(root *uml.Node) {
	root.VisitTopDown(func(n *uml.Node) {
		switch n.Kind {
		case uml.KindArtifact:
			s.artifact(n)
		case uml.KindDependency:
			s.dependency(n)
		}
	})
}

func (s *Scanner) artifact(n *uml.Node) {
	name := n.ChildValue(uml.KindArtifactName)
	for _, c := range n.Children {
		if c.Kind != uml.KindStereotype {
			continue
		}
		if c.ChildValue(uml.KindStereotypeName) == stereotypeHeader && !s.known[name] {
			s.known[name] = true
			s.headers = append(s.headers, name)
		}
	}
}

func (s *Scanner) dependency(n *uml.Node) {
	from := n.ChildValue(uml.KindRelationFrom)
	to := n.ChildValue(uml.KindRelationTo)
	stereotype := ""
	if st := n.Child(uml.KindStereotype); st != nil {
		stereotype = st.ChildValue(uml.KindStereotypeName)
	}
	if stereotype != stereotypeInclude || !s.known[from] {
		return
	}
	if _, ok := s.includes[from]; !ok {
		s.order = append(s.order, from)
	}
	s.includes[from] = append(s.includes[from], to)
}

// Headers returns the header artifacts seen, in declaration order.
func (s *Scanner) Headers() []string {
	return append([]string(nil), s.headers...)
}

// Includes returns the include targets recorded for header, in discovery order.
func (s *Scanner) Includes(header string) []string {
	return append([]string(nil), s.includes[header]...)
}

// Merge appends every discovered include list to the registry, creating headers
// as needed.
func (s *Scanner) Merge(reg *model.Registry) {
	for _, from := range s.order {
		reg.AddIncludes(from, s.includes[from]...)
	}
}

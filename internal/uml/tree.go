// Package uml parses the subset of PlantUML used in interface documents to describe
// which source files include which.
//
// The parser produces a small parse tree shaped after the diagram grammar: a
// "diagram" root whose children are "artifact" and "dependency" statements. Artifacts
// hold an "artifact_name" token and optional "stereotype" nodes; dependencies hold
// "relation_from", "relation_to" and an optional "stereotype".
package uml

// DefaultMarker tags diagrams that describe source file dependencies.
const DefaultMarker = ":restuml2code:"

// Node kinds produced by Parse.
const (
	KindDiagram        = "diagram"
	KindArtifact       = "artifact"
	KindArtifactName   = "artifact_name"
	KindStereotype     = "stereotype"
	KindStereotypeName = "stereotype_name"
	KindDependency     = "dependency"
	KindRelationFrom   = "relation_from"
	KindRelationTo     = "relation_to"
)

// Node is a parse tree node. Leaf nodes carry Value.
type Node struct {
	Kind     string
	Value    string
	Line     int
	Children []*Node
}

// Child returns the first direct child of the given kind, or nil.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildValue returns the Value of the first direct child of the given kind.
func (n *Node) ChildValue(kind string) string {
	if c := n.Child(kind); c != nil {
		return c.Value
	}
	return ""
}

// VisitTopDown calls fn for n and every descendant in pre-order.
func (n *Node) VisitTopDown(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.VisitTopDown(fn)
	}
}

package doctree

// Visitor receives paired Visit/Depart calls for every node in document order.
type Visitor interface {
	Visit(n Node) error
	Depart(n Node) error
}

// Walk traverses the tree rooted at n depth-first. The first error returned by the
// visitor stops the walk and is returned unchanged.
func Walk(n Node, v Visitor) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := Walk(c, v); err != nil {
			return err
		}
	}
	return v.Depart(n)
}

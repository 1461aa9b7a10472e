package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
)

// Registry maps header file names to their records. Records are created on first
// reference and never replaced.
type Registry struct {
	headers map[string]*HeaderRecord
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{headers: make(map[string]*HeaderRecord)}
}

// AddHeader returns the record for name, creating it if absent.
func (r *Registry) AddHeader(name string) *HeaderRecord {
	if h, ok := r.headers[name]; ok {
		return h
	}
	h := NewHeaderRecord(name)
	r.headers[name] = h
	r.order = append(r.order, name)
	return h
}

// Get returns the record for name.
func (r *Registry) Get(name string) (*HeaderRecord, bool) {
	h, ok := r.headers[name]
	return h, ok
}

// Len returns the number of headers.
func (r *Registry) Len() int {
	return len(r.headers)
}

// Names returns header names in creation order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Headers returns the records in creation order.
func (r *Registry) Headers() []*HeaderRecord {
	out := make([]*HeaderRecord, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.headers[name])
	}
	return out
}

// Map returns the records keyed by header name.
func (r *Registry) Map() map[string]*HeaderRecord {
	out := make(map[string]*HeaderRecord, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// AddIncludes appends include targets to header, creating the header if absent.
func (r *Registry) AddIncludes(header string, targets ...string) {
	h := r.AddHeader(header)
	h.Includes = append(h.Includes, targets...)
}

// Merge folds the headers of other into r. Records new to r are copied; for
// existing ones element lists and includes are appended and empty scalar
// attributes are filled in. other is left unchanged.
func (r *Registry) Merge(other *Registry) {
	for _, name := range other.order {
		src := other.headers[name]
		dst, ok := r.headers[name]
		if !ok {
			r.headers[name] = src.Clone()
			r.order = append(r.order, name)
			continue
		}
		dst.Functions = append(dst.Functions, src.Functions...)
		dst.Types = append(dst.Types, src.Types...)
		dst.MacroConstants = append(dst.MacroConstants, src.MacroConstants...)
		dst.MacroFunctions = append(dst.MacroFunctions, src.MacroFunctions...)
		dst.Variables = append(dst.Variables, src.Variables...)
		dst.Includes = append(dst.Includes, src.Includes...)
		if dst.Description == "" {
			dst.Description = src.Description
		}
		dst.Generated = dst.Generated || src.Generated
		dst.SetGlobals(src.Globals)
	}
}

// Broadcast copies fields onto every header currently registered.
func (r *Registry) Broadcast(fields map[string]string) {
	if len(fields) == 0 {
		return
	}
	for _, h := range r.headers {
		h.SetGlobals(fields)
	}
}

// IncludeGraph builds a directed graph with an edge from every header to each
// file it includes. Included files that have no record become plain vertices.
func (r *Registry) IncludeGraph() (graph.Graph[string, string], error) {
	return r.includeGraph(false)
}

// includeGraph builds the include graph; reverse points edges from included file to includer.
func (r *Registry) includeGraph(reverse bool) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())

	addVertex := func(name string) error {
		if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add vertex %s: %w", name, err)
		}
		return nil
	}

	for _, name := range r.order {
		if err := addVertex(name); err != nil {
			return nil, err
		}
	}
	for _, name := range r.order {
		for _, inc := range r.headers[name].Includes {
			if err := addVertex(inc); err != nil {
				return nil, err
			}
			from, to := name, inc
			if reverse {
				from, to = inc, name
			}
			if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add include edge %s -> %s: %w", name, inc, err)
			}
		}
	}
	return g, nil
}

// IncludeOrder returns every file of the include graph ordered so that each file
// comes after the files it includes. Ties are broken by name. It fails when the
// includes form a cycle.
func (r *Registry) IncludeOrder() ([]string, error) {
	g, err := r.includeGraph(true)
	if err != nil {
		return nil, err
	}
	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("failed to order includes: %w", err)
	}
	return order, nil
}

// IncludeCycles returns every group of files that include each other, directly
// or transitively. Each group is sorted; groups are sorted by their first name.
func (r *Registry) IncludeCycles() ([][]string, error) {
	g, err := r.IncludeGraph()
	if err != nil {
		return nil, err
	}
	components, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, fmt.Errorf("failed to find include cycles: %w", err)
	}

	adj, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	var cycles [][]string
	for _, c := range components {
		if len(c) == 1 {
			if _, self := adj[c[0]][c[0]]; !self {
				continue
			}
		}
		sort.Strings(c)
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}
